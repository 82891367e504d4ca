//go:build linux

// Package memfd is a memory.Manager that backs every region with an anonymous memfd file, so the
// region can be passed to other processes by file descriptor and mapped there.
package memfd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/sgr-gralloc/sgralloc/memory"
	"github.com/sgr-gralloc/sgralloc/memutils"
	"golang.org/x/sys/unix"
)

type Options struct {
	// Seal prevents the regions from being resized once created
	Seal bool
	// UseMutex guards region mappings against concurrent Map/Unmap
	UseMutex bool
}

type Manager struct {
	options  Options
	pageSize uint64
}

func New(options Options) *Manager {
	return &Manager{
		options:  options,
		pageSize: uint64(unix.Getpagesize()),
	}
}

func (m *Manager) Alloc(request memory.AllocRequest) (memory.Memory, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("sgralloc-%x-%s-%d", request.BufferID, request.Kind, request.Index)
	flags := unix.MFD_CLOEXEC
	if m.options.Seal {
		flags |= unix.MFD_ALLOW_SEALING
	}

	fd, err := unix.MemfdCreate(name, flags)
	if err != nil {
		return nil, errors.Wrapf(err, "memfd_create %s", name)
	}

	// mmap only guarantees page alignment; larger alignments round the file size instead
	size := memutils.AlignUp(request.Size, memutils.Max(request.Alignment, m.pageSize))
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		_ = unix.Close(fd)
		return nil, errors.Wrapf(err, "ftruncate %s to %d bytes", name, size)
	}

	if m.options.Seal {
		_, err := unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS, unix.F_SEAL_SHRINK|unix.F_SEAL_GROW|unix.F_SEAL_SEAL)
		if err != nil {
			_ = unix.Close(fd)
			return nil, errors.Wrapf(err, "sealing %s", name)
		}
	}

	region := &region{fd: fd, size: size}
	region.mapping.Init(m.options.UseMutex)
	return region, nil
}

type region struct {
	fd      int
	size    uint64
	mapping memory.Mapping
}

var _ memory.Memory = &region{}

func (r *region) FD() int {
	return r.fd
}

func (r *region) Size() uint64 {
	return r.size
}

func (r *region) Map() ([]byte, error) {
	if r.fd < 0 {
		return nil, errors.New("mapping a closed region")
	}
	return r.mapping.Map(func() ([]byte, error) {
		data, err := unix.Mmap(r.fd, 0, int(r.size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			return nil, errors.Wrapf(err, "mmap fd %d", r.fd)
		}
		return data, nil
	})
}

func (r *region) Unmap() error {
	return r.mapping.Unmap(unix.Munmap)
}

func (r *region) Close() error {
	if r.fd < 0 {
		return errors.New("region closed twice")
	}

	unmapErr := r.mapping.Release(unix.Munmap)
	closeErr := unix.Close(r.fd)
	r.fd = -1
	return errors.CombineErrors(unmapErr, closeErr)
}
