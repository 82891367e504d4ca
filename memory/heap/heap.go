// Package heap is a memory.Manager backed by Go byte slices. Its regions have no file descriptor,
// so it serves tests and hosts without memfd.
package heap

import (
	"sync/atomic"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/sgr-gralloc/sgralloc/memory"
	"github.com/sgr-gralloc/sgralloc/memutils"
)

// ErrLimitExceeded is returned when an allocation would take the manager over its byte limit
var ErrLimitExceeded = errors.New("heap memory limit exceeded")

type Options struct {
	// MaxBytes caps the bytes held by live regions. 0 means no cap.
	MaxBytes uint64
	// UseMutex guards region mappings against concurrent Map/Unmap
	UseMutex bool
}

type Manager struct {
	options Options

	liveRegions atomic.Int64
	liveBytes   atomic.Uint64
}

func New(options Options) *Manager {
	return &Manager{options: options}
}

func (m *Manager) LiveRegions() int {
	return int(m.liveRegions.Load())
}

func (m *Manager) LiveBytes() uint64 {
	return m.liveBytes.Load()
}

func (m *Manager) reserve(size uint64) bool {
	for {
		current := m.liveBytes.Load()
		if m.options.MaxBytes > 0 && current+size > m.options.MaxBytes {
			return false
		}
		if m.liveBytes.CompareAndSwap(current, current+size) {
			return true
		}
	}
}

// alignedSlice over-allocates by the alignment and slices from the first aligned address
func alignedSlice(size, alignment uint64) []byte {
	backing := make([]byte, size+alignment)
	address := uint64(uintptr(unsafe.Pointer(&backing[0])))
	offset := memutils.AlignUp(address, alignment) - address
	return backing[offset : offset+size : offset+size]
}

func (m *Manager) Alloc(request memory.AllocRequest) (memory.Memory, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	if !m.reserve(request.Size) {
		return nil, errors.Wrapf(ErrLimitExceeded, "%d bytes requested for region %d of buffer %#x", request.Size, request.Index, request.BufferID)
	}

	m.liveRegions.Add(1)
	region := &region{
		manager: m,
		data:    alignedSlice(request.Size, request.Alignment),
	}
	region.mapping.Init(m.options.UseMutex)
	return region, nil
}

type region struct {
	manager *Manager
	data    []byte
	closed  atomic.Bool
	mapping memory.Mapping
}

var _ memory.Memory = &region{}

func (r *region) FD() int {
	return -1
}

func (r *region) Size() uint64 {
	return uint64(len(r.data))
}

func (r *region) Map() ([]byte, error) {
	if r.closed.Load() {
		return nil, errors.New("mapping a closed region")
	}
	return r.mapping.Map(func() ([]byte, error) {
		return r.data, nil
	})
}

func (r *region) Unmap() error {
	return r.mapping.Unmap(func([]byte) error { return nil })
}

func (r *region) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return errors.New("region closed twice")
	}

	_ = r.mapping.Release(func([]byte) error { return nil })
	r.manager.liveRegions.Add(-1)
	r.manager.liveBytes.Add(^(r.Size() - 1))
	return nil
}
