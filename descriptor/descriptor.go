// Package descriptor holds the BufferDescriptor a client submits with an allocation request, and
// its flat byte encoding.
package descriptor

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/sgr-gralloc/sgralloc/format"
	"github.com/sgr-gralloc/sgralloc/memutils"
)

// MaxNameLength bounds the descriptor name in bytes
const MaxNameLength = 128

// BufferDescriptor is an immutable allocation request
type BufferDescriptor struct {
	Name         string
	Width        uint32
	Height       uint32
	LayerCount   uint32
	Format       format.PixelFormat
	Usage        format.Usage
	ReservedSize uint64
}

// Validate rejects descriptors no layout could satisfy
func (d *BufferDescriptor) Validate() error {
	if d.Width == 0 || d.Height == 0 {
		return errors.Wrapf(memutils.ErrBadValue, "extent %dx%d is empty", d.Width, d.Height)
	}
	if d.LayerCount == 0 {
		return errors.Wrap(memutils.ErrBadValue, "layer count is 0")
	}
	if len(d.Name) > MaxNameLength {
		return errors.Wrapf(memutils.ErrBadValue, "name is %d bytes, limit is %d", len(d.Name), MaxNameLength)
	}
	return nil
}

// Area returns width*height without overflow
func (d *BufferDescriptor) Area() uint64 {
	return uint64(d.Width) * uint64(d.Height)
}

type encodedHeader struct {
	Version      uint32
	NameLength   uint32
	Width        uint32
	Height       uint32
	LayerCount   uint32
	Format       int32
	Usage        uint64
	ReservedSize uint64
}

const encodingVersion uint32 = 1

var headerSize = binary.Size(encodedHeader{})

// Encode flattens the descriptor into the byte vector passed across the transport
func (d *BufferDescriptor) Encode() ([]byte, error) {
	if len(d.Name) > MaxNameLength {
		return nil, errors.Wrapf(memutils.ErrBadDescriptor, "name is %d bytes, limit is %d", len(d.Name), MaxNameLength)
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + len(d.Name))
	err := binary.Write(&buf, binary.LittleEndian, encodedHeader{
		Version:      encodingVersion,
		NameLength:   uint32(len(d.Name)),
		Width:        d.Width,
		Height:       d.Height,
		LayerCount:   d.LayerCount,
		Format:       int32(d.Format),
		Usage:        uint64(d.Usage),
		ReservedSize: d.ReservedSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not encode descriptor")
	}
	buf.WriteString(d.Name)
	return buf.Bytes(), nil
}

// Decode parses a byte vector produced by Encode. Empty, truncated, or foreign input returns
// memutils.ErrBadDescriptor.
func Decode(data []byte) (BufferDescriptor, error) {
	if len(data) == 0 {
		return BufferDescriptor{}, errors.Wrap(memutils.ErrBadDescriptor, "descriptor is empty")
	}
	if len(data) < headerSize {
		return BufferDescriptor{}, errors.Wrapf(memutils.ErrBadDescriptor, "descriptor is %d bytes, header needs %d", len(data), headerSize)
	}

	var header encodedHeader
	err := binary.Read(bytes.NewReader(data[:headerSize]), binary.LittleEndian, &header)
	if err != nil {
		return BufferDescriptor{}, errors.Mark(errors.Wrap(err, "could not decode descriptor header"), memutils.ErrBadDescriptor)
	}

	if header.Version != encodingVersion {
		return BufferDescriptor{}, errors.Wrapf(memutils.ErrBadDescriptor, "descriptor version %d is not %d", header.Version, encodingVersion)
	}
	if header.NameLength > MaxNameLength || int(header.NameLength) != len(data)-headerSize {
		return BufferDescriptor{}, errors.Wrapf(memutils.ErrBadDescriptor, "name length %d does not match %d trailing bytes", header.NameLength, len(data)-headerSize)
	}

	return BufferDescriptor{
		Name:         string(data[headerSize:]),
		Width:        header.Width,
		Height:       header.Height,
		LayerCount:   header.LayerCount,
		Format:       format.PixelFormat(header.Format),
		Usage:        format.Usage(header.Usage),
		ReservedSize: header.ReservedSize,
	}, nil
}
