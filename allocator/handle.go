package allocator

import (
	"fmt"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/sgr-gralloc/sgralloc/format"
	"github.com/sgr-gralloc/sgralloc/layout"
	"github.com/sgr-gralloc/sgralloc/memory"
)

// BufferHandle is one allocated buffer. Handles from the same Allocate call share their layout and
// differ only in id and regions.
type BufferHandle struct {
	id   uint64
	name string

	requestedFormat format.PixelFormat
	format          format.PixelFormat
	layout          format.FormatLayout
	usage           format.Usage
	extent          layout.Extent
	layerCount      uint32
	stride          uint32

	info *layout.Info

	regions  []memory.Memory
	metadata memory.Memory
}

func (h *BufferHandle) ID() uint64 {
	return h.id
}

func (h *BufferHandle) Name() string {
	return h.name
}

// RequestedFormat is the format named by the descriptor, possibly a flexible one
func (h *BufferHandle) RequestedFormat() format.PixelFormat {
	return h.requestedFormat
}

// Format is the concrete format the buffer was laid out with
func (h *BufferHandle) Format() format.PixelFormat {
	return h.format
}

func (h *BufferHandle) Layout() format.FormatLayout {
	return h.layout
}

func (h *BufferHandle) Usage() format.Usage {
	return h.usage
}

// Extent is the allocated extent, which includes any GDC margin
func (h *BufferHandle) Extent() layout.Extent {
	return h.extent
}

func (h *BufferHandle) LayerCount() uint32 {
	return h.layerCount
}

// Stride is the plane 0 stride reported to the client, 0 when plane 0 is not byte addressable
func (h *BufferHandle) Stride() uint32 {
	return h.stride
}

// LayoutInfo returns a copy of the buffer's allocations and planes
func (h *BufferHandle) LayoutInfo() *layout.Info {
	info := *h.info
	return &info
}

// FDs returns the shareable handle of each data region, in allocation order
func (h *BufferHandle) FDs() []int {
	fds := make([]int, 0, len(h.regions))
	for _, region := range h.regions {
		fds = append(fds, region.FD())
	}
	return fds
}

func (h *BufferHandle) MetadataFD() int {
	if h.metadata == nil {
		return -1
	}
	return h.metadata.FD()
}

// Size is the total size of the buffer's data regions
func (h *BufferHandle) Size() uint64 {
	var size uint64
	for _, region := range h.regions {
		size += region.Size()
	}
	return size
}

func formatID(id uint64) string {
	return fmt.Sprintf("%#x", id)
}

func (h *BufferHandle) printParameters(json *jwriter.ObjectState) {
	json.Name("ID").String(formatID(h.id))
	if h.name != "" {
		json.Name("Name").String(h.name)
	}
	json.Name("Format").String(h.format.String())
	json.Name("Layout").String(h.layout.String())
	json.Name("Usage").String(h.usage.String())
	json.Name("Width").Int(int(h.extent.Width))
	json.Name("Height").Int(int(h.extent.Height))
	json.Name("LayerCount").Int(int(h.layerCount))
	json.Name("Stride").Int(int(h.stride))
	json.Name("Size").Int(int(h.Size()))

	regions := json.Name("Regions").Array()
	for _, region := range h.regions {
		regions.Int(int(region.Size()))
	}
	regions.End()
}
