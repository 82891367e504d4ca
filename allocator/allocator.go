// Package allocator hands out graphics buffers. It asks the format manager how a descriptor should
// be stored, allocates one memory region per layout allocation plus a metadata region, and keeps
// track of every live buffer.
package allocator

import (
	"math"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/sgr-gralloc/sgralloc/descriptor"
	"github.com/sgr-gralloc/sgralloc/format"
	"github.com/sgr-gralloc/sgralloc/formatmgr"
	"github.com/sgr-gralloc/sgralloc/internal/utils"
	"github.com/sgr-gralloc/sgralloc/layout"
	"github.com/sgr-gralloc/sgralloc/memory"
	"github.com/sgr-gralloc/sgralloc/memutils"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

// metadataAlignment is the alignment requested for metadata regions
const metadataAlignment uint64 = 4096

type Allocator struct {
	useMutex    bool
	logger      *slog.Logger
	createFlags CreateFlags

	manager   memory.Manager
	formats   *formatmgr.Manager
	callbacks memoryCallbacks

	idPrefix uint64
	nextID   atomic.Uint32

	buffersMutex utils.OptionalRWMutex
	buffers      *swiss.Map[uint64, *BufferHandle]
}

func (a *Allocator) FormatManager() *formatmgr.Manager {
	return a.formats
}

func (a *Allocator) newBufferID() uint64 {
	return a.idPrefix | uint64(a.nextID.Add(1))
}

// allocatedExtent grows each dimension by the configured GDC margin when the usage asks for one,
// rounding the result up to an even number of pixels. A margin that would not fit in 32 bits is
// ErrBadValue.
func (a *Allocator) allocatedExtent(desc *descriptor.BufferDescriptor) (layout.Extent, error) {
	extent := layout.Extent{Width: desc.Width, Height: desc.Height}
	if !desc.Usage.HasAny(format.UsageGDCMargin) {
		return extent, nil
	}

	percent := uint64(a.formats.Config().GDCMarginPercent)
	grow := func(size uint32) (uint32, error) {
		grown := memutils.AlignUp(uint64(size)+uint64(size)*percent/100, 2)
		if grown > math.MaxUint32 {
			return 0, errors.Wrapf(memutils.ErrBadValue, "dimension %d with a %d%% GDC margin overflows", size, percent)
		}
		return uint32(grown), nil
	}

	width, err := grow(extent.Width)
	if err != nil {
		return layout.Extent{}, err
	}
	height, err := grow(extent.Height)
	if err != nil {
		return layout.Extent{}, err
	}
	return layout.Extent{Width: width, Height: height}, nil
}

// outStride is the stride reported to the client for plane 0. For byte-aligned pixel formats it is
// the byte stride expressed in pixels (byte stride divided by bytes per sample), which is the unit
// gralloc clients expect: a 64x64 RGBA_8888 plane with a 256 byte stride reports 64. It is 0 when
// plane 0 is not byte addressable (SBWC, DCC), and the width in samples for packed sub-byte
// samples.
func outStride(info *layout.Info) uint32 {
	plane := info.Plane(0)
	if plane.SampleIncrementInBits == 0 || plane.StrideInBytes == 0 {
		return 0
	}
	if plane.SampleIncrementInBits%8 == 0 {
		return uint32(plane.StrideInBytes / uint64(plane.SampleIncrementInBits/8))
	}
	return uint32(plane.WidthInSamples)
}

// Allocate creates count buffers for the descriptor. All buffers share one layout and stride; each
// gets its own id and regions. If any region cannot be allocated, every region acquired by the
// call is released and no handles are returned.
func (a *Allocator) Allocate(desc *descriptor.BufferDescriptor, count int) ([]*BufferHandle, uint32, error) {
	if desc == nil {
		return nil, 0, errors.Wrap(memutils.ErrBadDescriptor, "attempted to allocate from a nil descriptor")
	}

	a.logger.Debug("Allocator::Allocate",
		slog.String("Name", desc.Name),
		slog.Int("Width", int(desc.Width)),
		slog.Int("Height", int(desc.Height)),
		slog.String("Format", desc.Format.String()),
		slog.String("Usage", desc.Usage.String()),
		slog.Int("Count", count),
	)

	if count < 1 {
		return nil, 0, errors.Wrapf(memutils.ErrBadValue, "buffer count %d is not positive", count)
	}

	resolved, err := a.formats.GetFormat(desc)
	if err != nil {
		return nil, 0, err
	}

	extent, err := a.allocatedExtent(desc)
	if err != nil {
		return nil, 0, err
	}
	info, err := a.formats.GetAllocationInfo(layout.Request{
		Format:     resolved.Format,
		Layout:     resolved.Layout,
		Usage:      desc.Usage,
		IPFlags:    resolved.IPFlags,
		LayerCount: desc.LayerCount,
		Extent:     extent,
	})
	if err != nil {
		return nil, 0, err
	}
	if info.PlaneCount() == 0 || info.AllocCount() == 0 {
		return nil, 0, errors.AssertionFailedf("layout of %s has %d planes and %d allocations",
			resolved.Format, info.PlaneCount(), info.AllocCount())
	}

	md, err := newMetadata(desc, resolved, extent, info)
	if err != nil {
		return nil, 0, err
	}

	template := BufferHandle{
		name:            desc.Name,
		requestedFormat: desc.Format,
		format:          resolved.Format,
		layout:          resolved.Layout,
		usage:           desc.Usage,
		extent:          extent,
		layerCount:      desc.LayerCount,
		stride:          outStride(info),
		info:            info,
	}

	handles := make([]*BufferHandle, 0, count)
	for i := 0; i < count; i++ {
		handle, err := a.allocateBuffer(template, md)
		if err != nil {
			a.rollback(handles)
			a.logger.Debug("  Allocate FAILED", slog.Int("Allocated", len(handles)), slog.Any("error", err))
			return nil, 0, err
		}
		handles = append(handles, handle)
	}

	a.buffersMutex.WithLock(func() {
		for _, handle := range handles {
			a.buffers.Put(handle.id, handle)
		}
	})

	return handles, template.stride, nil
}

func (a *Allocator) allocateBuffer(template BufferHandle, md *Metadata) (*BufferHandle, error) {
	handle := template
	handle.id = a.newBufferID()
	handle.regions = make([]memory.Memory, 0, handle.info.AllocCount())

	for index := 0; index < handle.info.AllocCount(); index++ {
		alloc := handle.info.Alloc(index)
		region, err := a.allocateRegion(memory.AllocRequest{
			BufferID:  handle.id,
			Name:      handle.name,
			Kind:      memory.RegionKindData,
			Index:     index,
			Size:      alloc.Size,
			Alignment: alloc.Alignment,
		})
		if err != nil {
			a.logReleaseError(&handle, a.releaseBuffer(&handle))
			return nil, err
		}
		handle.regions = append(handle.regions, region)
	}

	region, err := a.allocateRegion(memory.AllocRequest{
		BufferID:  handle.id,
		Name:      handle.name,
		Kind:      memory.RegionKindMetadata,
		Size:      uint64(MetadataSize),
		Alignment: metadataAlignment,
	})
	if err != nil {
		a.logReleaseError(&handle, a.releaseBuffer(&handle))
		return nil, err
	}
	handle.metadata = region

	record := *md
	record.BufferID = handle.id
	if err := writeMetadata(region, &record); err != nil {
		a.logReleaseError(&handle, a.releaseBuffer(&handle))
		return nil, errors.Wrapf(err, "buffer %#x", handle.id)
	}

	return &handle, nil
}

func (a *Allocator) allocateRegion(request memory.AllocRequest) (memory.Memory, error) {
	region, err := a.manager.Alloc(request)
	if err != nil {
		return nil, errors.Mark(
			errors.Wrapf(err, "allocating %s region %d of buffer %#x (%d bytes)", request.Kind, request.Index, request.BufferID, request.Size),
			memutils.ErrNoResources,
		)
	}

	a.callbacks.Allocate(request.BufferID, request.Kind, region, request.Size)
	return region, nil
}

func writeMetadata(region memory.Memory, md *Metadata) (err error) {
	encoded, err := md.Encode()
	if err != nil {
		return err
	}

	mapped, err := region.Map()
	if err != nil {
		return errors.Mark(errors.Wrap(err, "mapping metadata region"), memutils.ErrNoResources)
	}
	defer func() {
		err = errors.CombineErrors(err, region.Unmap())
	}()

	if len(mapped) < len(encoded) {
		return errors.AssertionFailedf("metadata region is %d bytes, the record needs %d", len(mapped), len(encoded))
	}
	copy(mapped, encoded)
	return nil
}

func readMetadata(region memory.Memory) (md *Metadata, err error) {
	mapped, err := region.Map()
	if err != nil {
		return nil, errors.Wrap(err, "mapping metadata region")
	}
	defer func() {
		err = errors.CombineErrors(err, region.Unmap())
	}()

	return DecodeMetadata(mapped)
}

// releaseBuffer returns every region the handle holds to the memory manager, newest first
func (a *Allocator) releaseBuffer(handle *BufferHandle) error {
	var err error
	if handle.metadata != nil {
		a.callbacks.Free(handle.id, memory.RegionKindMetadata, handle.metadata, handle.metadata.Size())
		err = errors.CombineErrors(err, handle.metadata.Close())
		handle.metadata = nil
	}

	for index := len(handle.regions) - 1; index >= 0; index-- {
		region := handle.regions[index]
		a.callbacks.Free(handle.id, memory.RegionKindData, region, region.Size())
		err = errors.CombineErrors(err, region.Close())
	}
	handle.regions = nil

	return err
}

func (a *Allocator) logReleaseError(handle *BufferHandle, err error) {
	if err != nil {
		a.logger.Error("error attempting to release buffer regions after allocation failure",
			slog.String("BufferID", formatID(handle.id)),
			slog.Any("error", err),
		)
	}
}

func (a *Allocator) rollback(handles []*BufferHandle) {
	for _, handle := range handles {
		a.logReleaseError(handle, a.releaseBuffer(handle))
	}
}

// lookup returns the registered handle with the same id, which must be the handle itself
func (a *Allocator) lookup(handle *BufferHandle) (*BufferHandle, error) {
	if handle == nil {
		return nil, errors.Wrap(memutils.ErrBadBuffer, "attempted to use a nil buffer handle")
	}

	registered, ok := a.buffers.Get(handle.id)
	if !ok || registered != handle {
		return nil, errors.Wrapf(memutils.ErrBadBuffer, "buffer %#x was not allocated by this allocator", handle.id)
	}
	return registered, nil
}

// Free releases the buffer's regions. The handle must not be used afterward.
func (a *Allocator) Free(handle *BufferHandle) error {
	a.buffersMutex.Lock()
	registered, err := a.lookup(handle)
	if err != nil {
		a.buffersMutex.Unlock()
		return err
	}
	a.buffers.Delete(registered.id)
	a.buffersMutex.Unlock()

	a.logger.Debug("Allocator::Free", slog.String("BufferID", formatID(registered.id)))
	return a.releaseBuffer(registered)
}

// Metadata reads the metadata record back from the buffer's metadata region
func (a *Allocator) Metadata(handle *BufferHandle) (*Metadata, error) {
	a.buffersMutex.RLock()
	defer a.buffersMutex.RUnlock()

	registered, err := a.lookup(handle)
	if err != nil {
		return nil, err
	}

	return readMetadata(registered.metadata)
}

// SetHDRStaticMetadata records static HDR metadata in the buffer's metadata region
func (a *Allocator) SetHDRStaticMetadata(handle *BufferHandle, smpte2086 SMPTE2086, cta8613 CTA8613) error {
	a.buffersMutex.RLock()
	defer a.buffersMutex.RUnlock()

	registered, err := a.lookup(handle)
	if err != nil {
		return err
	}

	md, err := readMetadata(registered.metadata)
	if err != nil {
		return err
	}

	md.HasHDRStatic = true
	md.SMPTE2086 = smpte2086
	md.CTA8613 = cta8613
	return writeMetadata(registered.metadata, md)
}

// LiveBuffers returns the number of buffers allocated and not yet freed
func (a *Allocator) LiveBuffers() int {
	a.buffersMutex.RLock()
	defer a.buffersMutex.RUnlock()

	return a.buffers.Count()
}

// sortedBuffers returns the live buffers ordered by id. The caller must hold buffersMutex.
func (a *Allocator) sortedBuffers() []*BufferHandle {
	ids := make([]uint64, 0, a.buffers.Count())
	a.buffers.Iter(func(id uint64, _ *BufferHandle) bool {
		ids = append(ids, id)
		return false
	})
	slices.Sort(ids)

	handles := make([]*BufferHandle, 0, len(ids))
	for _, id := range ids {
		handle, _ := a.buffers.Get(id)
		handles = append(handles, handle)
	}
	return handles
}

// CalculateStatistics fills stats with a summary of every live buffer
func (a *Allocator) CalculateStatistics(stats *memutils.DetailedStatistics) {
	stats.Clear()

	a.buffersMutex.RLock()
	defer a.buffersMutex.RUnlock()

	a.buffers.Iter(func(_ uint64, handle *BufferHandle) bool {
		for _, region := range handle.regions {
			stats.AddRegion(int(region.Size()), false)
		}
		if handle.metadata != nil {
			stats.AddRegion(int(handle.metadata.Size()), true)
		}
		stats.AddBuffer(int(handle.Size()))
		return false
	})
}

// BuildStatsString produces a JSON summary of the allocator. When detailed is set, every live
// buffer is listed with its layout.
func (a *Allocator) BuildStatsString(detailed bool) string {
	var stats memutils.DetailedStatistics
	a.CalculateStatistics(&stats)

	writer := jwriter.NewWriter()
	obj := writer.Object()

	total := obj.Name("Total").Object()
	total.Name("BufferCount").Int(stats.BufferCount)
	total.Name("RegionCount").Int(stats.RegionCount)
	total.Name("RegionBytes").Int(stats.RegionBytes)
	total.Name("MetadataBytes").Int(stats.MetadataBytes)
	if stats.BufferCount > 0 {
		total.Name("BufferSizeMin").Int(stats.BufferSizeMin)
		total.Name("BufferSizeMax").Int(stats.BufferSizeMax)
		total.Name("RegionSizeMin").Int(stats.RegionSizeMin)
		total.Name("RegionSizeMax").Int(stats.RegionSizeMax)
	}
	total.End()

	if detailed {
		a.buffersMutex.RLock()
		buffers := obj.Name("Buffers").Array()
		for _, handle := range a.sortedBuffers() {
			bufferObj := buffers.Object()
			handle.printParameters(&bufferObj)
			handle.info.WriteJSON(bufferObj.Name("Layout"))
			bufferObj.End()
		}
		buffers.End()
		a.buffersMutex.RUnlock()
	}

	obj.End()
	return string(writer.Bytes())
}

// Destroy frees every live buffer. The allocator must not be used afterward.
func (a *Allocator) Destroy() error {
	a.buffersMutex.Lock()
	handles := a.sortedBuffers()
	a.buffers = swiss.NewMap[uint64, *BufferHandle](42)
	a.buffersMutex.Unlock()

	var err error
	for _, handle := range handles {
		err = errors.CombineErrors(err, a.releaseBuffer(handle))
	}

	if err != nil {
		return errors.Wrapf(err, "destroying allocator with %d live buffers", len(handles))
	}
	return nil
}
