// Package layout computes the physical memory layout of a buffer: how many OS-level allocations it
// needs, how large they are, and where each plane lives inside them.
package layout

import (
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/sgr-gralloc/sgralloc/format"
	"github.com/sgr-gralloc/sgralloc/memutils"
)

const (
	// MaxAllocs is the most allocations one buffer can carry, including a downscaled sub-image
	MaxAllocs = 6
	// MaxPlanes is the most plane records one buffer can carry, including a downscaled sub-image
	MaxPlanes = 6
)

// Extent is a width and height in pixels
type Extent struct {
	Width  uint32
	Height uint32
}

// Area is the number of pixels covered by the extent
func (e Extent) Area() uint64 {
	return uint64(e.Width) * uint64(e.Height)
}

// Half returns the extent of a half-resolution sub-image, rounded up
func (e Extent) Half() Extent {
	return Extent{
		Width:  e.Width/2 + e.Width%2,
		Height: e.Height/2 + e.Height%2,
	}
}

// Region is a byte range inside an allocation
type Region struct {
	Offset uint64
	Size   uint64
}

// End is the offset of the first byte after the region
func (r Region) End() uint64 {
	return r.Offset + r.Size
}

// Alloc is one OS-level allocation. Linear and DCC layouts fill Data and Key; SBWC fills one
// Payload/Header pair per plane stored in the allocation.
type Alloc struct {
	Alignment uint64
	Size      uint64

	Data Region
	Key  Region

	Payload [2]Region
	Header  [2]Region
}

// Component is one channel of a plane together with its bit offset inside a sample
type Component struct {
	Type      format.ComponentType
	BitOffset int
	Bits      int
}

// PlaneLayout is the geometry of one plane
type PlaneLayout struct {
	Components []Component
	// Offset is the byte offset of the plane inside allocation AllocIndex
	Offset     uint64
	AllocIndex int

	// SampleIncrementInBits is 0 for planes that are not byte addressable
	SampleIncrementInBits int
	StrideInBytes         uint64
	WidthInSamples        uint64
	HeightInSamples       uint64
	TotalSizeInBytes      uint64

	HorizontalSubsampling int
	VerticalSubsampling   int
}

// PlaneComponents lays out a plane's components in sample bit order
func PlaneComponents(info format.FormatInfo, plane int) []Component {
	var components []Component
	offset := 0
	for _, component := range info.PlaneComponents(plane) {
		components = append(components, Component{
			Type:      component.Type,
			BitOffset: offset,
			Bits:      component.Bits,
		})
		offset += component.Bits
	}
	return components
}

// Info is the result of a layout computation: a bounded list of allocations and a bounded list
// of planes that reference them by index.
type Info struct {
	allocs     [MaxAllocs]Alloc
	allocCount int

	planes     [MaxPlanes]PlaneLayout
	planeCount int
}

func (i *Info) AllocCount() int {
	return i.allocCount
}

func (i *Info) PlaneCount() int {
	return i.planeCount
}

// Alloc returns the allocation at index, which must be less than AllocCount
func (i *Info) Alloc(index int) Alloc {
	if index < 0 || index >= i.allocCount {
		panic(errors.AssertionFailedf("allocation index %d out of range [0, %d)", index, i.allocCount))
	}
	return i.allocs[index]
}

// Plane returns the plane at index, which must be less than PlaneCount
func (i *Info) Plane(index int) PlaneLayout {
	if index < 0 || index >= i.planeCount {
		panic(errors.AssertionFailedf("plane index %d out of range [0, %d)", index, i.planeCount))
	}
	return i.planes[index]
}

// Allocs returns a copy of the populated allocations
func (i *Info) Allocs() []Alloc {
	allocs := make([]Alloc, i.allocCount)
	copy(allocs, i.allocs[:i.allocCount])
	return allocs
}

// Planes returns a copy of the populated planes
func (i *Info) Planes() []PlaneLayout {
	planes := make([]PlaneLayout, i.planeCount)
	copy(planes, i.planes[:i.planeCount])
	return planes
}

// AppendAlloc adds an allocation and returns its index
func (i *Info) AppendAlloc(alloc Alloc) (int, error) {
	if i.allocCount >= MaxAllocs {
		return -1, errors.AssertionFailedf("a buffer cannot hold more than %d allocations", MaxAllocs)
	}
	index := i.allocCount
	i.allocs[index] = alloc
	i.allocCount++
	return index, nil
}

func (i *Info) AppendPlane(plane PlaneLayout) error {
	if i.planeCount >= MaxPlanes {
		return errors.AssertionFailedf("a buffer cannot hold more than %d planes", MaxPlanes)
	}
	i.planes[i.planeCount] = plane
	i.planeCount++
	return nil
}

// Append adds other's allocations and planes after the ones already present, rebasing the planes'
// allocation indices
func (i *Info) Append(other *Info) error {
	if i.allocCount+other.allocCount > MaxAllocs || i.planeCount+other.planeCount > MaxPlanes {
		return errors.AssertionFailedf("cannot append %d allocations and %d planes to %d allocations and %d planes",
			other.allocCount, other.planeCount, i.allocCount, i.planeCount)
	}

	base := i.allocCount
	for index := 0; index < other.allocCount; index++ {
		i.allocs[i.allocCount] = other.allocs[index]
		i.allocCount++
	}
	for index := 0; index < other.planeCount; index++ {
		plane := other.planes[index]
		plane.AllocIndex += base
		i.planes[i.planeCount] = plane
		i.planeCount++
	}
	return nil
}

// TotalSize is the sum of every allocation's size
func (i *Info) TotalSize() uint64 {
	var total uint64
	for index := 0; index < i.allocCount; index++ {
		total += i.allocs[index].Size
	}
	return total
}

func (i *Info) Validate() error {
	if i.allocCount == 0 {
		return errors.New("layout has no allocations")
	}
	if i.planeCount == 0 {
		return errors.New("layout has no planes")
	}

	for index := 0; index < i.allocCount; index++ {
		alloc := i.allocs[index]
		if alloc.Size == 0 {
			return errors.Newf("allocation %d is empty", index)
		}
		if err := memutils.CheckPow2(alloc.Alignment, "Alignment"); err != nil {
			return errors.Wrapf(err, "allocation %d", index)
		}
		regions := []Region{alloc.Data, alloc.Key, alloc.Payload[0], alloc.Payload[1], alloc.Header[0], alloc.Header[1]}
		for _, region := range regions {
			if region.End() > alloc.Size {
				return errors.Newf("allocation %d of size %d has a region ending at %d", index, alloc.Size, region.End())
			}
		}
	}

	for index := 0; index < i.planeCount; index++ {
		plane := i.planes[index]
		if plane.AllocIndex < 0 || plane.AllocIndex >= i.allocCount {
			return errors.Newf("plane %d references allocation %d of %d", index, plane.AllocIndex, i.allocCount)
		}
		if plane.TotalSizeInBytes == 0 {
			return errors.Newf("plane %d is empty", index)
		}
		if plane.Offset+plane.TotalSizeInBytes > i.allocs[plane.AllocIndex].Size {
			return errors.Newf("plane %d overruns allocation %d", index, plane.AllocIndex)
		}
	}

	return nil
}

func writeRegion(json *jwriter.ObjectState, name string, region Region) {
	if region.Size == 0 {
		return
	}
	obj := json.Name(name).Object()
	obj.Name("Offset").Int(int(region.Offset))
	obj.Name("Size").Int(int(region.Size))
	obj.End()
}

// WriteJSON dumps the layout for diagnostics
func (i *Info) WriteJSON(writer *jwriter.Writer) {
	obj := writer.Object()
	defer obj.End()

	allocs := obj.Name("Allocations").Array()
	for index := 0; index < i.allocCount; index++ {
		alloc := i.allocs[index]
		allocObj := allocs.Object()
		allocObj.Name("Alignment").Int(int(alloc.Alignment))
		allocObj.Name("Size").Int(int(alloc.Size))
		writeRegion(&allocObj, "Data", alloc.Data)
		writeRegion(&allocObj, "Key", alloc.Key)
		writeRegion(&allocObj, "Payload0", alloc.Payload[0])
		writeRegion(&allocObj, "Header0", alloc.Header[0])
		writeRegion(&allocObj, "Payload1", alloc.Payload[1])
		writeRegion(&allocObj, "Header1", alloc.Header[1])
		allocObj.End()
	}
	allocs.End()

	planes := obj.Name("Planes").Array()
	for index := 0; index < i.planeCount; index++ {
		plane := i.planes[index]
		planeObj := planes.Object()
		planeObj.Name("AllocIndex").Int(plane.AllocIndex)
		planeObj.Name("Offset").Int(int(plane.Offset))
		planeObj.Name("SampleIncrementInBits").Int(plane.SampleIncrementInBits)
		planeObj.Name("StrideInBytes").Int(int(plane.StrideInBytes))
		planeObj.Name("WidthInSamples").Int(int(plane.WidthInSamples))
		planeObj.Name("HeightInSamples").Int(int(plane.HeightInSamples))
		planeObj.Name("TotalSizeInBytes").Int(int(plane.TotalSizeInBytes))

		components := planeObj.Name("Components").Array()
		for _, component := range plane.Components {
			componentObj := components.Object()
			componentObj.Name("Type").String(component.Type.String())
			componentObj.Name("BitOffset").Int(component.BitOffset)
			componentObj.Name("Bits").Int(component.Bits)
			componentObj.End()
		}
		components.End()

		planeObj.End()
	}
	planes.End()
}
