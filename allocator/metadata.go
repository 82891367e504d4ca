package allocator

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/sgr-gralloc/sgralloc/descriptor"
	"github.com/sgr-gralloc/sgralloc/format"
	"github.com/sgr-gralloc/sgralloc/formatmgr"
	"github.com/sgr-gralloc/sgralloc/layout"
	"github.com/sgr-gralloc/sgralloc/memutils"
)

const (
	// MetadataMagic opens every metadata record ("SGRM" little-endian)
	MetadataMagic uint32 = 0x4d524753
	// MetadataMajorVersion changes whenever a field moves or changes size
	MetadataMajorVersion uint16 = 1
	// MetadataMinorVersion changes when reserved space gains a meaning
	MetadataMinorVersion uint16 = 0

	// MaxPlaneComponents is the most components recorded for a plane
	MaxPlaneComponents = 4
)

// Dataspace identifies the color space, transfer function, and range of the pixel values
type Dataspace int32

const (
	DataspaceUnknown Dataspace = 0
	DataspaceSRGB    Dataspace = 0x8810000
	DataspaceJFIF    Dataspace = 0x8C20000
	DataspaceBT709   Dataspace = 0x10C10000
)

var fullRangeFormats = map[format.PixelFormat]struct{}{
	format.PixelFormatYCrCb420SPMFull: {},
}

// DefaultDataspace is the dataspace recorded for a freshly allocated buffer: limited range BT.709
// for YUV, full range for the _FULL formats, sRGB for RGB, unknown for raw sensor data.
func DefaultDataspace(info format.FormatInfo) Dataspace {
	switch {
	case info.IsRaw():
		return DataspaceUnknown
	case !info.IsYUV():
		return DataspaceSRGB
	}

	if _, full := fullRangeFormats[info.Format]; full {
		return DataspaceJFIF
	}
	return DataspaceBT709
}

type ComponentRecord struct {
	Type      int32
	BitOffset int32
	Bits      int32
}

type PlaneRecord struct {
	ComponentCount uint32
	Components     [MaxPlaneComponents]ComponentRecord

	Offset                uint64
	AllocIndex            int32
	SampleIncrementInBits int32
	StrideInBytes         uint64
	WidthInSamples        uint64
	HeightInSamples       uint64
	TotalSizeInBytes      uint64
	HorizontalSubsampling int32
	VerticalSubsampling   int32
}

// Rect is a crop rectangle in samples of its plane. Right and Bottom are exclusive.
type Rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

type XYColor struct {
	X float32
	Y float32
}

// SMPTE2086 is mastering display color volume metadata
type SMPTE2086 struct {
	PrimaryRed   XYColor
	PrimaryGreen XYColor
	PrimaryBlue  XYColor
	WhitePoint   XYColor
	MaxLuminance float32
	MinLuminance float32
}

// CTA8613 is content light level metadata
type CTA8613 struct {
	MaxContentLightLevel      float32
	MaxFrameAverageLightLevel float32
}

type RegionRecord struct {
	Offset uint64
	Size   uint64
}

type AllocRecord struct {
	Alignment uint64
	Size      uint64
	Data      RegionRecord
	Key       RegionRecord
	Payload   [2]RegionRecord
	Header    [2]RegionRecord
}

// Metadata is the fixed-size record written into every buffer's metadata region. Other processes
// read it by mapping the region, so field order and sizes only change with a major version bump.
type Metadata struct {
	Magic        uint32
	MajorVersion uint16
	MinorVersion uint16

	BufferID   uint64
	Name       [descriptor.MaxNameLength]byte
	Width      uint32
	Height     uint32
	LayerCount uint32

	RequestedFormat int32
	ResolvedFormat  int32
	Layout          int32
	RequestedUsage  uint64
	Dataspace       int32

	PlaneCount uint32
	Planes     [layout.MaxPlanes]PlaneRecord
	Crops      [layout.MaxPlanes]Rect

	HasHDRStatic bool
	SMPTE2086    SMPTE2086
	CTA8613      CTA8613

	AllocCount uint32
	Allocs     [layout.MaxAllocs]AllocRecord
}

// MetadataSize is the encoded size of a Metadata record
var MetadataSize = binary.Size(Metadata{})

func (m *Metadata) NameString() string {
	name := m.Name[:]
	if end := bytes.IndexByte(name, 0); end >= 0 {
		name = name[:end]
	}
	return string(name)
}

func (m *Metadata) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(MetadataSize)
	if err := binary.Write(&buf, binary.LittleEndian, m); err != nil {
		return nil, errors.Wrap(err, "encoding buffer metadata")
	}
	return buf.Bytes(), nil
}

// DecodeMetadata reads a record written by Encode. Trailing bytes, such as the rest of a mapped
// page, are ignored.
func DecodeMetadata(data []byte) (*Metadata, error) {
	if len(data) < MetadataSize {
		return nil, errors.Newf("metadata record is %d bytes, expected at least %d", len(data), MetadataSize)
	}

	var m Metadata
	if err := binary.Read(bytes.NewReader(data[:MetadataSize]), binary.LittleEndian, &m); err != nil {
		return nil, errors.Wrap(err, "decoding buffer metadata")
	}

	if m.Magic != MetadataMagic {
		return nil, errors.Newf("metadata magic %#x does not match %#x", m.Magic, MetadataMagic)
	}
	if m.MajorVersion != MetadataMajorVersion {
		return nil, errors.Newf("metadata version %d.%d is not supported, expected major version %d",
			m.MajorVersion, m.MinorVersion, MetadataMajorVersion)
	}
	if m.PlaneCount > layout.MaxPlanes || m.AllocCount > layout.MaxAllocs {
		return nil, errors.Newf("metadata claims %d planes and %d allocations", m.PlaneCount, m.AllocCount)
	}

	return &m, nil
}

func regionRecord(region layout.Region) RegionRecord {
	return RegionRecord{Offset: region.Offset, Size: region.Size}
}

// newMetadata builds the record shared by every buffer of a batch. The buffer id is filled per
// buffer. Crops cover the requested extent, or half of it for downscaled sub-image planes.
func newMetadata(
	desc *descriptor.BufferDescriptor,
	resolved formatmgr.Resolved,
	extent layout.Extent,
	info *layout.Info,
) (*Metadata, error) {
	formatInfo, ok := format.Lookup(resolved.Format)
	if !ok {
		return nil, errors.AssertionFailedf("resolved format %s is missing from the format table", resolved.Format)
	}

	m := &Metadata{
		Magic:           MetadataMagic,
		MajorVersion:    MetadataMajorVersion,
		MinorVersion:    MetadataMinorVersion,
		Width:           extent.Width,
		Height:          extent.Height,
		LayerCount:      desc.LayerCount,
		RequestedFormat: int32(desc.Format),
		ResolvedFormat:  int32(resolved.Format),
		Layout:          int32(resolved.Layout),
		RequestedUsage:  uint64(desc.Usage),
		Dataspace:       int32(DefaultDataspace(formatInfo)),
		PlaneCount:      uint32(info.PlaneCount()),
		AllocCount:      uint32(info.AllocCount()),
	}
	copy(m.Name[:], desc.Name)

	requested := layout.Extent{Width: desc.Width, Height: desc.Height}
	for index := 0; index < info.PlaneCount(); index++ {
		plane := info.Plane(index)
		if len(plane.Components) > MaxPlaneComponents {
			return nil, errors.AssertionFailedf("plane %d of %s has %d components", index, resolved.Format, len(plane.Components))
		}

		record := PlaneRecord{
			ComponentCount:        uint32(len(plane.Components)),
			Offset:                plane.Offset,
			AllocIndex:            int32(plane.AllocIndex),
			SampleIncrementInBits: int32(plane.SampleIncrementInBits),
			StrideInBytes:         plane.StrideInBytes,
			WidthInSamples:        plane.WidthInSamples,
			HeightInSamples:       plane.HeightInSamples,
			TotalSizeInBytes:      plane.TotalSizeInBytes,
			HorizontalSubsampling: int32(plane.HorizontalSubsampling),
			VerticalSubsampling:   int32(plane.VerticalSubsampling),
		}
		for c, component := range plane.Components {
			record.Components[c] = ComponentRecord{
				Type:      int32(component.Type),
				BitOffset: int32(component.BitOffset),
				Bits:      int32(component.Bits),
			}
		}
		m.Planes[index] = record

		crop := requested
		if index >= formatInfo.NumPlanes() {
			crop = requested.Half()
		}
		m.Crops[index] = Rect{
			Right:  int32(memutils.DivRoundUp(crop.Width, uint32(plane.HorizontalSubsampling))),
			Bottom: int32(memutils.DivRoundUp(crop.Height, uint32(plane.VerticalSubsampling))),
		}
	}

	for index := 0; index < info.AllocCount(); index++ {
		alloc := info.Alloc(index)
		m.Allocs[index] = AllocRecord{
			Alignment: alloc.Alignment,
			Size:      alloc.Size,
			Data:      regionRecord(alloc.Data),
			Key:       regionRecord(alloc.Key),
			Payload:   [2]RegionRecord{regionRecord(alloc.Payload[0]), regionRecord(alloc.Payload[1])},
			Header:    [2]RegionRecord{regionRecord(alloc.Header[0]), regionRecord(alloc.Header[1])},
		}
	}

	return m, nil
}
