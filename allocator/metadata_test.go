package allocator

import (
	"encoding/binary"
	"testing"

	"github.com/sgr-gralloc/sgralloc/config"
	"github.com/sgr-gralloc/sgralloc/descriptor"
	"github.com/sgr-gralloc/sgralloc/format"
	"github.com/sgr-gralloc/sgralloc/formatmgr"
	"github.com/sgr-gralloc/sgralloc/ip"
	"github.com/sgr-gralloc/sgralloc/layout"
	"github.com/stretchr/testify/require"
)

var dataspaceTestCases = map[string]struct {
	format    format.PixelFormat
	dataspace Dataspace
}{
	"RGB":       {format: format.PixelFormatRGBA8888, dataspace: DataspaceSRGB},
	"YUV":       {format: format.PixelFormatYCbCr420SPM, dataspace: DataspaceBT709},
	"FullRange": {format: format.PixelFormatYCrCb420SPMFull, dataspace: DataspaceJFIF},
	"SBWC":      {format: format.PixelFormatYCbCr420SPNSBWC, dataspace: DataspaceBT709},
	"Raw":       {format: format.PixelFormatRAW16, dataspace: DataspaceUnknown},
	"Blob":      {format: format.PixelFormatBlob, dataspace: DataspaceUnknown},
}

func TestDefaultDataspace(t *testing.T) {
	for testName, testCase := range dataspaceTestCases {
		t.Run(testName, func(t *testing.T) {
			info, ok := format.Lookup(testCase.format)
			require.True(t, ok)
			require.Equal(t, testCase.dataspace, DefaultDataspace(info))
		})
	}
}

func TestMetadataSizeIsFixed(t *testing.T) {
	require.Positive(t, MetadataSize)

	encoded, err := (&Metadata{Magic: MetadataMagic, MajorVersion: MetadataMajorVersion}).Encode()
	require.NoError(t, err)
	require.Len(t, encoded, MetadataSize)
}

func TestDecodeMetadataIgnoresTrailingBytes(t *testing.T) {
	md := &Metadata{
		Magic:        MetadataMagic,
		MajorVersion: MetadataMajorVersion,
		MinorVersion: MetadataMinorVersion,
		BufferID:     0xabc,
		Width:        1920,
		Height:       1080,
	}
	copy(md.Name[:], "decoder")

	encoded, err := md.Encode()
	require.NoError(t, err)

	page := make([]byte, 4096)
	copy(page, encoded)

	decoded, err := DecodeMetadata(page)
	require.NoError(t, err)
	require.Equal(t, md, decoded)
	require.Equal(t, "decoder", decoded.NameString())
}

func TestDecodeMetadataFailures(t *testing.T) {
	valid, err := (&Metadata{Magic: MetadataMagic, MajorVersion: MetadataMajorVersion}).Encode()
	require.NoError(t, err)

	_, err = DecodeMetadata(valid[:MetadataSize-1])
	require.Error(t, err)

	badMagic := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badMagic, 0xdeadbeef)
	_, err = DecodeMetadata(badMagic)
	require.Error(t, err)

	badVersion := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint16(badVersion[4:], MetadataMajorVersion+1)
	_, err = DecodeMetadata(badVersion)
	require.Error(t, err)
}

func TestNewMetadataDownscaleCrops(t *testing.T) {
	manager, err := formatmgr.New(nil, config.Default())
	require.NoError(t, err)

	desc := &descriptor.BufferDescriptor{
		Name:       "preview",
		Width:      1921,
		Height:     1081,
		LayerCount: 1,
		Format:     format.PixelFormatYCbCr420SPM,
		Usage:      format.UsageVideoDecoder | format.UsageDownscale,
	}
	resolved := formatmgr.Resolved{Format: desc.Format, Layout: format.FormatLayoutLinear, IPFlags: ip.FlagVideo}
	extent := layout.Extent{Width: desc.Width, Height: desc.Height}

	info, err := manager.GetAllocationInfo(layout.Request{
		Format:     resolved.Format,
		Layout:     resolved.Layout,
		Usage:      desc.Usage,
		IPFlags:    ip.FlagVideo,
		LayerCount: 1,
		Extent:     extent,
	})
	require.NoError(t, err)

	md, err := newMetadata(desc, resolved, extent, info)
	require.NoError(t, err)
	require.Equal(t, uint32(info.PlaneCount()), md.PlaneCount)
	require.Equal(t, uint32(info.AllocCount()), md.AllocCount)

	require.Equal(t, Rect{Right: 1921, Bottom: 1081}, md.Crops[0])
	require.Equal(t, Rect{Right: 961, Bottom: 541}, md.Crops[1])
	require.Equal(t, Rect{Right: 961, Bottom: 541}, md.Crops[2])
	require.Equal(t, Rect{Right: 481, Bottom: 271}, md.Crops[3])

	for index := 0; index < info.PlaneCount(); index++ {
		plane := info.Plane(index)
		require.Equal(t, plane.StrideInBytes, md.Planes[index].StrideInBytes)
		require.Equal(t, int32(plane.AllocIndex), md.Planes[index].AllocIndex)
	}
}
