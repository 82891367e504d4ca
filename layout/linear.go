package layout

import (
	"github.com/cockroachdb/errors"
	"github.com/sgr-gralloc/sgralloc/format"
	"github.com/sgr-gralloc/sgralloc/ip"
	"github.com/sgr-gralloc/sgralloc/memutils"
)

// Launch API levels that gate the YV12 luma stride
const (
	apiLevelLegacyYV12 = 31
	apiLevelYV12Only   = 33
)

// doublesLumaAlignment reports whether the luma stride of a YV12 family format is aligned to twice
// the merged stride alignment, which keeps the chroma stride at exactly half the luma stride.
// YV12 doubles up to API 31 and again from API 33; YV12_M only up to API 31.
func doublesLumaAlignment(f format.PixelFormat, apiLevel int) bool {
	switch f {
	case format.PixelFormatYV12:
		return apiLevel <= apiLevelLegacyYV12 || apiLevel >= apiLevelYV12Only
	case format.PixelFormatYV12M:
		return apiLevel <= apiLevelLegacyYV12
	default:
		return false
	}
}

func (m *Manager) linear(info format.FormatInfo, req Request) (*Info, error) {
	align, err := ip.MergedLinearAlignment(req.IPFlags, info.Format, m.cfg)
	if err != nil {
		return nil, errors.NewAssertionErrorWithWrappedErrf(err, "linear alignment for %s", info.Format)
	}

	if info.Interleaved422 {
		return m.interleaved422(req, align)
	}

	result := &Info{}
	layers := uint64(req.LayerCount)
	plane := 0
	for allocIndex := 0; allocIndex < info.NumAllocs; allocIndex++ {
		var offset uint64
		for planeInAlloc := 0; planeInAlloc < info.PlanesPerAlloc[allocIndex]; planeInAlloc++ {
			planeLayout := m.linearPlane(info, plane, req, align)
			planeLayout.AllocIndex = allocIndex
			planeLayout.Offset = offset
			offset += planeLayout.TotalSizeInBytes

			if err := result.AppendPlane(planeLayout); err != nil {
				return nil, err
			}
			plane++
		}

		size := layers*offset + align.AllocPaddingInBytes
		_, err := result.AppendAlloc(Alloc{
			Alignment: pageSize,
			Size:      size,
			Data:      Region{Size: size},
		})
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (m *Manager) linearPlane(info format.FormatInfo, plane int, req Request, align ip.AlignInfo) PlaneLayout {
	horizontal, vertical := info.Subsampling.Factors(plane)
	sampleBits := uint64(info.PlaneSampleBits(plane))

	strideAlignment := align.StrideInBytes
	if plane == 0 && doublesLumaAlignment(info.Format, m.cfg.LaunchAPILevel) {
		strideAlignment *= 2
	}

	planeSize := func(width, height uint32) (stride, heightInSamples, size uint64) {
		widthInSamples := memutils.DivRoundUp(uint64(width), uint64(horizontal))
		stride = memutils.AlignUp(memutils.BitsToBytes(widthInSamples*sampleBits), strideAlignment)
		heightInSamples = memutils.AlignUp(memutils.DivRoundUp(uint64(height), uint64(vertical)), align.VStrideInPixels)
		return stride, heightInSamples, stride * heightInSamples
	}

	stride, heightInSamples, size := planeSize(req.Extent.Width, req.Extent.Height)

	if req.Usage.HasAny(format.UsageGPUMipmapComplete) {
		width, height := req.Extent.Width, req.Extent.Height
		for level := 1; width > 1 || height > 1; level++ {
			width = memutils.Max(req.Extent.Width>>level, 1)
			height = memutils.Max(req.Extent.Height>>level, 1)
			_, _, levelSize := planeSize(width, height)
			size += levelSize
		}
	}

	return PlaneLayout{
		Components:            PlaneComponents(info, plane),
		SampleIncrementInBits: int(sampleBits),
		StrideInBytes:         stride,
		WidthInSamples:        memutils.DivRoundUp(uint64(req.Extent.Width), uint64(horizontal)),
		HeightInSamples:       heightInSamples,
		TotalSizeInBytes:      size + align.PlanePaddingInBytes,
		HorizontalSubsampling: horizontal,
		VerticalSubsampling:   vertical,
	}
}

// YCbCr_422_I packs two pixels into a pair of 16-bit samples, Y0 Cb and Y1 Cr, so it is laid out
// as one plane of 16-bit samples whose chroma component alternates between pixels.
func (m *Manager) interleaved422(req Request, align ip.AlignInfo) (*Info, error) {
	const sampleBits = 16

	width := uint64(req.Extent.Width)
	stride := memutils.AlignUp(memutils.BitsToBytes(width*sampleBits), align.StrideInBytes)
	height := memutils.AlignUp(uint64(req.Extent.Height), align.VStrideInPixels)
	planeSize := stride*height + align.PlanePaddingInBytes

	components := []Component{
		{Type: format.ComponentY, BitOffset: 0, Bits: 8},
		{Type: format.ComponentCb, BitOffset: 8, Bits: 8},
		{Type: format.ComponentCr, BitOffset: 8, Bits: 8},
	}

	result := &Info{}
	err := result.AppendPlane(PlaneLayout{
		Components:            components,
		SampleIncrementInBits: sampleBits,
		StrideInBytes:         stride,
		WidthInSamples:        width,
		HeightInSamples:       height,
		TotalSizeInBytes:      planeSize,
		HorizontalSubsampling: 1,
		VerticalSubsampling:   1,
	})
	if err != nil {
		return nil, err
	}

	size := uint64(req.LayerCount)*planeSize + align.AllocPaddingInBytes
	_, err = result.AppendAlloc(Alloc{Alignment: pageSize, Size: size, Data: Region{Size: size}})
	if err != nil {
		return nil, err
	}
	return result, nil
}
