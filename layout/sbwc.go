package layout

import (
	"github.com/cockroachdb/errors"
	"github.com/sgr-gralloc/sgralloc/format"
	"github.com/sgr-gralloc/sgralloc/memutils"
)

type sbwcPlaneSize struct {
	stride  uint64
	payload uint64
	header  uint64
	// height is the plane height in samples, padded to whole blocks
	height uint64
}

func losslessHeight(height uint64, chroma bool) uint64 {
	aligned := memutils.AlignUp(height, sbwcLosslessVAlign)
	if chroma {
		return memutils.DivRoundUp(aligned, 2)
	}
	return aligned
}

func lossyHeight(height uint64, chroma bool) uint64 {
	if chroma {
		return lossyChromaHeight(height)
	}
	return memutils.AlignUp(height, sbwcLossyBlockHeight)
}

func sbwcSizes(sbwc format.SBWCInfo, width, height uint64, chroma bool) (sbwcPlaneSize, error) {
	switch {
	case sbwc.Lossless && sbwc.BitDepth == 8:
		size := sbwcPlaneSize{stride: SBWC8BitStride(width), height: losslessHeight(height, chroma)}
		if chroma {
			size.payload, size.header = sbwc8BitChromaSize(width, height), sbwc8BitChromaHeaderSize(width, height)
		} else {
			size.payload, size.header = sbwc8BitLumaSize(width, height), sbwc8BitLumaHeaderSize(width, height)
		}
		return size, nil

	case sbwc.Lossless && sbwc.BitDepth == 10:
		size := sbwcPlaneSize{stride: SBWC10BitStride(width), height: losslessHeight(height, chroma)}
		if chroma {
			size.payload, size.header = sbwc10BitChromaSize(width, height), sbwc10BitChromaHeaderSize(width, height)
		} else {
			size.payload, size.header = sbwc10BitLumaSize(width, height), sbwc10BitLumaHeaderSize(width, height)
		}
		return size, nil

	case sbwc.ScaleFactor > 0 && (sbwc.BitDepth == 8 || sbwc.BitDepth == 10):
		// The legacy lossy family has no header
		size := sbwcPlaneSize{stride: SBWCScaledStride(width, sbwc.BitDepth, sbwc.ScaleFactor), height: lossyHeight(height, chroma)}
		if chroma {
			size.payload = sbwcScaledChromaSize(size.stride, height)
		} else {
			size.payload = sbwcScaledLumaSize(size.stride, height)
		}
		return size, nil

	case sbwc.AlignFactor == 32 || sbwc.AlignFactor == 64:
		size := sbwcPlaneSize{stride: SBWCAlignedStride(width, sbwc.AlignFactor), height: lossyHeight(height, chroma)}
		if chroma {
			size.payload, size.header = sbwcAlignedChromaSize(size.stride, height), sbwcAlignedChromaHeaderSize(width, height)
		} else {
			size.payload, size.header = sbwcAlignedLumaSize(size.stride, height), sbwcAlignedLumaHeaderSize(width, height)
		}
		return size, nil
	}

	return sbwcPlaneSize{}, errors.AssertionFailedf("no SBWC size family for %+v", sbwc)
}

// sbwc lays out the luma and chroma planes as payload/header pairs. SPN formats keep both pairs in
// one allocation; SP_M formats put chroma in a second allocation.
func (m *Manager) sbwc(info format.FormatInfo, req Request) (*Info, error) {
	if info.NumPlanes() != 2 {
		return nil, errors.AssertionFailedf("SBWC format %s has %d planes", info.Format, info.NumPlanes())
	}

	width := uint64(req.Extent.Width)
	height := uint64(req.Extent.Height)
	layers := uint64(req.LayerCount)

	var sizes [2]sbwcPlaneSize
	for plane := range sizes {
		size, err := sbwcSizes(*info.SBWC, width, height, plane == 1)
		if err != nil {
			return nil, errors.Wrapf(err, "format %s", info.Format)
		}
		sizes[plane] = size
	}

	result := &Info{}
	if info.NumAllocs == 1 {
		var alloc Alloc
		var offset uint64
		for plane, size := range sizes {
			alloc.Payload[plane] = Region{Offset: offset, Size: size.payload}
			alloc.Header[plane] = Region{Offset: alloc.Payload[plane].End(), Size: size.header}
			offset = alloc.Header[plane].End()
		}
		alloc.Alignment = pageSize
		alloc.Size = layers * offset
		if _, err := result.AppendAlloc(alloc); err != nil {
			return nil, err
		}
	} else {
		for _, size := range sizes {
			var alloc Alloc
			alloc.Payload[0] = Region{Size: size.payload}
			alloc.Header[0] = Region{Offset: size.payload, Size: size.header}
			alloc.Alignment = pageSize
			alloc.Size = layers * alloc.Header[0].End()
			if _, err := result.AppendAlloc(alloc); err != nil {
				return nil, err
			}
		}
	}

	for plane, size := range sizes {
		horizontal, vertical := info.Subsampling.Factors(plane)
		allocIndex := info.PlaneAlloc(plane)

		alloc := result.Alloc(allocIndex)
		region := alloc.Payload[0]
		if info.NumAllocs == 1 {
			region = alloc.Payload[plane]
		}

		err := result.AppendPlane(PlaneLayout{
			Components:            PlaneComponents(info, plane),
			Offset:                region.Offset,
			AllocIndex:            allocIndex,
			StrideInBytes:         size.stride,
			WidthInSamples:        memutils.DivRoundUp(memutils.AlignUp(width, sbwcBlockWidth), uint64(horizontal)),
			HeightInSamples:       size.height,
			TotalSizeInBytes:      size.payload + size.header,
			HorizontalSubsampling: horizontal,
			VerticalSubsampling:   vertical,
		})
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}
