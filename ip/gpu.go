package ip

import "github.com/sgr-gralloc/sgralloc/format"

const gpuStrideAlignment uint64 = 256

func gpuLayout(info format.FormatInfo) format.FormatLayoutBitMask {
	if info.IsSBWC() {
		if info.SBWC.Lossless {
			return format.FormatLayoutMaskSBWC
		}
		return format.FormatLayoutMaskNone
	}

	switch info.Format {
	case format.PixelFormatBlob:
		return format.FormatLayoutMaskLinear
	case format.PixelFormatRAW10, format.PixelFormatRAW12, format.PixelFormatRAW16:
		return format.FormatLayoutMaskNone
	}

	mask := format.FormatLayoutMaskLinear
	if info.DCC {
		mask |= format.FormatLayoutMaskDCC
	}
	return mask
}

func gpuLinearAlignment(info format.FormatInfo) AlignInfo {
	align := DefaultAlignInfo()
	align.StrideInBytes = gpuStrideAlignment
	return align
}
