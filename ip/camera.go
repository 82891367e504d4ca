package ip

import "github.com/sgr-gralloc/sgralloc/format"

const cameraStrideAlignment uint64 = 16

func cameraLayout(info format.FormatInfo) format.FormatLayoutBitMask {
	if info.IsSBWC() {
		return format.FormatLayoutMaskSBWC
	}
	if info.IsYUV() || info.IsRaw() || info.Format == format.PixelFormatRGBA8888 {
		return format.FormatLayoutMaskLinear
	}
	return format.FormatLayoutMaskNone
}

func cameraLinearAlignment(info format.FormatInfo) AlignInfo {
	align := DefaultAlignInfo()
	align.StrideInBytes = cameraStrideAlignment
	return align
}
