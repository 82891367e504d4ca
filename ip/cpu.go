package ip

import "github.com/sgr-gralloc/sgralloc/format"

// The CPU reads SBWC buffers as opaque bytes and everything else linearly.
func cpuLayout(info format.FormatInfo) format.FormatLayoutBitMask {
	if info.IsSBWC() {
		return format.FormatLayoutMaskSBWC
	}
	return format.FormatLayoutMaskLinear
}

func cpuLinearAlignment(info format.FormatInfo) AlignInfo {
	align := DefaultAlignInfo()
	switch info.Format {
	case format.PixelFormatRAW10, format.PixelFormatRAW12:
		// packed rows
		align.StrideInBytes = 64
	case format.PixelFormatYV12, format.PixelFormatYV12M:
		align.StrideInBytes = 16
	}
	return align
}
