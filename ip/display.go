package ip

import "github.com/sgr-gralloc/sgralloc/format"

const displayPlanePadding uint64 = 256

func displayLayout(info format.FormatInfo) format.FormatLayoutBitMask {
	if info.IsSBWC() {
		return format.FormatLayoutMaskSBWC
	}
	if info.IsRaw() {
		return format.FormatLayoutMaskNone
	}
	if info.IsYUV() && info.NumPlanes() == 1 && !info.Interleaved422 {
		// Y8 and Y16 cannot be scanned out
		return format.FormatLayoutMaskNone
	}

	mask := format.FormatLayoutMaskLinear
	if info.DCC {
		mask |= format.FormatLayoutMaskDCC
	}
	return mask
}

func displayLinearAlignment(info format.FormatInfo) AlignInfo {
	align := DefaultAlignInfo()
	if info.Subsampling == format.SubsamplingYUV420 && info.NumPlanes() > 1 {
		align.VStrideInPixels = 2
		if info.NumPlanes() == 2 {
			align.PlanePaddingInBytes = displayPlanePadding
		}
	}
	return align
}
