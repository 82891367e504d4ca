package ip

import "github.com/sgr-gralloc/sgralloc/format"

const (
	videoStrideAlignment  uint64 = 16
	videoVStrideAlignment uint64 = 16
	videoPlanePadding     uint64 = 256
	videoAllocPadding     uint64 = 256
)

func isVideoYUV(info format.FormatInfo) bool {
	return info.Subsampling == format.SubsamplingYUV420 && info.NumPlanes() > 1
}

func videoLayout(info format.FormatInfo) format.FormatLayoutBitMask {
	if info.IsSBWC() {
		return format.FormatLayoutMaskSBWC
	}
	if isVideoYUV(info) || info.Format == format.PixelFormatRGBA8888 || info.Format == format.PixelFormatBlob {
		return format.FormatLayoutMaskLinear
	}
	return format.FormatLayoutMaskNone
}

func videoLinearAlignment(info format.FormatInfo) AlignInfo {
	if !isVideoYUV(info) {
		return DefaultAlignInfo()
	}

	align := AlignInfo{
		StrideInBytes:       videoStrideAlignment,
		VStrideInPixels:     videoVStrideAlignment,
		PlanePaddingInBytes: videoPlanePadding,
	}
	if info.PlaneSampleBits(0) == 16 {
		align.StrideInBytes *= 2
	}
	if info.NumAllocs == 1 {
		align.AllocPaddingInBytes = videoAllocPadding
	}
	return align
}
