package formatmgr

import "github.com/sgr-gralloc/sgralloc/format"

// ResolveFlexible maps IMPLEMENTATION_DEFINED and YCBCR_420_888 to the concrete format the usage
// calls for. Concrete formats are returned unchanged.
func ResolveFlexible(f format.PixelFormat, usage format.Usage) format.PixelFormat {
	switch f {
	case format.PixelFormatImplementationDefined:
		return resolveImplementationDefined(usage)
	case format.PixelFormatYCbCr420888:
		if usage.HasAny(format.UsageVideoEncoder | format.UsageVideoDecoder | format.UsageCameraInput | format.UsageCameraOutput) {
			return format.PixelFormatYCbCr420SPM
		}
		return format.PixelFormatYCrCb420SP
	default:
		return f
	}
}

func resolveImplementationDefined(usage format.Usage) format.PixelFormat {
	switch {
	case usage.HasAny(format.UsageVideoEncoder):
		return format.PixelFormatYCbCr420SPM
	case usage.HasAny(format.UsageVideoDecoder):
		if usage.HasAny(format.UsageSBWCRequest10Bit) {
			return format.PixelFormatYCbCr420SPN10BSBWC
		}
		return format.PixelFormatYCbCr420SPN
	case usage.HasAny(format.UsageGPUTexture|format.UsageGPURenderTarget) && usage.HasAny(format.UsageComposerOverlay):
		if usage.HasAny(format.UsageCameraOutput) {
			return format.PixelFormatYCrCb420SPMFull
		}
		return format.PixelFormatYCrCb420SPM
	case usage.HasAny(format.UsageCameraInput | format.UsageCameraOutput):
		return format.PixelFormatYCbCr420SPM
	default:
		return format.PixelFormatRGBA8888
	}
}
