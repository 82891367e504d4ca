package formatmgr

import "github.com/sgr-gralloc/sgralloc/format"

// downscaleFormats maps a primary format to the format of its half-resolution sub-image. SBWC
// formats keep their own format.
var downscaleFormats = map[format.PixelFormat]format.PixelFormat{
	format.PixelFormatYCbCr420SPM:        format.PixelFormatYCbCr420SPMSBWC,
	format.PixelFormatYCbCr420SPN:        format.PixelFormatYCbCr420SPNSBWC,
	format.PixelFormatYCbCrP010M:         format.PixelFormatYCbCr420SPM10BSBWC,
	format.PixelFormatYCbCrP010SPN:       format.PixelFormatYCbCr420SPN10BSBWC,
	format.PixelFormatYCrCb420SPM:        format.PixelFormatYCrCb420SPMSBWC,
	format.PixelFormatYCbCr420SPMSBWC:    format.PixelFormatYCbCr420SPMSBWC,
	format.PixelFormatYCbCr420SPNSBWC:    format.PixelFormatYCbCr420SPNSBWC,
	format.PixelFormatYCbCr420SPM10BSBWC: format.PixelFormatYCbCr420SPM10BSBWC,
	format.PixelFormatYCbCr420SPN10BSBWC: format.PixelFormatYCbCr420SPN10BSBWC,
	format.PixelFormatYCrCb420SPMSBWC:    format.PixelFormatYCrCb420SPMSBWC,
	format.PixelFormatYCrCb420SPM10BSBWC: format.PixelFormatYCrCb420SPM10BSBWC,
}

// DownscaleFormat returns the sub-image format for a primary format
func DownscaleFormat(f format.PixelFormat) (format.PixelFormat, bool) {
	sub, ok := downscaleFormats[f]
	return sub, ok
}
