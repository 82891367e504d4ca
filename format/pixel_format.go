// Package format describes the pixel formats, usage bits, and layout kinds understood by the
// allocator, along with the static FormatTable that maps each format to its planes and components.
package format

import "fmt"

// PixelFormat is an opaque identifier naming a logical pixel format. Values below 0x100 and the
// FourCC-valued Y8/Y16/YV12 ids follow the Android public catalog, vendor formats live in 0x100-0x1FF.
type PixelFormat int32

const (
	PixelFormatRGBA8888              PixelFormat = 0x1
	PixelFormatRGBX8888              PixelFormat = 0x2
	PixelFormatRGB888                PixelFormat = 0x3
	PixelFormatRGB565                PixelFormat = 0x4
	PixelFormatBGRA8888              PixelFormat = 0x5
	PixelFormatYCbCr422SP            PixelFormat = 0x10
	PixelFormatYCrCb420SP            PixelFormat = 0x11
	PixelFormatYCbCr422I             PixelFormat = 0x14
	PixelFormatRGBAFP16              PixelFormat = 0x16
	PixelFormatRAW16                 PixelFormat = 0x20
	PixelFormatBlob                  PixelFormat = 0x21
	PixelFormatImplementationDefined PixelFormat = 0x22
	PixelFormatYCbCr420888           PixelFormat = 0x23
	PixelFormatRAW10                 PixelFormat = 0x25
	PixelFormatRAW12                 PixelFormat = 0x26
	PixelFormatRGBA1010102           PixelFormat = 0x2B
	PixelFormatYCbCrP010             PixelFormat = 0x36
	PixelFormatR8                    PixelFormat = 0x38

	PixelFormatYCbCr420PM         PixelFormat = 0x101
	PixelFormatYCbCr420SPM        PixelFormat = 0x103
	PixelFormatYCrCb422SP         PixelFormat = 0x104
	PixelFormatYCbCr420P          PixelFormat = 0x105
	PixelFormatYCbCr420SP         PixelFormat = 0x106
	PixelFormatYCrCb420SPM        PixelFormat = 0x116
	PixelFormatYV12M              PixelFormat = 0x11C
	PixelFormatYCrCb420SPMFull    PixelFormat = 0x11D
	PixelFormatYCbCr420SPN        PixelFormat = 0x11F
	PixelFormatYCbCrP010M         PixelFormat = 0x121
	PixelFormatYCbCrP010SPN       PixelFormat = 0x124
	PixelFormatYCbCr420SPMSBWC    PixelFormat = 0x126
	PixelFormatYCbCr420SPNSBWC    PixelFormat = 0x127
	PixelFormatYCbCr420SPM10BSBWC PixelFormat = 0x128
	PixelFormatYCbCr420SPN10BSBWC PixelFormat = 0x129
	PixelFormatYCrCb420SPMSBWC    PixelFormat = 0x12A
	PixelFormatYCrCb420SPM10BSBWC PixelFormat = 0x12B

	PixelFormatYCbCr420SPMSBWCL50    PixelFormat = 0x12C
	PixelFormatYCbCr420SPMSBWCL75    PixelFormat = 0x12D
	PixelFormatYCbCr420SPNSBWCL50    PixelFormat = 0x12E
	PixelFormatYCbCr420SPNSBWCL75    PixelFormat = 0x12F
	PixelFormatYCbCr420SPM10BSBWCL40 PixelFormat = 0x130
	PixelFormatYCbCr420SPM10BSBWCL60 PixelFormat = 0x131
	PixelFormatYCbCr420SPM10BSBWCL80 PixelFormat = 0x132
	PixelFormatYCbCr420SPN10BSBWCL40 PixelFormat = 0x133
	PixelFormatYCbCr420SPN10BSBWCL60 PixelFormat = 0x134
	PixelFormatYCbCr420SPN10BSBWCL80 PixelFormat = 0x135
	PixelFormatYCbCr420SPMSBWCL100   PixelFormat = 0x136

	PixelFormatYCbCr420SPMSBWCLossy32 PixelFormat = 0x140
	PixelFormatYCbCr420SPMSBWCLossy64 PixelFormat = 0x141
	PixelFormatYCbCr420SPNSBWCLossy32 PixelFormat = 0x142
	PixelFormatYCbCr420SPNSBWCLossy64 PixelFormat = 0x143

	PixelFormatY8   PixelFormat = 0x20203859
	PixelFormatY16  PixelFormat = 0x20363159
	PixelFormatYV12 PixelFormat = 0x32315659
)

var pixelFormatMapping = map[PixelFormat]string{
	PixelFormatRGBA8888:              "RGBA_8888",
	PixelFormatRGBX8888:              "RGBX_8888",
	PixelFormatRGB888:                "RGB_888",
	PixelFormatRGB565:                "RGB_565",
	PixelFormatBGRA8888:              "BGRA_8888",
	PixelFormatYCbCr422SP:            "YCbCr_422_SP",
	PixelFormatYCrCb420SP:            "YCrCb_420_SP",
	PixelFormatYCbCr422I:             "YCbCr_422_I",
	PixelFormatRGBAFP16:              "RGBA_FP16",
	PixelFormatRAW16:                 "RAW16",
	PixelFormatBlob:                  "BLOB",
	PixelFormatImplementationDefined: "IMPLEMENTATION_DEFINED",
	PixelFormatYCbCr420888:           "YCbCr_420_888",
	PixelFormatRAW10:                 "RAW10",
	PixelFormatRAW12:                 "RAW12",
	PixelFormatRGBA1010102:           "RGBA_1010102",
	PixelFormatYCbCrP010:             "YCbCr_P010",
	PixelFormatR8:                    "R_8",

	PixelFormatYCbCr420PM:         "YCbCr_420_P_M",
	PixelFormatYCbCr420SPM:        "YCbCr_420_SP_M",
	PixelFormatYCrCb422SP:         "YCrCb_422_SP",
	PixelFormatYCbCr420P:          "YCbCr_420_P",
	PixelFormatYCbCr420SP:         "YCbCr_420_SP",
	PixelFormatYCrCb420SPM:        "YCrCb_420_SP_M",
	PixelFormatYV12M:              "YV12_M",
	PixelFormatYCrCb420SPMFull:    "YCrCb_420_SP_M_FULL",
	PixelFormatYCbCr420SPN:        "YCbCr_420_SPN",
	PixelFormatYCbCrP010M:         "YCbCr_P010_M",
	PixelFormatYCbCrP010SPN:       "YCbCr_P010_SPN",
	PixelFormatYCbCr420SPMSBWC:    "YCbCr_420_SP_M_SBWC",
	PixelFormatYCbCr420SPNSBWC:    "YCbCr_420_SPN_SBWC",
	PixelFormatYCbCr420SPM10BSBWC: "YCbCr_420_SP_M_10B_SBWC",
	PixelFormatYCbCr420SPN10BSBWC: "YCbCr_420_SPN_10B_SBWC",
	PixelFormatYCrCb420SPMSBWC:    "YCrCb_420_SP_M_SBWC",
	PixelFormatYCrCb420SPM10BSBWC: "YCrCb_420_SP_M_10B_SBWC",

	PixelFormatYCbCr420SPMSBWCL50:    "YCbCr_420_SP_M_SBWC_L50",
	PixelFormatYCbCr420SPMSBWCL75:    "YCbCr_420_SP_M_SBWC_L75",
	PixelFormatYCbCr420SPNSBWCL50:    "YCbCr_420_SPN_SBWC_L50",
	PixelFormatYCbCr420SPNSBWCL75:    "YCbCr_420_SPN_SBWC_L75",
	PixelFormatYCbCr420SPM10BSBWCL40: "YCbCr_420_SP_M_10B_SBWC_L40",
	PixelFormatYCbCr420SPM10BSBWCL60: "YCbCr_420_SP_M_10B_SBWC_L60",
	PixelFormatYCbCr420SPM10BSBWCL80: "YCbCr_420_SP_M_10B_SBWC_L80",
	PixelFormatYCbCr420SPN10BSBWCL40: "YCbCr_420_SPN_10B_SBWC_L40",
	PixelFormatYCbCr420SPN10BSBWCL60: "YCbCr_420_SPN_10B_SBWC_L60",
	PixelFormatYCbCr420SPN10BSBWCL80: "YCbCr_420_SPN_10B_SBWC_L80",
	PixelFormatYCbCr420SPMSBWCL100:   "YCbCr_420_SP_M_SBWC_L100",

	PixelFormatYCbCr420SPMSBWCLossy32: "YCbCr_420_SP_M_SBWC_LOSSY_32",
	PixelFormatYCbCr420SPMSBWCLossy64: "YCbCr_420_SP_M_SBWC_LOSSY_64",
	PixelFormatYCbCr420SPNSBWCLossy32: "YCbCr_420_SPN_SBWC_LOSSY_32",
	PixelFormatYCbCr420SPNSBWCLossy64: "YCbCr_420_SPN_SBWC_LOSSY_64",

	PixelFormatY8:   "Y8",
	PixelFormatY16:  "Y16",
	PixelFormatYV12: "YV12",
}

func (f PixelFormat) String() string {
	str, ok := pixelFormatMapping[f]
	if !ok {
		return fmt.Sprintf("PixelFormat(0x%x)", int32(f))
	}
	return str
}

// IsFlexible reports whether the format must be resolved to a concrete format before a
// layout can be computed
func (f PixelFormat) IsFlexible() bool {
	return f == PixelFormatImplementationDefined || f == PixelFormatYCbCr420888
}
