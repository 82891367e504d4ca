package ip

import (
	"testing"

	"github.com/sgr-gralloc/sgralloc/config"
	"github.com/sgr-gralloc/sgralloc/descriptor"
	"github.com/sgr-gralloc/sgralloc/format"
	"github.com/sgr-gralloc/sgralloc/memutils"
	"github.com/stretchr/testify/require"
)

var flagsTestCases = map[string]struct {
	usage format.Usage
	flags Flags
}{
	"No Usage Defaults To CPU":        {usage: 0, flags: FlagCPU},
	"Protected Only Defaults To CPU":  {usage: format.UsageProtected, flags: FlagCPU},
	"Vendor Bits Only Default To CPU": {usage: format.UsageDownscale | format.UsageNoSAJC, flags: FlagCPU},
	"CPU Read":                        {usage: format.UsageCPUReadOften, flags: FlagCPU},
	"GPU Render Target":               {usage: format.UsageGPURenderTarget, flags: FlagGPU},
	"GPU Data Buffer":                 {usage: format.UsageGPUDataBuffer, flags: FlagGPU},
	"Overlay And Texture": {
		usage: format.UsageComposerOverlay | format.UsageGPUTexture,
		flags: FlagGPU | FlagDisplay,
	},
	"Cursor":        {usage: format.UsageComposerCursor, flags: FlagDisplay},
	"Camera To CPU": {usage: format.UsageCameraOutput | format.UsageCPUReadRarely, flags: FlagCPU | FlagCamera},
	"Video Decoder": {usage: format.UsageVideoDecoder | format.UsageProtected, flags: FlagVideo},
	"Video Encoder": {usage: format.UsageVideoEncoder | format.UsageCameraInput, flags: FlagCamera | FlagVideo},
}

func TestFlagsFromUsage(t *testing.T) {
	for testName, testCase := range flagsTestCases {
		t.Run(testName, func(t *testing.T) {
			require.Equal(t, testCase.flags, FlagsFromUsage(testCase.usage))
		})
	}
}

func TestFlagsKinds(t *testing.T) {
	flags := FlagDisplay | FlagCPU | FlagVideo
	require.Equal(t, []Kind{KindCPU, KindDisplay, KindVideo}, flags.Kinds())
	require.True(t, flags.Has(KindVideo))
	require.False(t, flags.Has(KindGPU))
	require.Equal(t, FlagCamera, KindCamera.Flag())
}

func renderTarget(width, height uint32) *descriptor.BufferDescriptor {
	return &descriptor.BufferDescriptor{
		Width:      width,
		Height:     height,
		LayerCount: 1,
		Format:     format.PixelFormatRGBA8888,
		Usage:      format.UsageGPURenderTarget | format.UsageComposerOverlay,
	}
}

var layoutTestCases = map[string]struct {
	kind   Kind
	format format.PixelFormat
	mask   format.FormatLayoutBitMask
}{
	"CPU RGBA":           {kind: KindCPU, format: format.PixelFormatRGBA8888, mask: format.FormatLayoutMaskLinear},
	"CPU SBWC":           {kind: KindCPU, format: format.PixelFormatYCbCr420SPNSBWC, mask: format.FormatLayoutMaskSBWC},
	"CPU Unknown":        {kind: KindCPU, format: 0x7, mask: format.FormatLayoutMaskNone},
	"GPU RGBA":           {kind: KindGPU, format: format.PixelFormatRGBA8888, mask: format.FormatLayoutMaskLinear | format.FormatLayoutMaskDCC},
	"GPU RGB888":         {kind: KindGPU, format: format.PixelFormatRGB888, mask: format.FormatLayoutMaskLinear},
	"GPU Lossless SBWC":  {kind: KindGPU, format: format.PixelFormatYCbCr420SPMSBWC, mask: format.FormatLayoutMaskSBWC},
	"GPU Lossy SBWC":     {kind: KindGPU, format: format.PixelFormatYCbCr420SPMSBWCL50, mask: format.FormatLayoutMaskNone},
	"GPU RAW16":          {kind: KindGPU, format: format.PixelFormatRAW16, mask: format.FormatLayoutMaskNone},
	"Display RGBA":       {kind: KindDisplay, format: format.PixelFormatRGBA8888, mask: format.FormatLayoutMaskLinear | format.FormatLayoutMaskDCC},
	"Display Y8":         {kind: KindDisplay, format: format.PixelFormatY8, mask: format.FormatLayoutMaskNone},
	"Display Lossy SBWC": {kind: KindDisplay, format: format.PixelFormatYCbCr420SPMSBWCL50, mask: format.FormatLayoutMaskSBWC},
	"Display YUYV":       {kind: KindDisplay, format: format.PixelFormatYCbCr422I, mask: format.FormatLayoutMaskLinear},
	"Camera RAW10":       {kind: KindCamera, format: format.PixelFormatRAW10, mask: format.FormatLayoutMaskLinear},
	"Camera RGB565":      {kind: KindCamera, format: format.PixelFormatRGB565, mask: format.FormatLayoutMaskNone},
	"Video NV12M":        {kind: KindVideo, format: format.PixelFormatYCbCr420SPM, mask: format.FormatLayoutMaskLinear},
	"Video P010 SBWC":    {kind: KindVideo, format: format.PixelFormatYCbCr420SPN10BSBWC, mask: format.FormatLayoutMaskSBWC},
	"Video Y16":          {kind: KindVideo, format: format.PixelFormatY16, mask: format.FormatLayoutMaskNone},
	"Video Blob":         {kind: KindVideo, format: format.PixelFormatBlob, mask: format.FormatLayoutMaskLinear},
}

func TestLayout(t *testing.T) {
	desc := renderTarget(1920, 1080)
	for testName, testCase := range layoutTestCases {
		t.Run(testName, func(t *testing.T) {
			manager := NewManager(testCase.kind, config.Default())
			mask := manager.Layout(testCase.format, desc)
			require.Equal(t, testCase.mask, mask)
			require.NoError(t, mask.Validate())
		})
	}
}

func TestLayoutNeverOffersBothCompressions(t *testing.T) {
	desc := renderTarget(4000, 3000)
	for _, info := range format.All() {
		for kind := KindCPU; kind < kindCount; kind++ {
			mask := NewManager(kind, config.Default()).Layout(info.Format, desc)
			require.NoError(t, mask.Validate(), "%s on %s", info.Format, kind)
		}
	}
}

var sajcTestCases = map[string]struct {
	mutateConfig func(c *config.Config)
	desc         *descriptor.BufferDescriptor
	keepDCC      bool
}{
	"Enabled":  {desc: renderTarget(64, 64), keepDCC: true},
	"Disabled": {mutateConfig: func(c *config.Config) { c.SAJCEnabled = false }, desc: renderTarget(64, 64)},
	"Not A Render Target": {
		desc: &descriptor.BufferDescriptor{Width: 64, Height: 64, LayerCount: 1, Usage: format.UsageGPUTexture},
	},
	"Opted Out": {
		desc: &descriptor.BufferDescriptor{Width: 64, Height: 64, LayerCount: 1, Usage: format.UsageGPURenderTarget | format.UsageNoSAJC},
	},
	"Small Relative To Display": {
		mutateConfig: func(c *config.Config) { c.DisplayWidth, c.DisplayHeight = 1080, 2400 },
		desc:         renderTarget(256, 256),
	},
	"Large Relative To Display": {
		mutateConfig: func(c *config.Config) { c.DisplayWidth, c.DisplayHeight = 1080, 2400 },
		desc:         renderTarget(1080, 2400),
		keepDCC:      true,
	},
	"Exactly A Quarter Of The Display": {
		mutateConfig: func(c *config.Config) { c.DisplayWidth, c.DisplayHeight = 1000, 1000 },
		desc:         renderTarget(500, 500),
		keepDCC:      true,
	},
	"Nil Descriptor": {},
}

func TestDisableSAJCIfNeeded(t *testing.T) {
	for testName, testCase := range sajcTestCases {
		t.Run(testName, func(t *testing.T) {
			cfg := config.Default()
			if testCase.mutateConfig != nil {
				testCase.mutateConfig(&cfg)
			}

			mask := DisableSAJCIfNeeded(format.FormatLayoutMaskLinear|format.FormatLayoutMaskDCC, testCase.desc, cfg)
			require.Equal(t, testCase.keepDCC, mask.Has(format.FormatLayoutDCC))
			require.True(t, mask.Has(format.FormatLayoutLinear))
		})
	}
}

var alignTestCases = map[string]struct {
	kind   Kind
	format format.PixelFormat
	align  AlignInfo
}{
	"CPU RGBA":     {kind: KindCPU, format: format.PixelFormatRGBA8888, align: AlignInfo{StrideInBytes: 1, VStrideInPixels: 1}},
	"CPU RAW10":    {kind: KindCPU, format: format.PixelFormatRAW10, align: AlignInfo{StrideInBytes: 64, VStrideInPixels: 1}},
	"CPU YV12":     {kind: KindCPU, format: format.PixelFormatYV12, align: AlignInfo{StrideInBytes: 16, VStrideInPixels: 1}},
	"GPU Anything": {kind: KindGPU, format: format.PixelFormatYCbCr420SP, align: AlignInfo{StrideInBytes: 256, VStrideInPixels: 1}},
	"Display NV21": {
		kind:   KindDisplay,
		format: format.PixelFormatYCrCb420SP,
		align:  AlignInfo{StrideInBytes: 1, VStrideInPixels: 2, PlanePaddingInBytes: 256},
	},
	"Display I420": {kind: KindDisplay, format: format.PixelFormatYCbCr420P, align: AlignInfo{StrideInBytes: 1, VStrideInPixels: 2}},
	"Display RGBA": {kind: KindDisplay, format: format.PixelFormatRGBA8888, align: AlignInfo{StrideInBytes: 1, VStrideInPixels: 1}},
	"Camera Blob":  {kind: KindCamera, format: format.PixelFormatBlob, align: AlignInfo{StrideInBytes: 16, VStrideInPixels: 1}},
	"Video NV12M": {
		kind:   KindVideo,
		format: format.PixelFormatYCbCr420SPM,
		align:  AlignInfo{StrideInBytes: 16, VStrideInPixels: 16, PlanePaddingInBytes: 256},
	},
	"Video NV12N": {
		kind:   KindVideo,
		format: format.PixelFormatYCbCr420SPN,
		align:  AlignInfo{StrideInBytes: 16, VStrideInPixels: 16, PlanePaddingInBytes: 256, AllocPaddingInBytes: 256},
	},
	"Video P010M": {
		kind:   KindVideo,
		format: format.PixelFormatYCbCrP010M,
		align:  AlignInfo{StrideInBytes: 32, VStrideInPixels: 16, PlanePaddingInBytes: 256},
	},
	"Video RGBA": {kind: KindVideo, format: format.PixelFormatRGBA8888, align: AlignInfo{StrideInBytes: 1, VStrideInPixels: 1}},
	"Unknown":    {kind: KindCamera, format: 0x7, align: AlignInfo{StrideInBytes: 1, VStrideInPixels: 1}},
}

func TestLinearAlignment(t *testing.T) {
	for testName, testCase := range alignTestCases {
		t.Run(testName, func(t *testing.T) {
			align := NewManager(testCase.kind, config.Default()).LinearAlignment(testCase.format)
			require.Equal(t, testCase.align, align)
			require.NoError(t, align.Validate())
		})
	}
}

func TestMergedLinearAlignment(t *testing.T) {
	align, err := MergedLinearAlignment(FlagCPU|FlagGPU|FlagDisplay|FlagVideo, format.PixelFormatYCbCr420SPN, config.Default())
	require.NoError(t, err)
	require.Equal(t, AlignInfo{
		StrideInBytes:       256,
		VStrideInPixels:     16,
		PlanePaddingInBytes: 256,
		AllocPaddingInBytes: 256,
	}, align)

	for _, info := range format.All() {
		for flags := Flags(1); flags < Flags(1)<<kindCount; flags++ {
			align, err := MergedLinearAlignment(flags, info.Format, config.Default())
			require.NoError(t, err)
			require.True(t, memutils.IsPow2(align.StrideInBytes))
			require.True(t, memutils.IsPow2(align.VStrideInPixels))
		}
	}
}

func TestAlignInfoValidate(t *testing.T) {
	require.Error(t, AlignInfo{StrideInBytes: 48, VStrideInPixels: 1}.Validate())
	require.Error(t, AlignInfo{StrideInBytes: 16, VStrideInPixels: 0}.Validate())
	require.NoError(t, AlignInfo{StrideInBytes: 16, VStrideInPixels: 2, PlanePaddingInBytes: 100}.Validate())
}
