package layout

import "github.com/sgr-gralloc/sgralloc/memutils"

// SBWC compresses 32 pixel wide blocks. Lossless formats use 32x4 blocks over a height aligned to
// 16; lossy formats use 32x16 blocks. Payload and header rows are counted in 4-row groups for
// both.
const (
	sbwcBlockWidth       = 32
	sbwcBlockRows        = 4
	sbwcLosslessVAlign   = 16
	sbwcLossyBlockHeight = 16
	sbwcHeaderBlockWidth = 64
	sbwcHeaderAlign      = 16

	sbwcPayloadPadding       = 64
	sbwcLumaHeaderPadding    = 256
	sbwcChromaHeaderPadding  = 128
	sbwcLossyHeaderPadding   = 64
	sbwcHeaderSizeAlignment  = 32
	sbwc8BitBytesPerBlock    = 128
	sbwc10BitBytesPerBlock   = 160
	sbwcPercentDenominator   = 100
	sbwcLossy32BytesPerBlock = 96
	sbwcLossy64BytesPerBlock = 128
)

func blocksWide(width uint64) uint64 {
	return memutils.DivRoundUp(width, sbwcBlockWidth)
}

func lumaBlockRows(height, vAlign uint64) uint64 {
	return memutils.DivRoundUp(memutils.AlignUp(height, vAlign), sbwcBlockRows)
}

func chromaBlockRows(height, vAlign uint64) uint64 {
	return memutils.DivRoundUp(memutils.AlignUp(height, vAlign)/2, sbwcBlockRows)
}

// lossyChromaHeight is the chroma plane height in whole 16-row lossy blocks
func lossyChromaHeight(height uint64) uint64 {
	return memutils.AlignUp(memutils.DivRoundUp(height, 2), sbwcLossyBlockHeight)
}

func lossyChromaBlockRows(height uint64) uint64 {
	return lossyChromaHeight(height) / sbwcBlockRows
}

// SBWC8BitStride is the payload stride of a lossless 8-bit plane
func SBWC8BitStride(width uint64) uint64 {
	return sbwc8BitBytesPerBlock * blocksWide(width)
}

// SBWC10BitStride is the payload stride of a lossless 10-bit plane
func SBWC10BitStride(width uint64) uint64 {
	return sbwc10BitBytesPerBlock * blocksWide(width)
}

// SBWCHeaderStride is the header stride shared by every family
func SBWCHeaderStride(width uint64) uint64 {
	return memutils.AlignUp(memutils.DivRoundUp(width, sbwcHeaderBlockWidth), sbwcHeaderAlign)
}

func sbwc8BitLumaSize(width, height uint64) uint64 {
	return SBWC8BitStride(width)*lumaBlockRows(height, sbwcLosslessVAlign) + sbwcPayloadPadding
}

func sbwc8BitLumaHeaderSize(width, height uint64) uint64 {
	return memutils.AlignUp(SBWCHeaderStride(width)*lumaBlockRows(height, sbwcLosslessVAlign)+sbwcLumaHeaderPadding, sbwcHeaderSizeAlignment)
}

func sbwc8BitChromaSize(width, height uint64) uint64 {
	return SBWC8BitStride(width)*chromaBlockRows(height, sbwcLosslessVAlign) + sbwcPayloadPadding
}

func sbwc8BitChromaHeaderSize(width, height uint64) uint64 {
	return SBWCHeaderStride(width)*chromaBlockRows(height, sbwcLosslessVAlign) + sbwcChromaHeaderPadding
}

func sbwc10BitLumaSize(width, height uint64) uint64 {
	return SBWC10BitStride(width)*lumaBlockRows(height, sbwcLosslessVAlign) + sbwcPayloadPadding
}

// The 10-bit headers take whatever remains of the uncompressed 16-bit container size
func sbwc10BitLumaHeaderSize(width, height uint64) uint64 {
	uncompressed := memutils.AlignUp(width, sbwcBlockWidth)*memutils.AlignUp(height, sbwcLosslessVAlign)*2 + sbwcLumaHeaderPadding
	return memutils.AlignUp(uncompressed-sbwc10BitLumaSize(width, height), sbwcHeaderSizeAlignment)
}

func sbwc10BitChromaSize(width, height uint64) uint64 {
	return SBWC10BitStride(width)*chromaBlockRows(height, sbwcLosslessVAlign) + sbwcPayloadPadding
}

func sbwc10BitChromaHeaderSize(width, height uint64) uint64 {
	uncompressed := memutils.AlignUp(width, sbwcBlockWidth)*memutils.AlignUp(height, sbwcLosslessVAlign) + sbwcLumaHeaderPadding
	return uncompressed - sbwc10BitChromaSize(width, height)
}

// SBWCScaledStride is the payload stride of the legacy lossy family, which stores scale percent of
// the lossless block size
func SBWCScaledStride(width uint64, bitDepth, scale int) uint64 {
	bytesPerBlock := uint64(sbwc8BitBytesPerBlock)
	if bitDepth == 10 {
		bytesPerBlock = sbwc10BitBytesPerBlock
	}
	return (bytesPerBlock * uint64(scale) / sbwcPercentDenominator) * blocksWide(width)
}

func sbwcScaledLumaSize(stride, height uint64) uint64 {
	return stride*lumaBlockRows(height, sbwcLossyBlockHeight) + sbwcPayloadPadding
}

func sbwcScaledChromaSize(stride, height uint64) uint64 {
	return stride*lossyChromaBlockRows(height) + sbwcPayloadPadding
}

// SBWCAlignedStride is the payload stride of the lossy family with a 32 or 64 byte block budget
func SBWCAlignedStride(width uint64, alignFactor int) uint64 {
	if alignFactor == 64 {
		return sbwcLossy64BytesPerBlock * blocksWide(width)
	}
	return sbwcLossy32BytesPerBlock * blocksWide(width)
}

func sbwcAlignedLumaSize(stride, height uint64) uint64 {
	return stride * lumaBlockRows(height, sbwcLossyBlockHeight)
}

func sbwcAlignedChromaSize(stride, height uint64) uint64 {
	return stride * lossyChromaBlockRows(height)
}

func sbwcAlignedLumaHeaderSize(width, height uint64) uint64 {
	return SBWCHeaderStride(width)*lumaBlockRows(height, sbwcLossyBlockHeight) + sbwcLossyHeaderPadding
}

func sbwcAlignedChromaHeaderSize(width, height uint64) uint64 {
	return SBWCHeaderStride(width)*lossyChromaBlockRows(height) + sbwcLossyHeaderPadding
}
