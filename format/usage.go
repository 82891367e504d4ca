package format

import (
	"fmt"
	"math/bits"
	"strings"
)

// Usage is the buffer usage bitmask shared between producers and consumers. Bit positions are a
// wire contract and must not move.
type Usage uint64

const (
	UsageCPUReadRarely  Usage = 0x2
	UsageCPUReadOften   Usage = 0x3
	UsageCPUReadMask    Usage = 0xF
	UsageCPUWriteRarely Usage = 0x20
	UsageCPUWriteOften  Usage = 0x30
	UsageCPUWriteMask   Usage = 0xF0

	UsageGPUTexture           Usage = 1 << 8
	UsageGPURenderTarget      Usage = 1 << 9
	UsageComposerOverlay      Usage = 1 << 11
	UsageComposerClientTarget Usage = 1 << 12
	UsageProtected            Usage = 1 << 14
	UsageComposerCursor       Usage = 1 << 15
	UsageVideoEncoder         Usage = 1 << 16
	UsageCameraOutput         Usage = 1 << 17
	UsageCameraInput          Usage = 1 << 18
	UsageVideoDecoder         Usage = 1 << 22
	UsageSensorDirectData     Usage = 1 << 23
	UsageGPUDataBuffer        Usage = 1 << 24
	UsageGPUCubeMap           Usage = 1 << 25
	UsageGPUMipmapComplete    Usage = 1 << 26

	// UsageGDCMargin grows the allocated extent by the configured GDC margin
	UsageGDCMargin Usage = 1 << 48
	// UsageDownscale appends a half-resolution sub-image after the primary image
	UsageDownscale Usage = 1 << 49
	// UsageNoSAJC opts the buffer out of the DCC (SAJC) layout
	UsageNoSAJC Usage = 1 << 50
	// UsageSBWCRequest10Bit asks flexible video formats to resolve to 10-bit SBWC
	UsageSBWCRequest10Bit Usage = 1 << 51
)

var usageMapping = []struct {
	usage Usage
	name  string
}{
	{UsageGPUTexture, "GPU_TEXTURE"},
	{UsageGPURenderTarget, "GPU_RENDER_TARGET"},
	{UsageComposerOverlay, "COMPOSER_OVERLAY"},
	{UsageComposerClientTarget, "COMPOSER_CLIENT_TARGET"},
	{UsageProtected, "PROTECTED"},
	{UsageComposerCursor, "COMPOSER_CURSOR"},
	{UsageVideoEncoder, "VIDEO_ENCODER"},
	{UsageCameraOutput, "CAMERA_OUTPUT"},
	{UsageCameraInput, "CAMERA_INPUT"},
	{UsageVideoDecoder, "VIDEO_DECODER"},
	{UsageSensorDirectData, "SENSOR_DIRECT_DATA"},
	{UsageGPUDataBuffer, "GPU_DATA_BUFFER"},
	{UsageGPUCubeMap, "GPU_CUBE_MAP"},
	{UsageGPUMipmapComplete, "GPU_MIPMAP_COMPLETE"},
	{UsageGDCMargin, "GDC_MARGIN"},
	{UsageDownscale, "DOWNSCALE"},
	{UsageNoSAJC, "NO_SAJC"},
	{UsageSBWCRequest10Bit, "SBWC_REQUEST_10BIT"},
}

func (u Usage) HasAny(mask Usage) bool {
	return u&mask != 0
}

func (u Usage) HasAll(mask Usage) bool {
	return u&mask == mask
}

func (u Usage) CPURead() bool {
	return u&UsageCPUReadMask != 0
}

func (u Usage) CPUWrite() bool {
	return u&UsageCPUWriteMask != 0
}

func (u Usage) String() string {
	if u == 0 {
		return "None"
	}

	var names []string
	remaining := u
	if read := u & UsageCPUReadMask; read != 0 {
		names = append(names, fmt.Sprintf("CPU_READ(%d)", read))
		remaining &^= UsageCPUReadMask
	}
	if write := u & UsageCPUWriteMask; write != 0 {
		names = append(names, fmt.Sprintf("CPU_WRITE(%d)", write>>4))
		remaining &^= UsageCPUWriteMask
	}

	for _, entry := range usageMapping {
		if remaining&entry.usage != 0 {
			names = append(names, entry.name)
			remaining &^= entry.usage
		}
	}

	for remaining != 0 {
		bit := Usage(1) << bits.TrailingZeros64(uint64(remaining))
		names = append(names, fmt.Sprintf("0x%x", uint64(bit)))
		remaining &^= bit
	}

	return strings.Join(names, "|")
}
