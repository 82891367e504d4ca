package ip

import (
	"github.com/sgr-gralloc/sgralloc/config"
	"github.com/sgr-gralloc/sgralloc/descriptor"
	"github.com/sgr-gralloc/sgralloc/format"
)

// DisableSAJCIfNeeded clears the DCC bit unless DCC is switched on, the buffer is a render target
// large enough relative to the display, and the caller did not opt out.
func DisableSAJCIfNeeded(mask format.FormatLayoutBitMask, desc *descriptor.BufferDescriptor, cfg config.Config) format.FormatLayoutBitMask {
	if !mask.Has(format.FormatLayoutDCC) {
		return mask
	}

	disabled := !cfg.SAJCEnabled ||
		desc == nil ||
		!desc.Usage.HasAny(format.UsageGPURenderTarget) ||
		desc.Usage.HasAny(format.UsageNoSAJC)

	if !disabled && cfg.DisplayArea() > 0 {
		disabled = desc.Area()*cfg.SAJCMinAreaDivisor < cfg.DisplayArea()
	}

	if disabled {
		return mask &^ format.FormatLayoutMaskDCC
	}
	return mask
}
