package format

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
)

// FormatLayout names the physical arrangement of pixel data in memory
type FormatLayout int32

const (
	FormatLayoutNone FormatLayout = iota
	// FormatLayoutLinear is row-major, byte-addressable storage
	FormatLayoutLinear
	// FormatLayoutDCC is the 64KB-tiled, key-indexed compressed layout (SAJC)
	FormatLayoutDCC
	// FormatLayoutSBWC is the payload+header block compressed layout
	FormatLayoutSBWC
)

var formatLayoutMapping = map[FormatLayout]string{
	FormatLayoutNone:   "None",
	FormatLayoutLinear: "Linear",
	FormatLayoutDCC:    "DCC",
	FormatLayoutSBWC:   "SBWC",
}

func (l FormatLayout) String() string {
	str, ok := formatLayoutMapping[l]
	if !ok {
		return "unknown"
	}
	return str
}

// Bit returns the FormatLayoutBitMask bit that represents this layout
func (l FormatLayout) Bit() FormatLayoutBitMask {
	return FormatLayoutBitMask(1) << l
}

// FormatLayoutBitMask is a set of FormatLayout values used while negotiating which layouts every
// consumer of a buffer can accept
type FormatLayoutBitMask int32

var formatLayoutBitMaskMapping = common.NewFlagStringMapping[FormatLayoutBitMask]()

func (m FormatLayoutBitMask) Register(str string) {
	formatLayoutBitMaskMapping.Register(m, str)
}
func (m FormatLayoutBitMask) String() string {
	return formatLayoutBitMaskMapping.FlagsToString(m)
}

const (
	FormatLayoutMaskNone   FormatLayoutBitMask = 0
	FormatLayoutMaskLinear FormatLayoutBitMask = 1 << FormatLayoutLinear
	FormatLayoutMaskDCC    FormatLayoutBitMask = 1 << FormatLayoutDCC
	FormatLayoutMaskSBWC   FormatLayoutBitMask = 1 << FormatLayoutSBWC

	FormatLayoutMaskAll = FormatLayoutMaskLinear | FormatLayoutMaskDCC | FormatLayoutMaskSBWC
)

func init() {
	FormatLayoutMaskLinear.Register("Linear")
	FormatLayoutMaskDCC.Register("DCC")
	FormatLayoutMaskSBWC.Register("SBWC")
}

// layoutPreference is the order in which offered layouts are chosen. Compressed layouts come first
// because they save bandwidth whenever every consumer can use them.
var layoutPreference = [...]FormatLayout{FormatLayoutDCC, FormatLayoutSBWC, FormatLayoutLinear}

func (m FormatLayoutBitMask) Has(layout FormatLayout) bool {
	return m&layout.Bit() != 0
}

// Preferred returns the first offered layout in DCC > SBWC > Linear order, or FormatLayoutNone if
// the mask is empty
func (m FormatLayoutBitMask) Preferred() FormatLayout {
	for _, layout := range layoutPreference {
		if m.Has(layout) {
			return layout
		}
	}
	return FormatLayoutNone
}

// Validate checks that the mask only names known layouts and never offers both compression schemes
func (m FormatLayoutBitMask) Validate() error {
	if m&^FormatLayoutMaskAll != 0 {
		return errors.Newf("layout mask %#x names unknown layouts", int32(m))
	}
	if m.Has(FormatLayoutDCC) && m.Has(FormatLayoutSBWC) {
		return errors.Newf("layout mask %s offers both DCC and SBWC", m)
	}
	return nil
}
