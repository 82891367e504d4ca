// Package config holds the process-wide settings that steer layout decisions. A Config is built
// once at startup and passed by value; nothing in this module reads settings from the environment.
package config

import "github.com/cockroachdb/errors"

const (
	// DefaultLaunchAPILevel is the platform API level assumed when none is provided
	DefaultLaunchAPILevel int = 33
	// DefaultGDCMarginPercent is how much each dimension grows when a buffer asks for a GDC margin
	DefaultGDCMarginPercent int = 10
	// DefaultProtectedDCCLimit is the width and height at or above which protected buffers never use DCC
	DefaultProtectedDCCLimit uint32 = 4096
	// DefaultSAJCMinAreaDivisor makes buffers smaller than a quarter of the display skip DCC
	DefaultSAJCMinAreaDivisor uint64 = 4
)

type Config struct {
	// SAJCEnabled allows consumers to offer the DCC (SAJC) layout at all
	SAJCEnabled bool
	// SAJCMinAreaDivisor sets the size threshold for DCC: a buffer whose area times this divisor is
	// below the display area does not use DCC. Ignored while the display size is unknown.
	SAJCMinAreaDivisor uint64
	// DisplayWidth and DisplayHeight are the primary display resolution, 0 when unknown
	DisplayWidth  uint32
	DisplayHeight uint32

	// DCCDoubleSize replaces the fixed SVK metadata pad with a doubling of the whole DCC allocation.
	// Used to stress compression headroom.
	DCCDoubleSize bool

	// LaunchAPILevel is the platform API level the device launched with. It selects legacy YV12
	// stride behavior.
	LaunchAPILevel int

	// GDCMarginPercent is the growth applied to each dimension for UsageGDCMargin buffers
	GDCMarginPercent int

	// ProtectedDCCLimit is the secure heap ceiling: protected buffers at least this wide and tall
	// never use DCC
	ProtectedDCCLimit uint32
}

// Default returns the configuration used when the caller has no platform-specific values
func Default() Config {
	return Config{
		SAJCEnabled:        true,
		SAJCMinAreaDivisor: DefaultSAJCMinAreaDivisor,
		LaunchAPILevel:     DefaultLaunchAPILevel,
		GDCMarginPercent:   DefaultGDCMarginPercent,
		ProtectedDCCLimit:  DefaultProtectedDCCLimit,
	}
}

// DisplayArea returns the display resolution in pixels, or 0 if it is not configured
func (c Config) DisplayArea() uint64 {
	return uint64(c.DisplayWidth) * uint64(c.DisplayHeight)
}

func (c Config) Validate() error {
	if c.LaunchAPILevel < 0 {
		return errors.Newf("launch API level %d is negative", c.LaunchAPILevel)
	}
	if c.GDCMarginPercent < 0 || c.GDCMarginPercent > 100 {
		return errors.Newf("GDC margin of %d%% is outside [0, 100]", c.GDCMarginPercent)
	}
	if (c.DisplayWidth == 0) != (c.DisplayHeight == 0) {
		return errors.Newf("display size %dx%d must set both dimensions or neither", c.DisplayWidth, c.DisplayHeight)
	}
	if c.ProtectedDCCLimit == 0 {
		return errors.New("protected DCC limit must be positive")
	}
	return nil
}
