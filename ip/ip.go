// Package ip answers, for each hardware block that can touch a buffer, which layouts it can read or
// write for a format and which linear alignment it needs. The set of blocks is closed: CPU, GPU,
// display composer, camera ISP, and video codec.
package ip

import (
	"github.com/sgr-gralloc/sgralloc/config"
	"github.com/sgr-gralloc/sgralloc/descriptor"
	"github.com/sgr-gralloc/sgralloc/format"
	"github.com/vkngwrapper/core/v2/common"
)

// Kind identifies one consumer of a buffer
type Kind int32

const (
	KindCPU Kind = iota
	KindGPU
	KindDisplay
	KindCamera
	KindVideo

	kindCount
)

var kindMapping = map[Kind]string{
	KindCPU:     "CPU",
	KindGPU:     "GPU",
	KindDisplay: "Display",
	KindCamera:  "Camera",
	KindVideo:   "Video",
}

func (k Kind) String() string {
	str, ok := kindMapping[k]
	if !ok {
		return "unknown"
	}
	return str
}

// Flag returns the Flags bit for this consumer
func (k Kind) Flag() Flags {
	return Flags(1) << k
}

// Flags is the set of consumers a buffer's usage implies
type Flags int32

var flagsMapping = common.NewFlagStringMapping[Flags]()

func (f Flags) Register(str string) {
	flagsMapping.Register(f, str)
}
func (f Flags) String() string {
	return flagsMapping.FlagsToString(f)
}

const (
	FlagCPU     Flags = 1 << KindCPU
	FlagGPU     Flags = 1 << KindGPU
	FlagDisplay Flags = 1 << KindDisplay
	FlagCamera  Flags = 1 << KindCamera
	FlagVideo   Flags = 1 << KindVideo
)

func init() {
	FlagCPU.Register("CPU")
	FlagGPU.Register("GPU")
	FlagDisplay.Register("Display")
	FlagCamera.Register("Camera")
	FlagVideo.Register("Video")
}

const (
	usageCPU     = format.UsageCPUReadMask | format.UsageCPUWriteMask
	usageGPU     = format.UsageGPUTexture | format.UsageGPURenderTarget | format.UsageGPUDataBuffer | format.UsageGPUCubeMap | format.UsageGPUMipmapComplete
	usageDisplay = format.UsageComposerOverlay | format.UsageComposerClientTarget | format.UsageComposerCursor
	usageCamera  = format.UsageCameraInput | format.UsageCameraOutput
	usageVideo   = format.UsageVideoEncoder | format.UsageVideoDecoder
)

// FlagsFromUsage derives the consumers implied by a usage mask. A usage that names no consumer,
// such as 0 or PROTECTED alone, defaults to the CPU.
func FlagsFromUsage(usage format.Usage) Flags {
	var flags Flags
	if usage.HasAny(usageCPU) {
		flags |= FlagCPU
	}
	if usage.HasAny(usageGPU) {
		flags |= FlagGPU
	}
	if usage.HasAny(usageDisplay) {
		flags |= FlagDisplay
	}
	if usage.HasAny(usageCamera) {
		flags |= FlagCamera
	}
	if usage.HasAny(usageVideo) {
		flags |= FlagVideo
	}

	if flags == 0 {
		flags = FlagCPU
	}
	return flags
}

func (f Flags) Has(kind Kind) bool {
	return f&kind.Flag() != 0
}

// Kinds lists the consumers in the set in Kind order
func (f Flags) Kinds() []Kind {
	var kinds []Kind
	for kind := KindCPU; kind < kindCount; kind++ {
		if f.Has(kind) {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Manager is the format manager of one consumer. It is a small value type; the consumer set is
// closed, so behavior is selected by switching on the kind.
type Manager struct {
	kind Kind
	cfg  config.Config
}

func NewManager(kind Kind, cfg config.Config) Manager {
	return Manager{kind: kind, cfg: cfg}
}

func (m Manager) Kind() Kind {
	return m.kind
}

// Layout returns the layouts this consumer can use for the format given the descriptor's usage. An
// unknown format yields an empty mask.
func (m Manager) Layout(f format.PixelFormat, desc *descriptor.BufferDescriptor) format.FormatLayoutBitMask {
	info, ok := format.Lookup(f)
	if !ok {
		return format.FormatLayoutMaskNone
	}

	var mask format.FormatLayoutBitMask
	switch m.kind {
	case KindCPU:
		mask = cpuLayout(info)
	case KindGPU:
		mask = gpuLayout(info)
	case KindDisplay:
		mask = displayLayout(info)
	case KindCamera:
		mask = cameraLayout(info)
	case KindVideo:
		mask = videoLayout(info)
	default:
		return format.FormatLayoutMaskNone
	}

	return DisableSAJCIfNeeded(mask, desc, m.cfg)
}

// LinearAlignment returns the alignment this consumer needs for the linear layout of the format.
// Only meaningful when Layout offers FormatLayoutLinear.
func (m Manager) LinearAlignment(f format.PixelFormat) AlignInfo {
	info, ok := format.Lookup(f)
	if !ok {
		return DefaultAlignInfo()
	}

	switch m.kind {
	case KindCPU:
		return cpuLinearAlignment(info)
	case KindGPU:
		return gpuLinearAlignment(info)
	case KindDisplay:
		return displayLinearAlignment(info)
	case KindCamera:
		return cameraLinearAlignment(info)
	case KindVideo:
		return videoLinearAlignment(info)
	default:
		return DefaultAlignInfo()
	}
}

// MergedLinearAlignment combines the linear alignment of every consumer in flags
func MergedLinearAlignment(flags Flags, f format.PixelFormat, cfg config.Config) (AlignInfo, error) {
	merged := DefaultAlignInfo()
	for _, kind := range flags.Kinds() {
		merged = merged.Merge(NewManager(kind, cfg).LinearAlignment(f))
	}

	return merged, merged.Validate()
}
