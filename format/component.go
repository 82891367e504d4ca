package format

// ComponentType identifies the channel a component carries
type ComponentType int32

const (
	ComponentR ComponentType = iota
	ComponentG
	ComponentB
	ComponentA
	ComponentY
	ComponentCb
	ComponentCr
	// ComponentRaw is sensor data or padding bits inside a sample
	ComponentRaw
)

var componentTypeMapping = map[ComponentType]string{
	ComponentR:   "R",
	ComponentG:   "G",
	ComponentB:   "B",
	ComponentA:   "A",
	ComponentY:   "Y",
	ComponentCb:  "Cb",
	ComponentCr:  "Cr",
	ComponentRaw: "RAW",
}

func (c ComponentType) String() string {
	str, ok := componentTypeMapping[c]
	if !ok {
		return "unknown"
	}
	return str
}

// ComponentInfo is one channel of a format: the plane it lives in, what it carries, and its width.
// Entries appear in plane order and, inside a plane, in ascending bit order.
type ComponentInfo struct {
	Plane int
	Type  ComponentType
	Bits  int
}

// Subsampling is the chroma subsampling class of a format
type Subsampling int32

const (
	SubsamplingRGB Subsampling = iota
	SubsamplingYUV444
	SubsamplingYUV422
	SubsamplingYUV420
)

var subsamplingMapping = map[Subsampling]string{
	SubsamplingRGB:    "RGB",
	SubsamplingYUV444: "YUV444",
	SubsamplingYUV422: "YUV422",
	SubsamplingYUV420: "YUV420",
}

func (s Subsampling) String() string {
	str, ok := subsamplingMapping[s]
	if !ok {
		return "unknown"
	}
	return str
}

// Factors returns the horizontal and vertical subsampling of the given plane. Luma and RGB planes are
// never subsampled.
func (s Subsampling) Factors(plane int) (horizontal, vertical int) {
	if plane == 0 {
		return 1, 1
	}
	switch s {
	case SubsamplingYUV422:
		return 2, 1
	case SubsamplingYUV420:
		return 2, 2
	default:
		return 1, 1
	}
}

// FourCC packs a four character code little-endian, the way DRM and V4L2 do
func FourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}
