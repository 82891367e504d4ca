package format

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slices"
)

// MaxAllocsPerFormat is the most OS-level allocations a single format asks for
const MaxAllocsPerFormat = 3

// SBWCInfo describes how an SBWC format compresses
type SBWCInfo struct {
	// BitDepth is 8 or 10
	BitDepth int
	Lossless bool
	// ScaleFactor is the compressed size as a percentage of the original for the legacy lossy family
	ScaleFactor int
	// AlignFactor is the per-block byte budget (32 or 64) for the lossy family without a scale factor
	AlignFactor int
}

// FormatInfo is a FormatTable entry
type FormatInfo struct {
	Format PixelFormat
	// NumAllocs is the number of separate OS-level allocations the format needs
	NumAllocs int
	// PlanesPerAlloc holds, for each allocation, how many planes live in it
	PlanesPerAlloc [MaxAllocsPerFormat]int
	Components     []ComponentInfo
	Subsampling    Subsampling
	FourCC         uint32

	// DCC marks formats the DCC layout has a block extent entry for
	DCC bool
	// SBWC is set for SBWC formats
	SBWC *SBWCInfo
	// Interleaved422 marks the single-plane 4:2:2 format whose components share a 16-bit sample
	Interleaved422 bool
}

// NumPlanes is the number of planes across every allocation
func (i FormatInfo) NumPlanes() int {
	planes := 0
	for alloc := 0; alloc < i.NumAllocs; alloc++ {
		planes += i.PlanesPerAlloc[alloc]
	}
	return planes
}

// PlaneComponents returns the components stored in the given plane, in bit order
func (i FormatInfo) PlaneComponents(plane int) []ComponentInfo {
	var components []ComponentInfo
	for _, component := range i.Components {
		if component.Plane == plane {
			components = append(components, component)
		}
	}
	return components
}

// PlaneSampleBits is the sum of the component widths of one plane
func (i FormatInfo) PlaneSampleBits(plane int) int {
	bits := 0
	for _, component := range i.Components {
		if component.Plane == plane {
			bits += component.Bits
		}
	}
	return bits
}

// BytesPerPixel is the sample size of the first plane in bytes, rounded up
func (i FormatInfo) BytesPerPixel() int {
	return (i.PlaneSampleBits(0) + 7) / 8
}

// PlaneAlloc returns the allocation index a plane lives in
func (i FormatInfo) PlaneAlloc(plane int) int {
	for alloc := 0; alloc < i.NumAllocs; alloc++ {
		if plane < i.PlanesPerAlloc[alloc] {
			return alloc
		}
		plane -= i.PlanesPerAlloc[alloc]
	}
	return -1
}

func (i FormatInfo) IsYUV() bool {
	return i.Subsampling != SubsamplingRGB
}

func (i FormatInfo) IsSBWC() bool {
	return i.SBWC != nil
}

// IsRaw reports whether the format only carries raw sensor or blob data
func (i FormatInfo) IsRaw() bool {
	for _, component := range i.Components {
		if component.Type != ComponentRaw {
			return false
		}
	}
	return true
}

// Is10Bit reports whether the luma or color samples carry more than 8 significant bits
func (i FormatInfo) Is10Bit() bool {
	if i.SBWC != nil {
		return i.SBWC.BitDepth == 10
	}
	for _, component := range i.Components {
		if component.Type != ComponentRaw && component.Bits == 10 {
			return true
		}
	}
	return false
}

var validSampleBits = map[int]bool{8: true, 10: true, 12: true, 16: true, 24: true, 32: true, 64: true}

// Validate checks the entry's internal consistency
func (i FormatInfo) Validate() error {
	if i.NumAllocs < 1 || i.NumAllocs > MaxAllocsPerFormat {
		return errors.Newf("%s: allocation count %d out of range", i.Format, i.NumAllocs)
	}
	planes := i.NumPlanes()
	for _, component := range i.Components {
		if component.Plane >= planes {
			return errors.Newf("%s: component %s in plane %d but the format has %d planes", i.Format, component.Type, component.Plane, planes)
		}
	}
	if i.Interleaved422 {
		return nil
	}
	for plane := 0; plane < planes; plane++ {
		bits := i.PlaneSampleBits(plane)
		if !validSampleBits[bits] {
			return errors.Newf("%s: plane %d sample size of %d bits is invalid", i.Format, plane, bits)
		}
	}
	if i.DCC && (i.IsYUV() || planes != 1) {
		return errors.Newf("%s: DCC formats must be single-plane RGB", i.Format)
	}
	return nil
}

func comp(plane int, componentType ComponentType, bits int) ComponentInfo {
	return ComponentInfo{Plane: plane, Type: componentType, Bits: bits}
}

var (
	compsRGBA8888 = []ComponentInfo{comp(0, ComponentR, 8), comp(0, ComponentG, 8), comp(0, ComponentB, 8), comp(0, ComponentA, 8)}
	compsBGRA8888 = []ComponentInfo{comp(0, ComponentB, 8), comp(0, ComponentG, 8), comp(0, ComponentR, 8), comp(0, ComponentA, 8)}
	compsNV12     = []ComponentInfo{comp(0, ComponentY, 8), comp(1, ComponentCb, 8), comp(1, ComponentCr, 8)}
	compsNV21     = []ComponentInfo{comp(0, ComponentY, 8), comp(1, ComponentCr, 8), comp(1, ComponentCb, 8)}
	compsI420     = []ComponentInfo{comp(0, ComponentY, 8), comp(1, ComponentCb, 8), comp(2, ComponentCr, 8)}
	compsYV12     = []ComponentInfo{comp(0, ComponentY, 8), comp(1, ComponentCr, 8), comp(2, ComponentCb, 8)}
	compsP010     = []ComponentInfo{
		comp(0, ComponentRaw, 6), comp(0, ComponentY, 10),
		comp(1, ComponentRaw, 6), comp(1, ComponentCb, 10), comp(1, ComponentRaw, 6), comp(1, ComponentCr, 10),
	}
	compsP010CrCb = []ComponentInfo{
		comp(0, ComponentRaw, 6), comp(0, ComponentY, 10),
		comp(1, ComponentRaw, 6), comp(1, ComponentCr, 10), comp(1, ComponentRaw, 6), comp(1, ComponentCb, 10),
	}
)

func rgb(f PixelFormat, fourcc uint32, dcc bool, components ...ComponentInfo) FormatInfo {
	return FormatInfo{
		Format:         f,
		NumAllocs:      1,
		PlanesPerAlloc: [MaxAllocsPerFormat]int{1},
		Components:     components,
		Subsampling:    SubsamplingRGB,
		FourCC:         fourcc,
		DCC:            dcc,
	}
}

func yuv(f PixelFormat, fourcc uint32, subsampling Subsampling, planesPerAlloc []int, components []ComponentInfo) FormatInfo {
	info := FormatInfo{
		Format:      f,
		NumAllocs:   len(planesPerAlloc),
		Components:  components,
		Subsampling: subsampling,
		FourCC:      fourcc,
	}
	copy(info.PlanesPerAlloc[:], planesPerAlloc)
	return info
}

func sbwc(f PixelFormat, planesPerAlloc []int, crcb bool, sbwcInfo SBWCInfo) FormatInfo {
	components := compsNV12
	if sbwcInfo.BitDepth == 10 {
		components = compsP010
		if crcb {
			components = compsP010CrCb
		}
	} else if crcb {
		components = compsNV21
	}
	info := yuv(f, 0, SubsamplingYUV420, planesPerAlloc, components)
	info.SBWC = &sbwcInfo
	return info
}

var (
	oneAllocOnePlane   = []int{1}
	oneAllocTwoPlanes  = []int{2}
	oneAllocThreePlane = []int{3}
	twoAllocs          = []int{1, 1}
	threeAllocs        = []int{1, 1, 1}
)

func lossless(depth int) SBWCInfo {
	return SBWCInfo{BitDepth: depth, Lossless: true}
}

func lossyScaled(depth, scale int) SBWCInfo {
	return SBWCInfo{BitDepth: depth, ScaleFactor: scale}
}

func lossyAligned(align int) SBWCInfo {
	return SBWCInfo{BitDepth: 8, AlignFactor: align}
}

// formatTable is sorted by ascending format id and never mutated after init
var formatTable = []FormatInfo{
	rgb(PixelFormatRGBA8888, FourCC('A', 'B', '2', '4'), true, compsRGBA8888...),
	rgb(PixelFormatRGBX8888, FourCC('X', 'B', '2', '4'), true, comp(0, ComponentR, 8), comp(0, ComponentG, 8), comp(0, ComponentB, 8), comp(0, ComponentRaw, 8)),
	rgb(PixelFormatRGB888, FourCC('B', 'G', '2', '4'), false, comp(0, ComponentR, 8), comp(0, ComponentG, 8), comp(0, ComponentB, 8)),
	rgb(PixelFormatRGB565, FourCC('R', 'G', '1', '6'), true, comp(0, ComponentB, 5), comp(0, ComponentG, 6), comp(0, ComponentR, 5)),
	rgb(PixelFormatBGRA8888, FourCC('A', 'R', '2', '4'), true, compsBGRA8888...),
	yuv(PixelFormatYCbCr422SP, FourCC('N', 'V', '1', '6'), SubsamplingYUV422, oneAllocTwoPlanes, compsNV12),
	yuv(PixelFormatYCrCb420SP, FourCC('N', 'V', '2', '1'), SubsamplingYUV420, oneAllocTwoPlanes, compsNV21),
	{
		Format:         PixelFormatYCbCr422I,
		NumAllocs:      1,
		PlanesPerAlloc: [MaxAllocsPerFormat]int{1},
		Components:     []ComponentInfo{comp(0, ComponentY, 8), comp(0, ComponentCb, 8), comp(0, ComponentCr, 8)},
		Subsampling:    SubsamplingYUV422,
		FourCC:         FourCC('Y', 'U', 'Y', 'V'),
		Interleaved422: true,
	},
	rgb(PixelFormatRGBAFP16, FourCC('A', 'B', '4', 'H'), true, comp(0, ComponentR, 16), comp(0, ComponentG, 16), comp(0, ComponentB, 16), comp(0, ComponentA, 16)),
	rgb(PixelFormatRAW16, FourCC('R', 'G', '1', '6'), false, comp(0, ComponentRaw, 16)),
	rgb(PixelFormatBlob, 0, false, comp(0, ComponentRaw, 8)),
	rgb(PixelFormatRAW10, FourCC('R', 'G', '1', '0'), false, comp(0, ComponentRaw, 10)),
	rgb(PixelFormatRAW12, FourCC('R', 'G', '1', '2'), false, comp(0, ComponentRaw, 12)),
	rgb(PixelFormatRGBA1010102, FourCC('A', 'B', '3', '0'), true, comp(0, ComponentR, 10), comp(0, ComponentG, 10), comp(0, ComponentB, 10), comp(0, ComponentA, 2)),
	yuv(PixelFormatYCbCrP010, FourCC('P', '0', '1', '0'), SubsamplingYUV420, oneAllocTwoPlanes, compsP010),
	rgb(PixelFormatR8, FourCC('R', '8', ' ', ' '), false, comp(0, ComponentR, 8)),

	yuv(PixelFormatYCbCr420PM, FourCC('Y', 'M', '1', '2'), SubsamplingYUV420, threeAllocs, compsI420),
	yuv(PixelFormatYCbCr420SPM, FourCC('N', 'M', '1', '2'), SubsamplingYUV420, twoAllocs, compsNV12),
	yuv(PixelFormatYCrCb422SP, FourCC('N', 'V', '6', '1'), SubsamplingYUV422, oneAllocTwoPlanes, compsNV21),
	yuv(PixelFormatYCbCr420P, FourCC('Y', 'U', '1', '2'), SubsamplingYUV420, oneAllocThreePlane, compsI420),
	yuv(PixelFormatYCbCr420SP, FourCC('N', 'V', '1', '2'), SubsamplingYUV420, oneAllocTwoPlanes, compsNV12),
	yuv(PixelFormatYCrCb420SPM, FourCC('N', 'M', '2', '1'), SubsamplingYUV420, twoAllocs, compsNV21),
	yuv(PixelFormatYV12M, FourCC('Y', 'M', '2', '1'), SubsamplingYUV420, threeAllocs, compsYV12),
	yuv(PixelFormatYCrCb420SPMFull, FourCC('N', 'M', '2', '1'), SubsamplingYUV420, twoAllocs, compsNV21),
	yuv(PixelFormatYCbCr420SPN, FourCC('N', 'V', '1', '2'), SubsamplingYUV420, oneAllocTwoPlanes, compsNV12),
	yuv(PixelFormatYCbCrP010M, FourCC('P', '0', '1', '0'), SubsamplingYUV420, twoAllocs, compsP010),
	yuv(PixelFormatYCbCrP010SPN, FourCC('P', '0', '1', '0'), SubsamplingYUV420, oneAllocTwoPlanes, compsP010),
	sbwc(PixelFormatYCbCr420SPMSBWC, twoAllocs, false, lossless(8)),
	sbwc(PixelFormatYCbCr420SPNSBWC, oneAllocTwoPlanes, false, lossless(8)),
	sbwc(PixelFormatYCbCr420SPM10BSBWC, twoAllocs, false, lossless(10)),
	sbwc(PixelFormatYCbCr420SPN10BSBWC, oneAllocTwoPlanes, false, lossless(10)),
	sbwc(PixelFormatYCrCb420SPMSBWC, twoAllocs, true, lossless(8)),
	sbwc(PixelFormatYCrCb420SPM10BSBWC, twoAllocs, true, lossless(10)),
	sbwc(PixelFormatYCbCr420SPMSBWCL50, twoAllocs, false, lossyScaled(8, 50)),
	sbwc(PixelFormatYCbCr420SPMSBWCL75, twoAllocs, false, lossyScaled(8, 75)),
	sbwc(PixelFormatYCbCr420SPNSBWCL50, oneAllocTwoPlanes, false, lossyScaled(8, 50)),
	sbwc(PixelFormatYCbCr420SPNSBWCL75, oneAllocTwoPlanes, false, lossyScaled(8, 75)),
	sbwc(PixelFormatYCbCr420SPM10BSBWCL40, twoAllocs, false, lossyScaled(10, 40)),
	sbwc(PixelFormatYCbCr420SPM10BSBWCL60, twoAllocs, false, lossyScaled(10, 60)),
	sbwc(PixelFormatYCbCr420SPM10BSBWCL80, twoAllocs, false, lossyScaled(10, 80)),
	sbwc(PixelFormatYCbCr420SPN10BSBWCL40, oneAllocTwoPlanes, false, lossyScaled(10, 40)),
	sbwc(PixelFormatYCbCr420SPN10BSBWCL60, oneAllocTwoPlanes, false, lossyScaled(10, 60)),
	sbwc(PixelFormatYCbCr420SPN10BSBWCL80, oneAllocTwoPlanes, false, lossyScaled(10, 80)),
	sbwc(PixelFormatYCbCr420SPMSBWCL100, twoAllocs, false, lossyScaled(8, 100)),
	sbwc(PixelFormatYCbCr420SPMSBWCLossy32, twoAllocs, false, lossyAligned(32)),
	sbwc(PixelFormatYCbCr420SPMSBWCLossy64, twoAllocs, false, lossyAligned(64)),
	sbwc(PixelFormatYCbCr420SPNSBWCLossy32, oneAllocTwoPlanes, false, lossyAligned(32)),
	sbwc(PixelFormatYCbCr420SPNSBWCLossy64, oneAllocTwoPlanes, false, lossyAligned(64)),

	yuv(PixelFormatY8, FourCC('G', 'R', 'E', 'Y'), SubsamplingYUV420, oneAllocOnePlane, []ComponentInfo{comp(0, ComponentY, 8)}),
	yuv(PixelFormatY16, FourCC('Y', '1', '6', ' '), SubsamplingYUV420, oneAllocOnePlane, []ComponentInfo{comp(0, ComponentY, 16)}),
	yuv(PixelFormatYV12, FourCC('Y', 'V', '1', '2'), SubsamplingYUV420, oneAllocThreePlane, compsYV12),
}

func init() {
	for index, info := range formatTable {
		if index > 0 && formatTable[index-1].Format >= info.Format {
			panic(errors.AssertionFailedf("format table is not sorted at %s", info.Format))
		}
		if err := info.Validate(); err != nil {
			panic(errors.NewAssertionErrorWithWrappedErrf(err, "format table entry is invalid"))
		}
	}
}

// Lookup finds the FormatTable entry for a format. Unknown and flexible formats are not found.
func Lookup(f PixelFormat) (FormatInfo, bool) {
	index, found := slices.BinarySearchFunc(formatTable, f, func(entry FormatInfo, target PixelFormat) int {
		switch {
		case entry.Format < target:
			return -1
		case entry.Format > target:
			return 1
		default:
			return 0
		}
	})
	if !found {
		return FormatInfo{}, false
	}
	return formatTable[index].clone(), true
}

// All returns every FormatTable entry in ascending id order
func All() []FormatInfo {
	entries := make([]FormatInfo, 0, len(formatTable))
	for _, info := range formatTable {
		entries = append(entries, info.clone())
	}
	return entries
}

// clone copies the entry so callers cannot reach the shared table through Components or SBWC
func (f FormatInfo) clone() FormatInfo {
	f.Components = slices.Clone(f.Components)
	if f.SBWC != nil {
		sbwc := *f.SBWC
		f.SBWC = &sbwc
	}
	return f
}
