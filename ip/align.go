package ip

import (
	"github.com/cockroachdb/errors"
	"github.com/sgr-gralloc/sgralloc/memutils"
)

// AlignInfo is a consumer's linear layout requirement. Stride and vstride are powers of two, so the
// requirements of several consumers combine by taking the largest of each field.
type AlignInfo struct {
	StrideInBytes       uint64
	VStrideInPixels     uint64
	PlanePaddingInBytes uint64
	AllocPaddingInBytes uint64
}

// DefaultAlignInfo is the requirement of a consumer that accepts any byte stride
func DefaultAlignInfo() AlignInfo {
	return AlignInfo{StrideInBytes: 1, VStrideInPixels: 1}
}

func (a AlignInfo) Merge(other AlignInfo) AlignInfo {
	merged := AlignInfo{
		StrideInBytes:       memutils.Max(a.StrideInBytes, other.StrideInBytes),
		VStrideInPixels:     memutils.Max(a.VStrideInPixels, other.VStrideInPixels),
		PlanePaddingInBytes: memutils.Max(a.PlanePaddingInBytes, other.PlanePaddingInBytes),
		AllocPaddingInBytes: memutils.Max(a.AllocPaddingInBytes, other.AllocPaddingInBytes),
	}
	memutils.DebugValidate(merged)
	return merged
}

func (a AlignInfo) Validate() error {
	if err := memutils.CheckPow2(a.StrideInBytes, "StrideInBytes"); err != nil {
		return errors.Wrap(err, "invalid linear alignment")
	}
	if err := memutils.CheckPow2(a.VStrideInPixels, "VStrideInPixels"); err != nil {
		return errors.Wrap(err, "invalid linear alignment")
	}
	return nil
}
