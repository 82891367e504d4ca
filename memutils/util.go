package memutils

import (
	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer
}

func CheckPow2[T Number](number T, name string) error {
	if number <= 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

// IsPow2 reports whether number is a positive power of two
func IsPow2[T Number](number T) bool {
	return number > 0 && number&(number-1) == 0
}

// AlignUp rounds value up to the next multiple of alignment. Alignment must be a power of two.
func AlignUp[T Number](value T, alignment T) T {
	return (value + alignment - 1) & ^(alignment - 1)
}

// AlignDown rounds value down to the previous multiple of alignment. Alignment must be a power of two.
func AlignDown[T Number](value T, alignment T) T {
	return value & ^(alignment - 1)
}

// RoundUp rounds value up to the next multiple of multiple, which does not need to be a power of two
func RoundUp[T Number](value T, multiple T) T {
	if multiple == 0 {
		return value
	}
	return DivRoundUp(value, multiple) * multiple
}

func DivRoundUp[T Number](value T, divisor T) T {
	return (value + divisor - 1) / divisor
}

// BitsToBytes converts a bit count to the number of bytes needed to hold it
func BitsToBytes[T Number](bits T) T {
	return DivRoundUp(bits, 8)
}

func Max[T Number](a, b T) T {
	if a > b {
		return a
	}
	return b
}
