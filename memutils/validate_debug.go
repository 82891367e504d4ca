//go:build debug_mem_utils

package memutils

// DebugValidate panics if the value fails its own validation. Layout managers call it on every
// result they hand out; it only checks anything when built with the debug_mem_utils tag.
func DebugValidate(validatable Validatable) {
	if err := validatable.Validate(); err != nil {
		panic(err)
	}
}
