package memutils

// Validatable is anything DebugValidate can check: alignment records, layout results, and layout
// masks all qualify
type Validatable interface {
	Validate() error
}
