package domain

import "fmt"

// MissingFieldError reports a required key absent from a descriptor file.
// It is fatal when the descriptor is the project descriptor and a soft,
// per-file failure for dependency descriptors.
type MissingFieldError struct {
	Path  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("descriptor %q is missing required field %q", e.Path, e.Field)
}

// UnreadableDescriptorError reports an I/O or parse failure on a descriptor
// file. Always soft: the file is reported and skipped.
type UnreadableDescriptorError struct {
	Path string
	Err  error
}

func (e *UnreadableDescriptorError) Error() string {
	return fmt.Sprintf("cannot read descriptor %q: %v", e.Path, e.Err)
}

func (e *UnreadableDescriptorError) Unwrap() error { return e.Err }

// DiscoveryError reports a failed package-manager inspection. Soft: the
// discoverer contributes zero stanzas and the run continues.
type DiscoveryError struct {
	Discoverer string
	Err        error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discoverer %q failed: %v", e.Discoverer, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }
