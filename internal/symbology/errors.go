package symbology

import "fmt"

// UnknownFormatError indicates a format identifier that is not in the
// supported registry. It is distinct from InvalidPayloadError so callers can
// tell a bad format name apart from bad data for a known format.
type UnknownFormatError struct {
	Name string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q (supported: %s)", e.Name, SupportedNames())
}

// InvalidPayloadError indicates payload data that violates the length or
// charset rule of a known format.
type InvalidPayloadError struct {
	Format     Format
	Constraint string
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("invalid data for format %q: %s", string(e.Format), e.Constraint)
}
