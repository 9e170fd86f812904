package lyrics

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInlineMarkup is returned when inline markup of a line is
	// unterminated or cannot be parsed.
	ErrMalformedInlineMarkup = errors.New("malformed inline markup")
	// ErrDisallowedContentKind is returned when a line contains content not
	// permitted for its section kind.
	ErrDisallowedContentKind = errors.New("disallowed content kind")
)

// LineError ties a decoding problem to the line it occurred in.
type LineError struct {
	Section string
	Kind    SectionKind
	Line    int
	Raw     string
	Err     error
}

func (e *LineError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("%s line %d: %v", e.Kind, e.Line, e.Err)
	}
	return fmt.Sprintf("%s %q line %d: %v", e.Kind, e.Section, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInlineMarkup, fmt.Sprintf(format, args...))
}

func disallowed(kind ContentKind, section SectionKind) error {
	return fmt.Errorf("%w: %s is not permitted in %s lines", ErrDisallowedContentKind, kind, section)
}
