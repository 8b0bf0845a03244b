package digits

import (
	"fmt"
	"os"
	"strings"

	"github.com/daryltucker/pi-accuracy/internal/model"
)

// Reference holds the true digits of pi for one comparison session.
// It is immutable once built and safe for concurrent use.
type Reference struct {
	digits string
	source string
}

// NewReference validates digits and wraps them in a Reference.
// Surrounding whitespace (such as a trailing newline) is removed.
func NewReference(digits string) (*Reference, error) {
	return newReference(digits, "")
}

// LoadReference reads reference digits from a file.
func LoadReference(path string) (*Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference digits %s: %w", path, err)
	}
	return newReference(string(data), path)
}

func newReference(digits, source string) (*Reference, error) {
	digits = strings.TrimSpace(digits)
	if digits == "" {
		return nil, fmt.Errorf("%w: reference digits %s", ErrEmptyInput, source)
	}
	if len(digits) < 2 || digits[1] != DecimalPoint {
		return nil, fmt.Errorf("%w: expected %q at index 1 in %s", ErrMalformedReference, DecimalPoint, source)
	}
	return &Reference{digits: digits, source: source}, nil
}

// Compare scores candidate against the reference digits.
func (r *Reference) Compare(candidate string) (model.AccuracyResult, error) {
	return Compare(r.digits, candidate)
}

// Len returns the number of characters in the reference, decimal point included.
func (r *Reference) Len() int { return len(r.digits) }

// FractionalDigits is the largest CorrectDigits any candidate can reach.
func (r *Reference) FractionalDigits() int { return len(r.digits) - 2 }

// Source returns the file the reference was loaded from, if any.
func (r *Reference) Source() string { return r.source }

func (r *Reference) String() string { return r.digits }
