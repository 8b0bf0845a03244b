// Package digits scores pi outputs against a reference decimal expansion.
//
// Both strings are expected in the form "<d>.<digits>". Candidates that break
// that form never cause an error; they just score low. Only empty input is
// rejected, since it means a run or loader produced nothing at all.
package digits

import (
	"errors"
	"fmt"

	"github.com/daryltucker/pi-accuracy/internal/model"
)

// DecimalPoint separates the integer part from the fraction.
const DecimalPoint = '.'

var (
	// ErrEmptyInput is returned when the reference or candidate is empty.
	ErrEmptyInput = errors.New("empty input")
	// ErrMalformedReference is returned when reference digits do not start
	// with an integer digit followed by a decimal point.
	ErrMalformedReference = errors.New("malformed reference digits")
)

// Compare scores candidate against reference.
//
// CorrectDigits is the number of leading fractional digits that agree with
// the reference, after the integer digit and the decimal point have been
// checked. WasteDigits is everything in candidate from the first mismatch
// on, including digits past the end of the reference that cannot be verified.
//
// An integer mismatch scores {0, len(candidate)}. A candidate whose second
// character is not a decimal point scores {1, len(candidate)-1}.
func Compare(reference, candidate string) (model.AccuracyResult, error) {
	if reference == "" {
		return model.AccuracyResult{}, fmt.Errorf("%w: reference digits", ErrEmptyInput)
	}
	if candidate == "" {
		return model.AccuracyResult{}, fmt.Errorf("%w: candidate output", ErrEmptyInput)
	}
	return compare(reference, candidate), nil
}

func compare(ref, cand string) model.AccuracyResult {
	n := len(cand)

	if ref[0] != cand[0] {
		return model.AccuracyResult{CorrectDigits: 0, WasteDigits: n}
	}
	if n < 2 || cand[1] != DecimalPoint {
		return model.AccuracyResult{CorrectDigits: 1, WasteDigits: n - 1}
	}

	limit := min(len(ref), n)
	i := 2
	for i < limit && ref[i] == cand[i] {
		i++
	}

	// i is the first differing index, or limit if the whole overlap matched.
	return model.AccuracyResult{
		CorrectDigits: i - 2,
		WasteDigits:   n - i,
	}
}
