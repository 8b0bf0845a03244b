package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Required parameter keys.
const (
	KeyMethod     = "method"
	KeyPrecision  = "precision"
	KeyIterations = "iterations"
)

// ErrIncompleteRecord is returned when a run is missing one of the
// required parameters.
var ErrIncompleteRecord = errors.New("incomplete run record")

// ParseParameters builds Parameters from a flat key/value document such as a
// decoded params JSON file. Keys other than method, precision and iterations
// are kept in Extra.
func ParseParameters(doc map[string]any) (Parameters, error) {
	var p Parameters

	rawMethod, ok := doc[KeyMethod]
	if !ok || rawMethod == nil {
		return p, fmt.Errorf("%w: missing %q", ErrIncompleteRecord, KeyMethod)
	}
	method, ok := rawMethod.(string)
	if !ok {
		method = fmt.Sprint(rawMethod)
	}
	p.Method = method

	var err error
	if p.Precision, err = intParam(doc, KeyPrecision); err != nil {
		return p, err
	}
	if p.Iterations, err = intParam(doc, KeyIterations); err != nil {
		return p, err
	}

	for k, v := range doc {
		switch k {
		case KeyMethod, KeyPrecision, KeyIterations:
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[k] = v
	}

	return p, p.Validate()
}

// Validate checks that the required fields are populated.
func (p Parameters) Validate() error {
	if strings.TrimSpace(p.Method) == "" {
		return fmt.Errorf("%w: empty %q", ErrIncompleteRecord, KeyMethod)
	}
	if p.Precision <= 0 {
		return fmt.Errorf("%w: %q must be positive, got %d", ErrIncompleteRecord, KeyPrecision, p.Precision)
	}
	if p.Iterations <= 0 {
		return fmt.Errorf("%w: %q must be positive, got %d", ErrIncompleteRecord, KeyIterations, p.Iterations)
	}
	return nil
}

// ExtraString returns an extra parameter rendered as a string, or "" if absent.
func (p Parameters) ExtraString(key string) string {
	v, ok := p.Extra[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func intParam(doc map[string]any, key string) (int, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: missing %q", ErrIncompleteRecord, key)
	}

	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %q is not an integer: %v", ErrIncompleteRecord, key, v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer: %s", ErrIncompleteRecord, key, v)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer: %q", ErrIncompleteRecord, key, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %q has unsupported type %T", ErrIncompleteRecord, key, raw)
	}
}
