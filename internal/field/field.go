// Package field implements the declarative field-constraint engine used to
// build typed request objects from loosely-typed JSON input.
//
// WHY HAND-ROLLED VALIDATION?
// ───────────────────────────
// Request arguments arrive as map[string]any straight out of encoding/json,
// so a single attribute may legally be a string, a number, a nested mapping,
// or an explicit null — and "key absent", "key null" and "key invalid" are
// three different outcomes. Struct-tag validators work on concretely typed
// fields and cannot express those distinctions, so each field kind here is a
// small typed holder that validates the raw value at assignment time.
//
// Every kind carries a Spec (required/nullable) and exposes Set(value):
//
//	Set(nil)  → rejected when Required or not Nullable, no-op otherwise
//	Set(v)    → kind-specific rule, then the typed value is stored
//
// A field that was never assigned (or assigned an accepted null/empty value)
// simply keeps its zero value and reports itself as not present.
package field

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Gender enum values. The wire format is a plain integer.
const (
	GenderUnknown = 0
	GenderMale    = 1
	GenderFemale  = 2
)

// DateLayout is the wire format for all date-valued fields.
const DateLayout = "02.01.2006"

// maxAge bounds birthdate fields: anything further in the past is rejected.
const maxAge = 70 * 365 * 24 * time.Hour

// Spec describes the presence contract of one field: Required means the
// field must carry a non-null value whenever it is assigned; Nullable means
// an explicit null assignment is tolerated.
type Spec struct {
	Required bool
	Nullable bool
}

// rejectNull decides what an explicit null assignment means for this spec.
// Returns nil when the null is acceptable (the field stays unset).
func (s Spec) rejectNull() error {
	if s.Required || !s.Nullable {
		return &Error{Rule: "must not be null"}
	}
	return nil
}

// Error reports a single violated field rule together with the value that
// violated it. The request constructors wrap it with the field name.
type Error struct {
	Rule  string // human-readable description of the violated rule
	Value any    // the offending value exactly as supplied
}

func (e *Error) Error() string {
	if e.Value == nil {
		return e.Rule
	}
	return fmt.Sprintf("%s (got %v)", e.Rule, e.Value)
}

// asInt converts the numeric shapes encoding/json may produce into an int.
// Fractional numbers are not integers and do not convert.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	}
	return 0, false
}

// String holds a free-form text field.
type String struct {
	Spec
	Value string
}

func (f *String) Set(v any) error {
	if v == nil {
		return f.rejectNull()
	}
	s, ok := v.(string)
	if !ok {
		return &Error{Rule: "must be a string", Value: v}
	}
	f.Value = s
	return nil
}

// Arguments holds the opaque argument bag of an envelope request.
type Arguments struct {
	Spec
	Value map[string]any
}

func (f *Arguments) Set(v any) error {
	if v == nil {
		return f.rejectNull()
	}
	m, ok := v.(map[string]any)
	if !ok {
		return &Error{Rule: "must be a mapping with string keys", Value: v}
	}
	f.Value = m
	return nil
}

// Email is a text field that must contain an @ when non-empty.
type Email struct {
	String
}

func (f *Email) Set(v any) error {
	if err := f.String.Set(v); err != nil {
		return err
	}
	if f.Value != "" && !strings.Contains(f.Value, "@") {
		return &Error{Rule: "must contain @", Value: v}
	}
	return nil
}

// Phone accepts a string or an integer; once stringified the value must be
// 11 characters long and start with 7. An empty string counts as unset.
type Phone struct {
	Spec
	Value string
}

func (f *Phone) Set(v any) error {
	if v == nil {
		return f.rejectNull()
	}
	var s string
	switch n := v.(type) {
	case string:
		s = n
	default:
		num, ok := asInt(v)
		if !ok {
			return &Error{Rule: "must be a string or an integer", Value: v}
		}
		s = strconv.Itoa(num)
	}
	if s == "" {
		return nil
	}
	if len(s) != 11 || s[0] != '7' {
		return &Error{Rule: "must be 11 characters starting with 7", Value: v}
	}
	f.Value = s
	return nil
}

// Date holds a dd.mm.yyyy date. An empty string counts as unset.
type Date struct {
	Spec
	Value time.Time

	set bool
}

func (f *Date) Set(v any) error {
	if v == nil {
		return f.rejectNull()
	}
	s, ok := v.(string)
	if !ok {
		return &Error{Rule: "must be a dd.mm.yyyy date", Value: v}
	}
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return &Error{Rule: "must be a dd.mm.yyyy date", Value: v}
	}
	f.Value = t
	f.set = true
	return nil
}

// Present reports whether a date value was actually assigned.
func (f *Date) Present() bool { return f.set }

// Birthday is a Date no further than 70 years in the past.
type Birthday struct {
	Date
}

func (f *Birthday) Set(v any) error {
	if err := f.Date.Set(v); err != nil {
		return err
	}
	if f.set && time.Since(f.Value) > maxAge {
		return &Error{Rule: "must be at most 70 years in the past", Value: v}
	}
	return nil
}

// Gender holds the integer gender enum. Zero (unknown) is a legitimate
// value, so presence is tracked separately from the stored value.
type Gender struct {
	Spec
	Value int

	set bool
}

func (f *Gender) Set(v any) error {
	if v == nil {
		return f.rejectNull()
	}
	n, ok := asInt(v)
	if !ok || n < GenderUnknown || n > GenderFemale {
		return &Error{Rule: "must be 0, 1 or 2", Value: v}
	}
	f.Value = n
	f.set = true
	return nil
}

// Present reports whether a gender value was actually assigned.
func (f *Gender) Present() bool { return f.set }

// ClientIDs holds a non-empty list of integer client ids.
type ClientIDs struct {
	Spec
	Value []int
}

func (f *ClientIDs) Set(v any) error {
	if v == nil {
		return f.rejectNull()
	}
	list, ok := v.([]any)
	if !ok {
		return &Error{Rule: "must be a list of integers", Value: v}
	}
	if len(list) == 0 {
		return &Error{Rule: "must not be empty", Value: v}
	}
	ids := make([]int, 0, len(list))
	for _, item := range list {
		id, ok := asInt(item)
		if !ok {
			return &Error{Rule: "must be a list of integers", Value: v}
		}
		ids = append(ids, id)
	}
	f.Value = ids
	return nil
}
