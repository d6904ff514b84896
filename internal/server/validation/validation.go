// Package validation decodes JSON request bodies into typed payloads and
// checks them against declarative `validate` rules. Every violation is
// collected into a Report keyed by the JSON field name, so one response can
// describe all of them.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation messages.
const (
	MsgRequired     = "Required"
	MsgEmpty        = "Must not be empty"
	MsgInvalidUUID  = "Invalid uuid"
	MsgInvalidURL   = "Invalid url"
	MsgInvalidEmail = "Invalid email"
	MsgExpected     = "Expected %s"
	MsgMalformed    = "Malformed JSON"
	MsgInvalid      = "Invalid"

	// BodyField keys violations that concern the body as a whole.
	BodyField = "body"
)

// Report maps a field name to its violations, in rule order.
type Report map[string][]string

// Add appends msg to the violations of field.
func (r Report) Add(field, msg string) {
	r[field] = append(r[field], msg)
}

// Error carries a Report out of the pipeline.
type Error struct {
	Report Report
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Report))
	for f := range e.Report {
		fields = append(fields, f)
	}
	return "invalid input: " + strings.Join(fields, ", ")
}

// FieldError builds an Error holding a single violation.
func FieldError(field, msg string) *Error {
	return &Error{Report: Report{field: {msg}}}
}

// Outcome is either a valid payload or the report of why it is not.
type Outcome[T any] struct {
	value  *T
	report Report
}

// Valid reports whether the payload satisfied every rule.
func (o Outcome[T]) Valid() bool { return o.report == nil }

// Value returns the decoded payload; nil when the outcome is invalid.
func (o Outcome[T]) Value() *T { return o.value }

// Report returns the violations; nil when the outcome is valid.
func (o Outcome[T]) Report() Report { return o.report }

// Result returns the payload, or an *Error when the outcome is invalid.
func (o Outcome[T]) Result() (*T, error) {
	if !o.Valid() {
		return nil, &Error{Report: o.report}
	}
	return o.value, nil
}

// Validator is safe for concurrent use; build one per process.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that names fields after their json tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	return &Validator{v: v}
}

// jsonName is the field's key in JSON: its json tag name, the Go name when
// the tag has none, or "" when the field is skipped.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// Decode parses body as a JSON object into a T and validates it. An empty
// body is treated as an empty object. Fields should be pointers so that
// absent values can be told apart from empty ones. Each top-level field is
// decoded on its own, so every mistyped field is reported.
func Decode[T any](val *Validator, body []byte) Outcome[T] {
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	report := Report{}
	payload := new(T)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		report.Add(BodyField, MsgMalformed)
		return Outcome[T]{report: report}
	}

	rv := reflect.ValueOf(payload).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := jsonName(sf)
		if !sf.IsExported() || name == "" {
			continue
		}
		msg, ok := lookup(raw, name)
		if !ok {
			continue
		}
		if err := json.Unmarshal(msg, rv.Field(i).Addr().Interface()); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				report.Add(name, fmt.Sprintf(MsgExpected, typeErr.Type.Kind()))
			} else {
				report.Add(name, MsgInvalid)
			}
		}
	}

	val.collect(payload, report)

	if len(report) > 0 {
		return Outcome[T]{report: report}
	}
	return Outcome[T]{value: payload}
}

// lookup finds key in raw, falling back to the case-insensitive match
// encoding/json applies.
func lookup(raw map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	if msg, ok := raw[key]; ok {
		return msg, true
	}
	for k, msg := range raw {
		if strings.EqualFold(k, key) {
			return msg, true
		}
	}
	return nil, false
}

// Check validates a payload that was built in code rather than decoded.
func Check[T any](val *Validator, payload *T) Outcome[T] {
	report := Report{}
	val.collect(payload, report)

	if len(report) > 0 {
		return Outcome[T]{report: report}
	}
	return Outcome[T]{value: payload}
}

// collect adds the rule violations of payload to report, skipping fields
// that already failed to decode.
func (val *Validator) collect(payload any, report Report) {
	err := val.v.Struct(payload)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		report.Add(BodyField, MsgInvalid)
		return
	}
	for _, fe := range fieldErrs {
		if _, typed := report[fe.Field()]; typed {
			continue
		}
		report.Add(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "min":
		if fe.Param() == "1" {
			return MsgEmpty
		}
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "uuid":
		return MsgInvalidUUID
	case "url":
		return MsgInvalidURL
	case "email":
		return MsgInvalidEmail
	default:
		return MsgInvalid
	}
}
