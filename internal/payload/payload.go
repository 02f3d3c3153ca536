// Package payload validates calculator request documents and converts their
// fields into decimals.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Simplici0/referral-roi/internal/numeric"
)

// ErrNotObject is returned when a request body is not a JSON object.
var ErrNotObject = errors.New("request body must be a JSON object")

// Record holds the parsed numeric fields of one request.
type Record map[string]decimal.Decimal

// Decimal returns the parsed value of field, or zero when absent.
func (r Record) Decimal(field string) decimal.Decimal {
	return r[field]
}

// Float returns the parsed value of field as a float64.
func (r Record) Float(field string) float64 {
	return r[field].InexactFloat64()
}

// FieldError names one offending field.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError collects every field problem found in one request.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + " " + p.Reason
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Schema describes the numeric fields a calculator requires.
type Schema struct {
	fields   []string
	compiled *gojsonschema.Schema
}

// NewSchema compiles a JSON schema requiring every field to be present as a
// number or a string. Unknown fields are allowed.
func NewSchema(fields ...string) (*Schema, error) {
	properties := make(map[string]any, len(fields))
	required := make([]any, len(fields))
	for i, f := range fields {
		properties[f] = map[string]any{"type": []any{"number", "string"}}
		required[i] = f
	}

	doc := map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile payload schema: %w", err)
	}

	return &Schema{fields: append([]string(nil), fields...), compiled: compiled}, nil
}

// MustSchema is like NewSchema but panics on error. It is meant for
// package-level schemas built from constant field lists.
func MustSchema(fields ...string) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the required field names in declaration order.
func (s *Schema) Fields() []string {
	return append([]string(nil), s.fields...)
}

// Decode validates doc and parses every required field. Any problem rejects
// the whole document; no partial record is returned.
func (s *Schema) Decode(doc map[string]any) (Record, error) {
	if doc == nil {
		doc = map[string]any{}
	}

	reasons, screened := s.screenNumbers(doc)

	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(screened))
	if err != nil {
		return nil, fmt.Errorf("validate payload: %w", err)
	}

	for _, desc := range result.Errors() {
		field, reason := describe(desc)
		if _, seen := reasons[field]; !seen {
			reasons[field] = reason
		}
	}

	record := make(Record, len(s.fields))
	var problems []FieldError
	for _, f := range s.fields {
		if reason, ok := reasons[f]; ok {
			problems = append(problems, FieldError{Field: f, Reason: reason})
			continue
		}

		value, err := numeric.Parse(doc[f])
		if err != nil {
			problems = append(problems, FieldError{Field: f, Reason: err.Error()})
			continue
		}
		record[f] = value
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return record, nil
}

func describe(desc gojsonschema.ResultError) (string, string) {
	switch desc.Type() {
	case "required":
		if property, ok := desc.Details()["property"].(string); ok {
			return property, numeric.ErrMissing.Error()
		}
	case "invalid_type":
		return desc.Field(), "must be a number or a numeric string"
	}
	return desc.Field(), desc.Description()
}

// screenNumbers bounds every required JSON number before the schema
// validator sees it, since the validator does exact rational arithmetic on
// numbers. Rejected numbers are passed on as strings and reported through
// the returned reasons. doc itself is never modified.
func (s *Schema) screenNumbers(doc map[string]any) (map[string]string, map[string]any) {
	reasons := make(map[string]string)
	screened := doc
	for _, f := range s.fields {
		n, ok := doc[f].(json.Number)
		if !ok {
			continue
		}
		if err := numeric.Screen(n.String()); err != nil {
			if len(reasons) == 0 {
				screened = make(map[string]any, len(doc))
				for k, v := range doc {
					screened[k] = v
				}
			}
			screened[f] = n.String()
			reasons[f] = err.Error()
		}
	}
	return reasons, screened
}

// DecodeJSON reads a single JSON object, keeping numbers as json.Number so
// no precision is lost before parsing. An empty body decodes to an empty
// object; anything after the object is rejected.
func DecodeJSON(r io.Reader) (map[string]any, error) {
	blob, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(blob)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(blob))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, ErrNotObject
	}
	if doc == nil {
		return nil, ErrNotObject
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrNotObject
	}
	return doc, nil
}
