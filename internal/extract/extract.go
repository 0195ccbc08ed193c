// Package extract turns fetched markup into records using declarative field rules.
package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrMissingField = errors.New("field not found")
	ErrInvalidField = errors.New("field could not be parsed")
)

// FieldError reports why the record at Index was rejected.
type FieldError struct {
	Index int
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("record %d: field %q: %v", e.Index, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Value is one extracted field. Texts is only filled for All matches.
type Value struct {
	Text  string
	Texts []string
	Int   int
}

// Record holds the fields that were found. Absent fields have no key.
type Record map[string]Value

func (r Record) Text(name string) (string, bool) {
	v, ok := r[name]
	return v.Text, ok
}

func (r Record) Int(name string) (int, bool) {
	v, ok := r[name]
	return v.Int, ok
}

// Extract applies rules to every container under root, in document order.
// A record missing a required field is left out and reported in failures;
// a missing or unparsable optional field is simply absent from its record.
func Extract(root *goquery.Selection, rules Rules) (records []Record, failures []error) {
	root.Find(rules.Container).Each(func(i int, container *goquery.Selection) {
		record := make(Record, len(rules.Fields))
		for _, rule := range rules.Fields {
			value, err := extractField(container, rule)
			if err == nil {
				record[rule.Name] = value
				continue
			}
			if rule.Required {
				failures = append(failures, &FieldError{Index: i, Field: rule.Name, Err: err})
				return
			}
		}
		records = append(records, record)
	})
	return records, failures
}

func extractField(container *goquery.Selection, rule FieldRule) (Value, error) {
	sel := container
	if rule.Selector != "" {
		sel = container.Find(rule.Selector)
	}
	if sel.Length() == 0 {
		return Value{}, ErrMissingField
	}

	if rule.Match == All {
		var texts []string
		sel.Each(func(_ int, s *goquery.Selection) {
			if raw, ok := rawValue(s, rule.Attr); ok {
				texts = append(texts, raw)
			}
		})
		if len(texts) == 0 {
			return Value{}, ErrMissingField
		}
		return Value{Text: texts[0], Texts: texts}, nil
	}

	raw, ok := rawValue(sel.First(), rule.Attr)
	if !ok {
		return Value{}, ErrMissingField
	}
	if rule.Kind == Text {
		return Value{Text: raw}, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidField, raw)
	}
	if (rule.Min != 0 && n < rule.Min) || (rule.Max != 0 && n > rule.Max) {
		return Value{}, fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidField, n, rule.Min, rule.Max)
	}
	return Value{Text: raw, Int: n}, nil
}

// rawValue reads an attribute or the whitespace-normalized text of s.
// Empty values count as missing.
func rawValue(s *goquery.Selection, attr string) (string, bool) {
	var raw string
	if attr != "" {
		v, ok := s.Attr(attr)
		if !ok {
			return "", false
		}
		raw = strings.TrimSpace(v)
	} else {
		raw = strings.Join(strings.Fields(s.Text()), " ")
	}
	return raw, raw != ""
}
