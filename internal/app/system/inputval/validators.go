package inputval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Result collects validation failures for a payload.
type Result struct {
	errs []string
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.errs) > 0 }

// First returns the first failure message, or "".
func (r Result) First() string {
	if len(r.errs) == 0 {
		return ""
	}
	return r.errs[0]
}

// All returns every failure message.
func (r Result) All() []string { return r.errs }

// Validate checks the exported string fields of a struct against their
// `validate` tags. Supported rules: required, min=N, max=N (rune counts),
// email. The `label` tag names the field in messages; the field name is
// used when absent.
//
// Non-struct values and non-string fields are ignored, so payload structs
// can mix validated text fields with other data.
func Validate(v any) Result {
	var res Result

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return res
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || field.Type.Kind() != reflect.String {
			continue
		}

		label := field.Tag.Get("label")
		if label == "" {
			label = field.Name
		}
		value := rv.Field(i).String()

		for _, rule := range strings.Split(tag, ",") {
			rule = strings.TrimSpace(rule)
			switch {
			case rule == "required":
				if strings.TrimSpace(value) == "" {
					res.errs = append(res.errs, fmt.Sprintf("%s is required.", label))
				}
			case rule == "email":
				if value != "" && !IsValidEmail(value) {
					res.errs = append(res.errs, fmt.Sprintf("%s must be a valid email address.", label))
				}
			case strings.HasPrefix(rule, "max="):
				if n, err := strconv.Atoi(rule[4:]); err == nil && utf8.RuneCountInString(value) > n {
					res.errs = append(res.errs, fmt.Sprintf("%s must be at most %d characters.", label, n))
				}
			case strings.HasPrefix(rule, "min="):
				if n, err := strconv.Atoi(rule[4:]); err == nil && value != "" && utf8.RuneCountInString(value) < n {
					res.errs = append(res.errs, fmt.Sprintf("%s must be at least %d characters.", label, n))
				}
			}
		}
	}
	return res
}
