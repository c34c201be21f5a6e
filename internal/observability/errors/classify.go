// Package errors classifies error values into stable metric labels.
package errors

import (
	"context"
	stderrors "errors"
	"net"
	"reflect"
	"strings"
)

// Classify reduces an error to a short label suitable for metric tags.
// Wrapped errors are inspected through the errors.As/Is chain before
// falling back to the dynamic type name.
func Classify(err error) string {
	if err == nil {
		return "none"
	}

	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return "deadline_exceeded"
	case stderrors.Is(err, context.Canceled):
		return "canceled"
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		if netErr.Timeout() {
			return "net_timeout"
		}
		return "net_error"
	}

	type coded interface{ Code() string }
	var withCode coded
	if stderrors.As(err, &withCode) {
		return withCode.Code()
	}

	return typeName(err)
}

func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "unknown"
	}
	return toSnake(t.Name())
}

func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
