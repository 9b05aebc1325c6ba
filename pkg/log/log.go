// Package log carries a logrus logger on a context.
package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// WithLogger returns a copy of ctx carrying ll.
func WithLogger(ctx context.Context, ll logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, ll)
}

// FromContext returns the logger stored on ctx, or the standard logger bound
// to ctx if none was set.
func FromContext(ctx context.Context) logrus.FieldLogger {
	if ll, ok := ctx.Value(ctxKey{}).(logrus.FieldLogger); ok && ll != nil {
		return ll
	}
	return logrus.WithContext(ctx)
}
