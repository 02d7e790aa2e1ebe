// Package notify delivers the daily recommendation to the user.
package notify

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Notifier delivers one titled message.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

type dateKey struct{}

// WithDate attaches the calendar date of the recommendation being sent.
func WithDate(ctx context.Context, date string) context.Context {
	return context.WithValue(ctx, dateKey{}, date)
}

// DateFromContext returns the date set by WithDate.
func DateFromContext(ctx context.Context) (string, bool) {
	date, ok := ctx.Value(dateKey{}).(string)
	return date, ok && date != ""
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, title, message string) error

func (f NotifierFunc) Notify(ctx context.Context, title, message string) error {
	return f(ctx, title, message)
}

// Named labels a notifier so fan-out errors say which channel failed.
type Named struct {
	Name string
	Notifier
}

// Multi sends to every notifier in order. A failing notifier does not
// stop the rest; all failures are returned together.
type Multi []Named

func (m Multi) Notify(ctx context.Context, title, message string) error {
	var result *multierror.Error
	for _, n := range m {
		if err := n.Notify(ctx, title, message); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", n.Name, err))
		}
	}
	return result.ErrorOrNil()
}
