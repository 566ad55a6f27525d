// Package options implements the functional options accepted by the load and
// save entry points of both dialects.
package options

import (
	"fmt"

	"github.com/arloliu/ctrbin/internal/logger"
	"github.com/arloliu/ctrbin/reloc"
)

// Option configures a value of type T.
type Option[T any] interface {
	apply(T) error
}

type optionFunc[T any] func(T) error

func (f optionFunc[T]) apply(target T) error {
	return f(target)
}

// New creates an option from a function that may reject its input.
func New[T any](fn func(T) error) Option[T] {
	return optionFunc[T](fn)
}

// NoError creates an option from a function that cannot fail.
func NoError[T any](fn func(T)) Option[T] {
	return optionFunc[T](func(target T) error {
		fn(target)
		return nil
	})
}

// Apply applies opts in order and stops at the first error. Nil options are
// skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for i, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return fmt.Errorf("option %d: %w", i, err)
		}
	}

	return nil
}

// Common holds the settings shared by every load and save call.
type Common struct {
	Logger logger.Logger
	// Stats, when set, receives the pointer reservation counters of a save
	// or the relocation counters of a load.
	Stats *reloc.Stats
}

// DefaultCommon returns the shared defaults: a discarding logger and no
// stats sink.
func DefaultCommon() Common {
	return Common{Logger: logger.Discard()}
}

// Shared returns c. Configs embedding Common satisfy Carrier through it.
func (c *Common) Shared() *Common { return c }

// Report copies stats into the configured sink, if any.
func (c *Common) Report(stats reloc.Stats) {
	if c.Stats != nil {
		*c.Stats = stats
	}
}

// Carrier is implemented by configs that embed Common.
type Carrier interface {
	Shared() *Common
}

// WithLogger sets the logger. A nil logger restores the discarding default.
func WithLogger[T Carrier](l logger.Logger) Option[T] {
	return NoError(func(target T) {
		if l == nil {
			l = logger.Discard()
		}
		target.Shared().Logger = l
	})
}

// WithStats sets the stats sink.
func WithStats[T Carrier](stats *reloc.Stats) Option[T] {
	return NoError(func(target T) {
		target.Shared().Stats = stats
	})
}
