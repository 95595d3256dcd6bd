// Package limiter applies a fixed-window cap on code requests per origin.
package limiter

import (
	"time"

	"github.com/shandysiswandi/mailotp/internal/pkg/clock"
)

const (
	DefaultWindow = 60 * time.Second
	DefaultMax    = 5
)

type Options struct {
	Window time.Duration
	Max    int
	Clock  clock.Clocker
}

func (o Options) withDefaults() Options {
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	if o.Max <= 0 {
		o.Max = DefaultMax
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	return o
}
