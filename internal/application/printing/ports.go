package printing

import (
	"context"
	"time"
)

// HTMLRenderer produces report HTML from a named template.
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, name string, data any) (string, error)
}

// HTMLCache stores rendered HTML per region. Implementations apply the
// region's TTL.
type HTMLCache interface {
	Get(ctx context.Context, region, key string) (string, bool, error)
	Set(ctx context.Context, region, key, html string) error
}

// RenderObserver receives render and cache outcomes.
type RenderObserver interface {
	ObserveRender(kind string, outcome string, duration time.Duration)
	ObserveCache(region string, hit bool)
}

// Render outcomes reported to a RenderObserver
const (
	OutcomeSuccess       = "success"
	OutcomeInvalid       = "invalid"
	OutcomeTemplateError = "template_error"
	OutcomeRenderError   = "render_error"
)

type nopObserver struct{}

func (nopObserver) ObserveRender(string, string, time.Duration) {}
func (nopObserver) ObserveCache(string, bool)                   {}

// Observers fans render and cache outcomes out to every observer.
func Observers(observers ...RenderObserver) RenderObserver {
	var all multiObserver
	for _, o := range observers {
		if o != nil {
			all = append(all, o)
		}
	}
	return all
}

type multiObserver []RenderObserver

func (m multiObserver) ObserveRender(kind string, outcome string, duration time.Duration) {
	for _, o := range m {
		o.ObserveRender(kind, outcome, duration)
	}
}

func (m multiObserver) ObserveCache(region string, hit bool) {
	for _, o := range m {
		o.ObserveCache(region, hit)
	}
}
