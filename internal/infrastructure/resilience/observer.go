package resilience

// Observer receives resilience events, typically to export them as metrics.
type Observer interface {
	// ObserveRetry is called before each retry; attempt is the failed attempt
	ObserveRetry(attempt int)
	// ObserveRateLimited is called when a render is rejected for admission
	ObserveRateLimited()
	// ObserveBreakerState is called on every breaker state transition
	ObserveBreakerState(name, state string)
}

type nopObserver struct{}

func (nopObserver) ObserveRetry(int)                   {}
func (nopObserver) ObserveRateLimited()                {}
func (nopObserver) ObserveBreakerState(string, string) {}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}
