package resilience

import (
	"context"
	"sync"

	infra "github.com/oqd/pdfservice/internal/infrastructure/printing"
)

var okPDF = []byte("%PDF-1.4\n%%EOF")

// scriptedRenderer returns the scripted errors in order, then succeeds.
type scriptedRenderer struct {
	mu     sync.Mutex
	errs   []error
	calls  int
	closed bool
}

func (r *scriptedRenderer) Render(_ context.Context, _ *infra.RenderRequest) (*infra.RenderResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &infra.RenderResult{PDFData: okPDF, PageCount: 1}, nil
}

func (r *scriptedRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *scriptedRenderer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// failingRenderer always fails with err.
type failingRenderer struct {
	err error
	scriptedRenderer
}

func (r *failingRenderer) Render(ctx context.Context, req *infra.RenderRequest) (*infra.RenderResult, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return nil, r.err
}

type countingObserver struct {
	mu          sync.Mutex
	retries     []int
	rateLimited int
	states      []string
}

func (o *countingObserver) ObserveRetry(attempt int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.retries = append(o.retries, attempt)
}

func (o *countingObserver) ObserveRateLimited() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rateLimited++
}

func (o *countingObserver) ObserveBreakerState(_, state string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states = append(o.states, state)
}
