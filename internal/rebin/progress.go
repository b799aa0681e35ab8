package rebin

import "sync"

// Progress receives one notification per completed output row. The engine
// serializes calls, so implementations need not be safe for concurrent use.
type Progress interface {
	Report(done, total int)
}

// ProgressFunc adapts a function to the Progress interface.
type ProgressFunc func(done, total int)

// Report calls f(done, total).
func (f ProgressFunc) Report(done, total int) { f(done, total) }

// serialProgress counts completed rows and forwards them to an underlying
// Progress under a mutex.
type serialProgress struct {
	mu       sync.Mutex
	done     int
	total    int
	logEvery int
	next     Progress
}

func newSerialProgress(next Progress, total, logEvery int) *serialProgress {
	return &serialProgress{next: next, total: total, logEvery: logEvery}
}

func (p *serialProgress) rowDone() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if p.logEvery > 0 && (p.done%p.logEvery == 0 || p.done == p.total) {
		diagf("progress: %d/%d rows", p.done, p.total)
	}
	if p.next != nil {
		p.next.Report(p.done, p.total)
	}
}

func (p *serialProgress) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}
