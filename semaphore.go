package trialbench

import "sync"

// Semaphore is a counting semaphore with FIFO fairness. Release hands a
// permit directly to the oldest waiter instead of incrementing the
// count and letting goroutines race, so no wakeup is ever missed and
// waiters resume in arrival order.
//
// Acquire never fails or times out: the runner issues exactly one
// Acquire per trial and every trial releases on exit, so every waiter
// eventually resumes.
type Semaphore struct {
	mu      sync.Mutex
	permits int
	waiters []chan struct{}
}

// NewSemaphore returns a semaphore with the given number of permits.
func NewSemaphore(permits int) *Semaphore {
	return &Semaphore{permits: permits}
}

// Acquire blocks until a permit is available.
func (s *Semaphore) Acquire() {
	s.mu.Lock()
	if s.permits > 0 {
		s.permits--
		s.mu.Unlock()
		return
	}
	ch := make(chan struct{})
	s.waiters = append(s.waiters, ch)
	s.mu.Unlock()
	<-ch
}

// Release frees a permit. The hand-off-or-increment decision happens
// under the lock, so a concurrent Acquire can never slip between them.
func (s *Semaphore) Release() {
	s.mu.Lock()
	if len(s.waiters) > 0 {
		ch := s.waiters[0]
		s.waiters = s.waiters[1:]
		s.mu.Unlock()
		close(ch)
		return
	}
	s.permits++
	s.mu.Unlock()
}
