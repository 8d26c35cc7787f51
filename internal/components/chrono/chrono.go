package chrono

import (
	"sync"
	"time"
)

// API is where components read the current time from, so tests can control it.
type API interface {
	Now() time.Time
}

// StandardImpl is the wall clock.
type StandardImpl struct{}

func (StandardImpl) Now() time.Time {
	return time.Now()
}

// Manual is a clock that only moves when told to. Step is added after every
// call to Now, a zero Step freezes time.
type Manual struct {
	mutex   sync.Mutex
	current time.Time
	Step    time.Duration
}

func NewManual(start time.Time, step time.Duration) *Manual {
	return &Manual{current: start, Step: step}
}

func (m *Manual) Now() time.Time {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	now := m.current
	m.current = m.current.Add(m.Step)
	return now
}

func (m *Manual) Advance(d time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.current = m.current.Add(d)
}
