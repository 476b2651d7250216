package patient

import (
	"strconv"
	"sync"
	"time"
)

const mrnPrefix = "MRN"

// MRNGenerator issues medical record numbers of the form MRN<millis>. Values
// are strictly increasing within a process even if the clock stalls or
// steps back; the unique column catches collisions between processes.
type MRNGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewMRNGenerator() *MRNGenerator {
	return &MRNGenerator{now: time.Now}
}

func (g *MRNGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return mrnPrefix + strconv.FormatInt(ms, 10)
}
