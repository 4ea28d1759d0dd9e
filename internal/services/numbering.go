package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	OrderNumberPrefix     = "ORD"
	InventoryNumberPrefix = "INV"
	RecipeDeductionPrefix = "RECIPE"
	numberTimestampLayout = "20060102150405"
)

// NumberGenerator issues <PREFIX>-<tenantId>-<timestamp> identifiers. The
// timestamp carries microseconds from a clock that never repeats a value
// within the process, so two calls never collide.
type NumberGenerator struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{now: time.Now}
}

// Next returns the next number for prefix and tenant.
func (g *NumberGenerator) Next(prefix string, tenantID uuid.UUID) string {
	ts := g.tick()
	return fmt.Sprintf("%s-%s-%s%06d", prefix, tenantID, ts.Format(numberTimestampLayout), ts.Nanosecond()/1000)
}

func (g *NumberGenerator) tick() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.now().UTC().Truncate(time.Microsecond)
	if !t.After(g.last) {
		t = g.last.Add(time.Microsecond)
	}
	g.last = t
	return t
}
