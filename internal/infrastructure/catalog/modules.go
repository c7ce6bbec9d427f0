package catalog

import (
	"context"
	"sync"

	"github.com/learnpath/learnpath-progress/internal/domain/learner"
)

// StaticModuleCatalog serves the canonical lesson count per module from an
// in-memory table. The progress engine treats this number as authoritative
// even when it disagrees with recorded lesson completions.
type StaticModuleCatalog struct {
	mu      sync.RWMutex
	modules map[string]int
}

var _ learner.ModuleCatalog = (*StaticModuleCatalog)(nil)

// NewStaticModuleCatalog creates a catalog from module id to lesson count.
// A nil map yields an empty catalog.
func NewStaticModuleCatalog(modules map[string]int) *StaticModuleCatalog {
	c := &StaticModuleCatalog{modules: make(map[string]int, len(modules))}
	for id, total := range modules {
		if total > 0 {
			c.modules[id] = total
		}
	}
	return c
}

// TotalLessons returns the module's lesson count, 0 for unknown modules.
func (c *StaticModuleCatalog) TotalLessons(_ context.Context, moduleID string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.modules[moduleID], nil
}

// SetTotalLessons adds or updates a module's lesson count.
func (c *StaticModuleCatalog) SetTotalLessons(moduleID string, total int) {
	if moduleID == "" || total <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modules[moduleID] = total
}
