// Package catalog provides the static badge and module catalogs the
// progress engine consults. Metadata lives here, not in the domain: the
// engine attaches descriptors to awards but never invents them.
package catalog

import (
	"github.com/learnpath/learnpath-progress/internal/domain/learner"
)

// StaticBadgeCatalog serves badge descriptors from a built-in table.
type StaticBadgeCatalog struct {
	badges map[string]learner.BadgeDescriptor
}

var _ learner.BadgeCatalog = (*StaticBadgeCatalog)(nil)

// NewStaticBadgeCatalog returns the catalog with the built-in badge set.
func NewStaticBadgeCatalog() *StaticBadgeCatalog {
	c := &StaticBadgeCatalog{badges: make(map[string]learner.BadgeDescriptor)}
	for _, d := range builtinBadges() {
		c.badges[d.ID] = d
	}
	return c
}

// Badge returns the descriptor for id, or false if the catalog does not
// know it.
func (c *StaticBadgeCatalog) Badge(id string) (learner.BadgeDescriptor, bool) {
	d, ok := c.badges[id]
	return d, ok
}

// ModuleCompleteBadge builds the per-module completion badge descriptor.
// These are synthesized on demand because module ids are open-ended.
func (c *StaticBadgeCatalog) ModuleCompleteBadge(moduleID string) learner.BadgeDescriptor {
	return learner.BadgeDescriptor{
		ID:          learner.ModuleCompleteBadgeID(moduleID),
		Name:        "Module Complete",
		Description: "Completed every lesson in module " + moduleID,
		Icon:        "🏁",
		Category:    "module",
		XPBonus:     50,
	}
}

// Register adds or replaces a descriptor. Intended for deployments that
// extend the built-in set at startup.
func (c *StaticBadgeCatalog) Register(d learner.BadgeDescriptor) {
	if d.IsValid() {
		c.badges[d.ID] = d
	}
}

func builtinBadges() []learner.BadgeDescriptor {
	return []learner.BadgeDescriptor{
		{
			ID:          learner.BadgeFirstLesson,
			Name:        "First Steps",
			Description: "Complete your first lesson",
			Icon:        "🎯",
			Category:    "milestone",
			XPBonus:     10,
		},
		{
			ID:          learner.BadgeStreak7,
			Name:        "Week Warrior",
			Description: "Learn 7 days in a row",
			Icon:        "🔥",
			Category:    "streak",
			XPBonus:     25,
		},
		{
			ID:          learner.BadgeStreak30,
			Name:        "Iron Habit",
			Description: "Learn 30 days in a row",
			Icon:        "💎",
			Category:    "streak",
			XPBonus:     100,
		},
		{
			ID:          learner.BadgeLevel5,
			Name:        "Rising Star",
			Description: "Reach level 5",
			Icon:        "⭐",
			Category:    "level",
			XPBonus:     25,
		},
		{
			ID:          learner.BadgeLevel10,
			Name:        "Veteran",
			Description: "Reach level 10",
			Icon:        "🏆",
			Category:    "level",
			XPBonus:     75,
		},
	}
}
