package model

import (
	"sort"
	"strings"
)

// Statistics summarizes a set of extracted entities.
// This is the aggregate view shown at the top of every report format.
type Statistics struct {
	// TotalEntities is the number of entity records, counting one per
	// (page, entity) pair.
	TotalEntities int `json:"total_entities"`

	// UniqueEntities is the number of distinct entity names.
	UniqueEntities int `json:"unique_entities"`

	// PagesAnalyzed is the number of distinct source pages that
	// contributed at least one entity.
	PagesAnalyzed int `json:"pages_analyzed"`

	// AvgSalience is the mean salience across all entity records.
	AvgSalience float64 `json:"avg_salience"`

	// MaxSalience is the highest salience observed.
	MaxSalience float64 `json:"max_salience"`

	// MinSalience is the lowest salience observed.
	MinSalience float64 `json:"min_salience"`

	// Categories is the number of distinct entity categories.
	Categories int `json:"categories"`

	// TopEntity is the name of the entity with the highest salience.
	// Empty when no entities were extracted.
	TopEntity string `json:"top_entity,omitempty"`
}

// NewStatistics computes statistics over the given entities.
// A nil or empty slice produces a zero-valued Statistics.
func NewStatistics(entities []Entity) *Statistics {
	s := &Statistics{}
	if len(entities) == 0 {
		return s
	}

	names := make(map[string]struct{})
	pages := make(map[string]struct{})
	categories := make(map[string]struct{})

	var sum float64
	s.MaxSalience = entities[0].Salience
	s.MinSalience = entities[0].Salience

	for _, e := range entities {
		names[e.Name] = struct{}{}
		pages[e.Source] = struct{}{}
		categories[e.Category] = struct{}{}
		sum += e.Salience

		// Strict comparison: when entities tie on the maximum
		// salience, the first one seen stays TopEntity.
		if e.Salience > s.MaxSalience {
			s.MaxSalience = e.Salience
			s.TopEntity = e.Name
		}
		if e.Salience < s.MinSalience {
			s.MinSalience = e.Salience
		}
	}

	// The first entity may hold the maximum; the loop only updates
	// TopEntity on a strict improvement.
	if s.TopEntity == "" {
		s.TopEntity = entities[0].Name
	}

	s.TotalEntities = len(entities)
	s.UniqueEntities = len(names)
	s.PagesAnalyzed = len(pages)
	s.Categories = len(categories)
	s.AvgSalience = RoundSalience(sum / float64(len(entities)))

	return s
}

// CategoryCounts returns the number of entity records per category.
// This feeds the category distribution chart in the Markdown report.
func CategoryCounts(entities []Entity) map[string]int {
	counts := make(map[string]int)
	for _, e := range entities {
		counts[e.Category]++
	}
	return counts
}

// PageCounts returns the number of entity records per source page.
func PageCounts(entities []Entity) map[string]int {
	counts := make(map[string]int)
	for _, e := range entities {
		counts[e.Source]++
	}
	return counts
}

// TopBySalience returns up to n entities sorted by descending salience.
// Ties are broken by name for deterministic output.
// The input slice is not modified.
func TopBySalience(entities []Entity, n int) []Entity {
	sorted := make([]Entity, len(entities))
	copy(sorted, entities)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Salience != sorted[j].Salience {
			return sorted[i].Salience > sorted[j].Salience
		}
		return sorted[i].Name < sorted[j].Name
	})

	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Filter selects entities by salience threshold, category membership,
// and a case-insensitive name search. Zero values disable a criterion.
type Filter struct {
	// MinSalience drops entities scoring below this value.
	MinSalience float64

	// Categories restricts results to these categories.
	// Empty means all categories are allowed.
	Categories []string

	// Query is a case-insensitive substring match against entity names.
	Query string
}

// Apply returns the entities matching all filter criteria, sorted by
// descending salience.
func (f Filter) Apply(entities []Entity) []Entity {
	allowed := make(map[string]struct{}, len(f.Categories))
	for _, c := range f.Categories {
		allowed[c] = struct{}{}
	}
	query := strings.ToLower(f.Query)

	matched := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if e.Salience < f.MinSalience {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[e.Category]; !ok {
				continue
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Name), query) {
			continue
		}
		matched = append(matched, e)
	}

	return TopBySalience(matched, 0)
}
