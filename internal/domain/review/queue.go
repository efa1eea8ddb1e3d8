package review

import (
	"github.com/tapspeak/backend/internal/domain/progress"
	"github.com/tapspeak/backend/internal/domain/word"
)

// Filters narrows a word listing. An empty slice means "everything
// selected"; multiple selections combine with OR semantics.
type Filters struct {
	Categories  []string
	StageGroups []progress.StageGroup
}

func (f Filters) categoryAllowed(id string) bool {
	if len(f.Categories) == 0 {
		return true
	}
	for _, c := range f.Categories {
		if c == id {
			return true
		}
	}
	return false
}

func (f Filters) groupAllowed(g progress.StageGroup) bool {
	if len(f.StageGroups) == 0 {
		return true
	}
	for _, sel := range f.StageGroups {
		if sel == g {
			return true
		}
	}
	return false
}

// DueWords computes today's review queue: every enrolled, enabled word
// whose progress is due today, narrowed by the category and stage-group
// filters. Pure function of its inputs; the result keeps the catalog's
// display order (categoryID, sortOrder, word ID).
func DueWords(catalog *word.Catalog, prog map[string]progress.Progress, today progress.Date, f Filters) []word.Record {
	out := make([]word.Record, 0)
	for _, w := range catalog.Records() {
		p, enrolled := prog[w.ID()]
		if !enrolled {
			continue
		}
		p = p.Normalize(today)
		if !p.IsDue(today) {
			continue
		}
		if !f.categoryAllowed(w.CategoryID) {
			continue
		}
		if !f.groupAllowed(progress.StageGroupOf(p.Stage)) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// FilterWords is the word-mode listing: the whole enabled catalog narrowed
// by the same filters, with unenrolled words forming their own pseudo-bucket
// for the stage filter. Dueness plays no part here.
func FilterWords(catalog *word.Catalog, prog map[string]progress.Progress, f Filters) []word.Record {
	out := make([]word.Record, 0)
	for _, w := range catalog.Records() {
		if !f.categoryAllowed(w.CategoryID) {
			continue
		}
		group := progress.GroupUnenrolled
		if p, enrolled := prog[w.ID()]; enrolled {
			group = progress.StageGroupOf(p.Stage)
		}
		if !f.groupAllowed(group) {
			continue
		}
		out = append(out, w)
	}
	return out
}
