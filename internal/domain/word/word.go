package word

import "sort"

// Record is one entry of the word catalog. The catalog is an external,
// read-only collaborator: records are parsed elsewhere and handed to the
// core as-is.
type Record struct {
	Game         string `json:"game"`
	Key          string `json:"word_key"`
	Word         string `json:"word"`
	Description  string `json:"desc_lv2"`
	CategoryID   string `json:"category_id"`
	CategoryJA   string `json:"category_label_ja"`
	CategoryKana string `json:"category_label_kana"`
	ImageFile    string `json:"image_file"`
	SortOrder    int    `json:"sort_order"`
	Enabled      bool   `json:"enabled"`
}

// ID returns the stable word identifier, unique per (game, word_key).
func (r Record) ID() string {
	return MakeID(r.Game, r.Key)
}

// MakeID builds a word identifier in the "{game}:{word_key}" form.
func MakeID(game, key string) string {
	return game + ":" + key
}

// Category is a grouping of catalog words, carrying the kid-facing labels.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Kana  string `json:"kana"`
}

// Catalog is the immutable set of enabled words. Disabled records are
// dropped at construction and invisible to every scheduling operation.
type Catalog struct {
	records []Record
	byID    map[string]Record
}

// NewCatalog keeps the enabled records, sorted by (categoryID, sortOrder)
// with the word ID as a deterministic tie-break. That ordering is the
// display order of both the Words and Review screens.
func NewCatalog(records []Record) *Catalog {
	c := &Catalog{byID: make(map[string]Record)}
	for _, r := range records {
		if !r.Enabled || r.CategoryID == "" {
			continue
		}
		c.records = append(c.records, r)
		c.byID[r.ID()] = r
	}
	sort.Slice(c.records, func(i, j int) bool {
		a, b := c.records[i], c.records[j]
		if a.CategoryID != b.CategoryID {
			return a.CategoryID < b.CategoryID
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.ID() < b.ID()
	})
	return c
}

// Records returns all enabled words in display order. The slice is shared;
// callers must not mutate it.
func (c *Catalog) Records() []Record {
	return c.records
}

// Get looks up an enabled word by its identifier.
func (c *Catalog) Get(id string) (Record, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// Len reports the number of enabled words.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Categories derives the sorted category list from the enabled records,
// keeping the labels of the first record seen per category.
func (c *Catalog) Categories() []Category {
	seen := make(map[string]bool)
	var out []Category
	for _, r := range c.records {
		if seen[r.CategoryID] {
			continue
		}
		seen[r.CategoryID] = true
		label := r.CategoryJA
		if label == "" {
			label = r.CategoryID
		}
		out = append(out, Category{ID: r.CategoryID, Label: label, Kana: r.CategoryKana})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
