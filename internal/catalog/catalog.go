// Package catalog loads the word catalog file the scheduler consumes.
// The catalog is read once at startup; a load failure is fatal because the
// scheduling core must not fabricate a word list.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tapspeak/backend/internal/domain/word"
)

// Load reads words.json and returns the catalog of enabled words.
// The file is either a bare array of records or an object with a "words"
// array, matching both shapes the app has shipped with.
func Load(path string) (*word.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word catalog: %w", err)
	}

	var records []word.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		var wrapped struct {
			Words []word.Record `json:"words"`
		}
		if err2 := json.Unmarshal(raw, &wrapped); err2 != nil {
			return nil, fmt.Errorf("parse word catalog %s: %w", path, err)
		}
		records = wrapped.Words
	}

	return word.NewCatalog(records), nil
}
