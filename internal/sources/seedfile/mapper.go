package seedfile

import (
	"strings"

	"github.com/spinshelf/spinshelf/internal/catalog"
)

// Mapper converts seed entries to catalog create inputs
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapItems converts seed entries, skipping ones with no title or type.
// Full validation is left to the catalog service.
func (m *Mapper) MapItems(config SeedConfig) []catalog.CreateInput {
	inputs := make([]catalog.CreateInput, 0, len(config.Items))
	for _, entry := range config.Items {
		if strings.TrimSpace(entry.Title) == "" || strings.TrimSpace(entry.Type) == "" {
			continue
		}
		inputs = append(inputs, catalog.CreateInput{
			Type:     strings.TrimSpace(entry.Type),
			Title:    entry.Title,
			Platform: entry.Platform,
			CoverURL: entry.CoverURL,
			Tags:     entry.Tags,
		})
	}
	return inputs
}
