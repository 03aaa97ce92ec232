package local

import (
	"context"
	"strings"

	"fortunesite/internal/logger"
	"fortunesite/internal/models"
)

// DefaultIndexPrefix marks entries that are index pages rather than articles.
const DefaultIndexPrefix = "-"

// Source reads a collection and drops drafts and index entries.
type Source struct {
	store       Store
	logger      *logger.Logger
	indexPrefix string
}

// NewSource creates a local source. An empty prefix selects DefaultIndexPrefix.
func NewSource(store Store, indexPrefix string, log *logger.Logger) *Source {
	if indexPrefix == "" {
		indexPrefix = DefaultIndexPrefix
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Source{
		store:       store,
		indexPrefix: indexPrefix,
		logger:      log.Component("local"),
	}
}

// ReadCollection returns the publishable entries of a collection.
func (s *Source) ReadCollection(ctx context.Context, name string) ([]models.LocalRecord, error) {
	records, err := s.store.ReadCollection(ctx, name)
	if err != nil {
		s.logger.Warn("collection read failed", "collection", name, "error", err)
		return nil, err
	}

	kept := make([]models.LocalRecord, 0, len(records))

	for _, rec := range records {
		if rec.Data.Draft || s.isIndex(rec.ID) {
			continue
		}

		kept = append(kept, rec)
	}

	s.logger.Debug("collection read", "collection", name, "total", len(records), "kept", len(kept))

	return kept, nil
}

// isIndex reports whether id starts with the index prefix. Nested entries
// such as "weekly/-special" are articles.
func (s *Source) isIndex(id string) bool {
	return strings.HasPrefix(id, s.indexPrefix)
}
