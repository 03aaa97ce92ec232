// Package source provides the per-content-type adapters over the CMS
// transport: fortune, notice and blog articles.
package source

import (
	"context"
	"fmt"

	"fortunesite/internal/logger"
	"fortunesite/internal/microcms"
	"fortunesite/internal/models"
)

// CMS endpoints.
const (
	FortuneEndpoint = "fortune-articles"
	NoticeEndpoint  = "notice-articles"
	BlogEndpoint    = "blog"
)

// Default page sizes.
const (
	DefaultFortuneLimit = 50
	DefaultNoticeLimit  = 10
	DefaultBlogLimit    = 50
)

// endpoint wraps the transport for one CMS endpoint and traces each call.
type endpoint struct {
	transport microcms.Transport
	logger    *logger.Logger
	name      string
}

func newEndpoint(t microcms.Transport, name string, log *logger.Logger) endpoint {
	if log == nil {
		log = logger.Discard()
	}

	return endpoint{
		transport: t,
		name:      name,
		logger:    log.With("component", "source", "endpoint", name),
	}
}

func listRecords[T any](ctx context.Context, e endpoint, q microcms.Query) ([]T, error) {
	e.logger.Debug("request issued", "op", "list", "limit", q.Limit, "filters", q.Filters.String())

	resp, err := e.transport.List(ctx, e.name, q)
	if err != nil {
		e.logger.Warn("request failed", "op", "list", "error", err)
		return nil, fmt.Errorf("list %s: %w", e.name, err)
	}

	items, err := microcms.DecodeContents[T](resp)
	if err != nil {
		e.logger.Warn("request failed", "op", "list", "error", err)
		return nil, fmt.Errorf("list %s: %w", e.name, err)
	}

	e.logger.Debug("request succeeded", "op", "list", "count", len(items), "total", resp.TotalCount)

	return items, nil
}

func getRecord[T any](ctx context.Context, e endpoint, id string) (*T, error) {
	e.logger.Debug("request issued", "op", "get", "id", id)

	raw, err := e.transport.Get(ctx, e.name, id)
	if err != nil {
		e.logger.Debug("request failed", "op", "get", "id", id, "error", err)
		return nil, fmt.Errorf("get %s: %w", e.name, err)
	}

	rec, err := microcms.Decode[T](raw)
	if err != nil {
		e.logger.Warn("request failed", "op", "get", "id", id, "error", err)
		return nil, fmt.Errorf("get %s: %w", e.name, err)
	}

	e.logger.Debug("request succeeded", "op", "get", "id", id)

	return rec, nil
}

func limitOr(limit, fallback int) int {
	if limit > 0 {
		return limit
	}

	return fallback
}

// FortuneFilter narrows a fortune listing. Zero values mean no constraint.
type FortuneFilter struct {
	Category   models.FortuneCategory
	ZodiacSign models.ZodiacSign
	Limit      int
}

// FortuneSource fetches horoscope articles.
type FortuneSource struct {
	ep           endpoint
	defaultLimit int
}

// NewFortuneSource creates a fortune adapter. A non-positive limit uses
// DefaultFortuneLimit.
func NewFortuneSource(t microcms.Transport, defaultLimit int, log *logger.Logger) *FortuneSource {
	return &FortuneSource{
		ep:           newEndpoint(t, FortuneEndpoint, log),
		defaultLimit: limitOr(defaultLimit, DefaultFortuneLimit),
	}
}

// List returns fortune records newest first.
func (s *FortuneSource) List(ctx context.Context, f FortuneFilter) ([]models.FortuneRecord, error) {
	var filters microcms.Filter

	if f.Category != "" {
		filters = filters.And(microcms.Equals("category", string(f.Category)))
	}

	if f.ZodiacSign != "" {
		filters = filters.And(microcms.Equals("zodiacSign", string(f.ZodiacSign)))
	}

	return listRecords[models.FortuneRecord](ctx, s.ep, microcms.Query{
		Limit:   limitOr(f.Limit, s.defaultLimit),
		Orders:  microcms.OrderPublishedDesc,
		Filters: filters,
	})
}

// GetByID returns one fortune record; a missing id wraps microcms.ErrNotFound.
func (s *FortuneSource) GetByID(ctx context.Context, id string) (*models.FortuneRecord, error) {
	return getRecord[models.FortuneRecord](ctx, s.ep, id)
}

// NoticeSource fetches announcements.
type NoticeSource struct {
	ep           endpoint
	defaultLimit int
}

// NewNoticeSource creates a notice adapter. A non-positive limit uses
// DefaultNoticeLimit.
func NewNoticeSource(t microcms.Transport, defaultLimit int, log *logger.Logger) *NoticeSource {
	return &NoticeSource{
		ep:           newEndpoint(t, NoticeEndpoint, log),
		defaultLimit: limitOr(defaultLimit, DefaultNoticeLimit),
	}
}

// List returns notice records newest first.
func (s *NoticeSource) List(ctx context.Context, limit int) ([]models.NoticeRecord, error) {
	return listRecords[models.NoticeRecord](ctx, s.ep, microcms.Query{
		Limit:  limitOr(limit, s.defaultLimit),
		Orders: microcms.OrderPublishedDesc,
	})
}

// GetByID returns one notice record; a missing id wraps microcms.ErrNotFound.
func (s *NoticeSource) GetByID(ctx context.Context, id string) (*models.NoticeRecord, error) {
	return getRecord[models.NoticeRecord](ctx, s.ep, id)
}

// BlogFilter narrows a blog listing.
type BlogFilter struct {
	Category string
	Limit    int
}

// BlogSource fetches blog articles.
type BlogSource struct {
	ep           endpoint
	defaultLimit int
}

// NewBlogSource creates a blog adapter. A non-positive limit uses
// DefaultBlogLimit.
func NewBlogSource(t microcms.Transport, defaultLimit int, log *logger.Logger) *BlogSource {
	return &BlogSource{
		ep:           newEndpoint(t, BlogEndpoint, log),
		defaultLimit: limitOr(defaultLimit, DefaultBlogLimit),
	}
}

// List returns blog records newest first.
func (s *BlogSource) List(ctx context.Context, f BlogFilter) ([]models.BlogRecord, error) {
	var filters microcms.Filter
	if f.Category != "" {
		filters = filters.And(microcms.Contains("category", f.Category))
	}

	return listRecords[models.BlogRecord](ctx, s.ep, microcms.Query{
		Limit:   limitOr(f.Limit, s.defaultLimit),
		Orders:  microcms.OrderPublishedDesc,
		Filters: filters,
	})
}

// GetByID returns one blog record; a missing id wraps microcms.ErrNotFound.
func (s *BlogSource) GetByID(ctx context.Context, id string) (*models.BlogRecord, error) {
	return getRecord[models.BlogRecord](ctx, s.ep, id)
}
