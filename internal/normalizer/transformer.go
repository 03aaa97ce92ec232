package normalizer

import (
	"fortunesite/internal/models"
)

// Category labels for fortune cadences.
const (
	WeeklyLabel     = "週刊占い"
	SemiAnnualLabel = "2024下半期"
)

var fortuneCategoryLabels = map[models.FortuneCategory]string{
	models.FortuneWeekly:     WeeklyLabel,
	models.FortuneSemiAnnual: SemiAnnualLabel,
}

// Transformer maps validated records into posts.
type Transformer struct{}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform converts a record into a post. Only date parsing can fail here;
// shape checks belong to the Validator.
func (t *Transformer) Transform(r Record) (models.Post, error) {
	switch rec := r.(type) {
	case fortune:
		return t.fortune(r, rec.rec)
	case notice:
		return t.notice(r, rec.rec)
	case blog:
		return t.blog(r, rec.rec)
	case local:
		return t.local(r, rec.rec)
	}

	return models.Post{}, &NormalizationError{Field: "record", Err: ErrUnknownRecord}
}

func (t *Transformer) fortune(r Record, rec models.FortuneRecord) (models.Post, error) {
	date, err := parsePublishedAt(rec.PublishedAt)
	if err != nil {
		return models.Post{}, fieldError(r, "publishedAt", err)
	}

	label, ok := fortuneCategoryLabels[rec.Category]
	if !ok {
		return models.Post{}, fieldError(r, "category", ErrUnknownCategory)
	}

	return models.Post{
		ID:          rec.ID,
		Slug:        rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Date:        date,
		Image:       models.ImageURL(rec.Image),
		Categories:  []string{label},
		Content:     rec.Content,
	}, nil
}

func (t *Transformer) notice(r Record, rec models.NoticeRecord) (models.Post, error) {
	date, err := parsePublishedAt(rec.PublishedAt)
	if err != nil {
		return models.Post{}, fieldError(r, "publishedAt", err)
	}

	return models.Post{
		ID:          rec.ID,
		Slug:        rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Date:        date,
		Image:       models.ImageURL(rec.Image),
		Categories:  []string{models.NoticeCategory},
		Content:     rec.Content,
	}, nil
}

func (t *Transformer) blog(r Record, rec models.BlogRecord) (models.Post, error) {
	date, err := parsePublishedAt(rec.PublishedAt)
	if err != nil {
		return models.Post{}, fieldError(r, "publishedAt", err)
	}

	categories := []string{models.DefaultBlogCategory}
	if len(rec.Category) > 0 {
		categories = append([]string(nil), rec.Category...)
	}

	return models.Post{
		ID:          rec.ID,
		Slug:        rec.ID,
		Title:       rec.Copy,
		Description: rec.Description,
		Date:        date,
		Image:       models.ImageURL(rec.Image),
		Categories:  categories,
		Content:     rec.Content,
	}, nil
}

// local keeps the source categories as-is. Unlike blog records, a local
// entry without categories gets an empty list rather than the default label.
func (t *Transformer) local(r Record, rec models.LocalRecord) (models.Post, error) {
	date, err := parseLocalDate(rec.Data.Date)
	if err != nil {
		return models.Post{}, fieldError(r, "date", err)
	}

	id := r.RecordID()

	slug := rec.Slug
	if slug == "" {
		slug = rec.Data.Slug
	}

	if slug == "" {
		slug = id
	}

	title := rec.Data.Title
	if title == "" {
		title = rec.Data.MetaTitle
	}

	categories := make([]string, 0, len(rec.Data.Categories))
	categories = append(categories, rec.Data.Categories...)

	return models.Post{
		ID:          id,
		Slug:        slug,
		Title:       title,
		Description: rec.Data.Description,
		Date:        date,
		Image:       rec.Data.Image,
		Categories:  categories,
		Content:     rec.Body,
	}, nil
}
