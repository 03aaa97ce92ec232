package normalizer

import (
	"fmt"

	"fortunesite/internal/models"
)

// Processor validates and transforms records into posts.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
	}
}

// Process normalizes a single record.
func (p *Processor) Process(r Record) (models.Post, error) {
	if err := p.validator.Validate(r); err != nil {
		return models.Post{}, fmt.Errorf("validation failed: %w", err)
	}

	post, err := p.transformer.Transform(r)
	if err != nil {
		return models.Post{}, fmt.Errorf("transformation failed: %w", err)
	}

	return post, nil
}

// ProcessAll normalizes records in order. The first failing record aborts
// the batch and no posts are returned.
func (p *Processor) ProcessAll(records []Record) ([]models.Post, error) {
	posts := make([]models.Post, 0, len(records))

	for i, r := range records {
		post, err := p.Process(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		posts = append(posts, post)
	}

	return posts, nil
}

var defaultProcessor = NewProcessor()

// Normalize maps any record variant into a post.
func Normalize(r Record) (models.Post, error) {
	return defaultProcessor.Process(r)
}

// NormalizeFortune maps a fortune record into a post.
func NormalizeFortune(rec models.FortuneRecord) (models.Post, error) {
	return Normalize(FromFortune(rec))
}

// NormalizeNotice maps a notice record into a post.
func NormalizeNotice(rec models.NoticeRecord) (models.Post, error) {
	return Normalize(FromNotice(rec))
}

// NormalizeBlog maps a blog record into a post.
func NormalizeBlog(rec models.BlogRecord) (models.Post, error) {
	return Normalize(FromBlog(rec))
}

// NormalizeLocal maps a local content record into a post.
func NormalizeLocal(rec models.LocalRecord) (models.Post, error) {
	return Normalize(FromLocal(rec))
}
