// Package content serves article collections from the CMS, falling back to
// the local content store whenever a remote attempt fails.
package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fortunesite/internal/config"
	"fortunesite/internal/local"
	"fortunesite/internal/logger"
	"fortunesite/internal/microcms"
	"fortunesite/internal/models"
	"fortunesite/internal/normalizer"
	"fortunesite/internal/source"
)

// PostsCollection is the local collection searched for single posts.
const PostsCollection = "posts"

// ErrNotFound is returned by GetPostByID when no source holds the id.
var ErrNotFound = errors.New("post not found")

// ErrSourceUnavailable is reported for an adapter that was not configured.
var ErrSourceUnavailable = errors.New("content source not configured")

// FortuneFetcher lists and looks up fortune records.
type FortuneFetcher interface {
	List(ctx context.Context, f source.FortuneFilter) ([]models.FortuneRecord, error)
	GetByID(ctx context.Context, id string) (*models.FortuneRecord, error)
}

// NoticeFetcher lists and looks up notice records.
type NoticeFetcher interface {
	List(ctx context.Context, limit int) ([]models.NoticeRecord, error)
	GetByID(ctx context.Context, id string) (*models.NoticeRecord, error)
}

// BlogFetcher lists blog records.
type BlogFetcher interface {
	List(ctx context.Context, f source.BlogFilter) ([]models.BlogRecord, error)
}

// LocalReader reads publishable local records.
type LocalReader interface {
	ReadCollection(ctx context.Context, name string) ([]models.LocalRecord, error)
}

// Deps are the collaborators of an Aggregator. Nil remote adapters make
// every attempt on that content type fail.
type Deps struct {
	Mode        config.ModeSource
	Fortune     FortuneFetcher
	Notice      NoticeFetcher
	Blog        BlogFetcher
	Local       LocalReader
	Processor   *normalizer.Processor
	Collections map[string][]models.ContentType
	Logger      *logger.Logger
	Metrics     *Metrics
}

// Aggregator is the single entry point for article collections.
type Aggregator struct {
	mode        config.ModeSource
	fortune     FortuneFetcher
	notice      NoticeFetcher
	blog        BlogFetcher
	local       LocalReader
	processor   *normalizer.Processor
	collections map[string][]models.ContentType
	logger      *logger.Logger
	metrics     *Metrics
}

// attempt is the outcome of one source attempt. Posts are meaningful only
// when err is nil.
type attempt struct {
	posts []models.Post
	err   error
}

// New creates an aggregator.
func New(d Deps) *Aggregator {
	if d.Mode == nil {
		d.Mode = config.StaticMode(false)
	}

	if d.Processor == nil {
		d.Processor = normalizer.NewProcessor()
	}

	if d.Collections == nil {
		d.Collections = config.DefaultCollections()
	}

	if d.Logger == nil {
		d.Logger = logger.Discard()
	}

	return &Aggregator{
		mode:        d.Mode,
		fortune:     d.Fortune,
		notice:      d.Notice,
		blog:        d.Blog,
		local:       d.Local,
		processor:   d.Processor,
		collections: d.Collections,
		logger:      d.Logger.Component("content"),
		metrics:     d.Metrics,
	}
}

// GetContent returns the posts of a collection. It never fails: remote
// failures fall back to the local store once, and a failed local read
// yields an empty list.
func (a *Aggregator) GetContent(ctx context.Context, collection string) []models.Post {
	start := time.Now()
	mode := a.CurrentMode()

	defer a.metrics.observeDuration(string(mode), start)

	log := a.logger.With("collection", collection, "mode", mode)

	if mode == models.ModeLocal {
		res := a.localAttempt(ctx, collection)
		if res.err != nil {
			log.Error("local read failed", "cause", failureCause(res.err), "error", res.err)
			return []models.Post{}
		}

		return res.posts
	}

	types, ok := a.collections[collection]
	if !ok || len(types) == 0 {
		log.Debug("collection has no remote content types")
		return []models.Post{}
	}

	res := a.remoteAttempt(ctx, types)
	if res.err == nil {
		log.Debug("served from remote", "count", len(res.posts))
		return res.posts
	}

	log.Warn("remote fetch failed, falling back to local", "cause", failureCause(res.err), "error", res.err)
	a.metrics.observeFallback(collection)

	res = a.localAttempt(ctx, collection)
	if res.err != nil {
		log.Error("local fallback failed", "cause", failureCause(res.err), "error", res.err)
		return []models.Post{}
	}

	return res.posts
}

// remoteAttempt fetches every content type concurrently. Branches are not
// canceled when a sibling fails; all settle before the result is read.
func (a *Aggregator) remoteAttempt(ctx context.Context, types []models.ContentType) attempt {
	results := make([][]models.Post, len(types))

	var g errgroup.Group

	for i, t := range types {
		g.Go(func() error {
			posts, err := a.fetchRemote(ctx, t)
			a.metrics.observeAttempt(string(t), err)

			if err != nil {
				return fmt.Errorf("%s: %w", t, err)
			}

			results[i] = posts

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return attempt{err: err}
	}

	posts := []models.Post{}
	for _, r := range results {
		posts = append(posts, r...)
	}

	return attempt{posts: posts}
}

func (a *Aggregator) fetchRemote(ctx context.Context, t models.ContentType) ([]models.Post, error) {
	var (
		records []normalizer.Record
		err     error
	)

	switch t {
	case models.ContentFortune:
		if a.fortune == nil {
			return nil, ErrSourceUnavailable
		}

		var recs []models.FortuneRecord

		recs, err = a.fortune.List(ctx, source.FortuneFilter{})
		records = normalizer.Fortunes(recs)
	case models.ContentNotice:
		if a.notice == nil {
			return nil, ErrSourceUnavailable
		}

		var recs []models.NoticeRecord

		recs, err = a.notice.List(ctx, 0)
		records = normalizer.Notices(recs)
	case models.ContentBlog:
		if a.blog == nil {
			return nil, ErrSourceUnavailable
		}

		var recs []models.BlogRecord

		recs, err = a.blog.List(ctx, source.BlogFilter{})
		records = normalizer.Blogs(recs)
	default:
		return nil, fmt.Errorf("unknown content type %q", t)
	}

	if err != nil {
		return nil, err
	}

	return a.processor.ProcessAll(records)
}

func (a *Aggregator) localAttempt(ctx context.Context, collection string) attempt {
	if a.local == nil {
		err := fmt.Errorf("local: %w", ErrSourceUnavailable)
		a.metrics.observeAttempt(string(normalizer.KindLocal), err)

		return attempt{err: err}
	}

	recs, err := a.local.ReadCollection(ctx, collection)
	if err == nil {
		var posts []models.Post

		posts, err = a.processor.ProcessAll(normalizer.Locals(recs))
		if err == nil {
			a.metrics.observeAttempt(string(normalizer.KindLocal), nil)
			return attempt{posts: posts}
		}
	}

	a.metrics.observeAttempt(string(normalizer.KindLocal), err)

	return attempt{err: err}
}

// GetPostByID finds a single post. In remote mode the fortune endpoint is
// probed before the notice endpoint; ErrNotFound is returned only when both
// report the id missing. In local mode the local posts collection is
// searched by id and slug.
func (a *Aggregator) GetPostByID(ctx context.Context, id string) (models.Post, error) {
	if a.CurrentMode() == models.ModeLocal {
		return a.localPostByID(ctx, id)
	}

	post, fortuneErr := a.fortuneByID(ctx, id)
	if fortuneErr == nil {
		return post, nil
	}

	post, noticeErr := a.noticeByID(ctx, id)
	if noticeErr == nil {
		return post, nil
	}

	if isNotFound(fortuneErr) && isNotFound(noticeErr) {
		return models.Post{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	a.logger.Warn("post lookup failed", "id", id, "fortune_error", fortuneErr, "notice_error", noticeErr)

	return models.Post{}, errors.Join(fortuneErr, noticeErr)
}

func (a *Aggregator) fortuneByID(ctx context.Context, id string) (models.Post, error) {
	if a.fortune == nil {
		return models.Post{}, ErrSourceUnavailable
	}

	rec, err := a.fortune.GetByID(ctx, id)
	if err != nil {
		return models.Post{}, err
	}

	return a.processor.Process(normalizer.FromFortune(*rec))
}

func (a *Aggregator) noticeByID(ctx context.Context, id string) (models.Post, error) {
	if a.notice == nil {
		return models.Post{}, ErrSourceUnavailable
	}

	rec, err := a.notice.GetByID(ctx, id)
	if err != nil {
		return models.Post{}, err
	}

	return a.processor.Process(normalizer.FromNotice(*rec))
}

func (a *Aggregator) localPostByID(ctx context.Context, id string) (models.Post, error) {
	res := a.localAttempt(ctx, PostsCollection)
	if res.err != nil {
		return models.Post{}, res.err
	}

	for _, p := range res.posts {
		if p.ID == id || p.Slug == id {
			return p, nil
		}
	}

	return models.Post{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// isNotFound treats an unconfigured adapter like a missing record.
func isNotFound(err error) bool {
	return errors.Is(err, microcms.ErrNotFound) || errors.Is(err, ErrSourceUnavailable)
}

// failureCause names the error class for logs. Control flow never
// branches on it.
func failureCause(err error) string {
	switch {
	case errors.Is(err, normalizer.ErrNormalization):
		return "normalization"
	case errors.Is(err, local.ErrLocalRead):
		return "local_read"
	case errors.Is(err, microcms.ErrNotFound):
		return "not_found"
	case errors.Is(err, microcms.ErrTransport):
		return "transport"
	case errors.Is(err, ErrSourceUnavailable):
		return "unconfigured"
	}

	return "unknown"
}

// CurrentMode reports the mode a call started now would use.
func (a *Aggregator) CurrentMode() models.Mode {
	return models.ModeFor(a.mode.UseRemote())
}

// ToggleMode only logs the request. The mode comes from configuration and
// cannot be switched at runtime.
func (a *Aggregator) ToggleMode(useRemote bool) {
	a.logger.Info("mode toggle requested; edit the CMS configuration to switch",
		"requested", models.ModeFor(useRemote), "current", a.CurrentMode())
}
