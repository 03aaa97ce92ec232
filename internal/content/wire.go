package content

import (
	"errors"
	"fmt"

	"fortunesite/internal/config"
	"fortunesite/internal/local"
	"fortunesite/internal/logger"
	"fortunesite/internal/microcms"
	"fortunesite/internal/source"
)

// FromConfig builds an aggregator with the CMS client and local store the
// configuration describes. Missing CMS credentials leave the remote
// adapters unset, so remote attempts fail and fall back to local content.
func FromConfig(cfg *config.Config, log *logger.Logger, metrics *Metrics) (*Aggregator, error) {
	return FromConfigWithMode(cfg, cfg.ModeSource(), log, metrics)
}

// FromConfigWithMode is FromConfig with the mode source supplied by the
// caller, e.g. a config.ModeWatcher in long-running processes.
func FromConfigWithMode(cfg *config.Config, mode config.ModeSource, log *logger.Logger, metrics *Metrics) (*Aggregator, error) {
	if log == nil {
		log = logger.Discard()
	}

	deps := Deps{
		Mode:        mode,
		Local:       local.NewSource(local.NewDirStore(cfg.Local.ContentDir), cfg.Local.IndexPrefix, log),
		Collections: cfg.CMS.Collections,
		Logger:      log,
		Metrics:     metrics,
	}

	client, err := microcms.NewClientFromConfig(cfg.Remote, log)

	switch {
	case err == nil:
		limits := cfg.Remote.Limits
		deps.Fortune = source.NewFortuneSource(client, limits.Fortune, log)
		deps.Notice = source.NewNoticeSource(client, limits.Notice, log)
		deps.Blog = source.NewBlogSource(client, limits.Blog, log)
	case errors.Is(err, microcms.ErrMissingServiceDomain), errors.Is(err, microcms.ErrMissingAPIKey):
		log.Info("CMS credentials not set, serving local content only")
	default:
		return nil, fmt.Errorf("failed to create CMS client: %w", err)
	}

	return New(deps), nil
}
