// Package main provides the aggregator command for inspecting content
// collections and single posts from the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"fortunesite/internal/config"
	"fortunesite/internal/content"
	"fortunesite/internal/formatter"
	"fortunesite/internal/logger"
	"fortunesite/internal/microcms"
	"fortunesite/internal/source"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	collection := flag.String("collection", content.PostsCollection, "Collection to fetch")
	id := flag.String("id", "", "Fetch a single post by id instead of a collection")
	format := flag.String("format", "table", "Output format: table or json")
	titleWidth := flag.Int("title-width", formatter.DefaultTitleWidth, "Maximum TITLE column width (negative disables truncation)")
	showMode := flag.Bool("mode", false, "Print the current content mode and exit")
	probe := flag.Bool("probe", false, "Check that every CMS endpoint answers and exit")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall deadline for the command")

	flag.Parse()

	if *format != "table" && *format != "json" {
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *format)
		flag.PrintDefaults()
		return 2
	}

	config.LoadDotEnv()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}

	log := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *probe {
		return runProbe(ctx, cfg, log)
	}

	agg, err := content.FromConfig(cfg, log, nil)
	if err != nil {
		log.Error("failed to build aggregator", "error", err)
		return 1
	}

	if *showMode {
		fmt.Println(agg.CurrentMode())
		return 0
	}

	if *id != "" {
		return runPost(ctx, agg, *id, *format)
	}

	posts := agg.GetContent(ctx, *collection)

	if *format == "json" {
		out, err := formatter.FormatJSON(posts)
		if err != nil {
			log.Error("failed to render posts", "error", err)
			return 1
		}

		fmt.Print(out)

		return 0
	}

	fmt.Print(formatter.FormatPosts(posts, formatter.Options{TitleWidth: *titleWidth}))
	fmt.Printf("\n%d posts from %s (%s mode)\n", len(posts), *collection, agg.CurrentMode())

	return 0
}

func runPost(ctx context.Context, agg *content.Aggregator, id, format string) int {
	post, err := agg.GetPostByID(ctx, id)
	if errors.Is(err, content.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "post %q not found\n", id)
		return 1
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ lookup failed: %v\n", err)
		return 1
	}

	if format == "json" {
		out, err := formatter.FormatJSON(post)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			return 1
		}

		fmt.Print(out)

		return 0
	}

	fmt.Print(formatter.FormatPost(post))

	return 0
}

func runProbe(ctx context.Context, cfg *config.Config, log *logger.Logger) int {
	client, err := microcms.NewClientFromConfig(cfg.Remote, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}

	results := client.Ping(ctx, source.FortuneEndpoint, source.NoticeEndpoint, source.BlogEndpoint)

	endpoints := make([]string, 0, len(results))
	for ep := range results {
		endpoints = append(endpoints, ep)
	}

	sort.Strings(endpoints)

	code := 0

	for _, ep := range endpoints {
		if err := results[ep]; err != nil {
			fmt.Printf("❌ %s: %v\n", ep, err)

			code = 1

			continue
		}

		fmt.Printf("✅ %s\n", ep)
	}

	return code
}
