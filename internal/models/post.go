// Package models defines the article records served by the CMS, the local
// content store, and the unified post handed to the site.
package models

import "time"

// DefaultBlogCategory is assigned to blog records without categories.
const DefaultBlogCategory = "未分類"

// NoticeCategory is the single category every notice carries.
const NoticeCategory = "お知らせ"

// Post is the unified article consumed by presentation code.
type Post struct {
	Date        time.Time `json:"date"`
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Content     string    `json:"content,omitempty"`
	Categories  []string  `json:"categories"`
}

// Mode reports which source serves content.
type Mode string

// Content modes.
const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// ModeFor returns the mode matching a remote-enabled flag.
func ModeFor(useRemote bool) Mode {
	if useRemote {
		return ModeRemote
	}

	return ModeLocal
}

// ContentType identifies a remote content family.
type ContentType string

// Remote content types.
const (
	ContentFortune ContentType = "fortune"
	ContentNotice  ContentType = "notice"
	ContentBlog    ContentType = "blog"
)

// Valid reports whether the content type is one the CMS serves.
func (c ContentType) Valid() bool {
	switch c {
	case ContentFortune, ContentNotice, ContentBlog:
		return true
	}

	return false
}
