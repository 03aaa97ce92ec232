package models

// LocalRecord is one entry of a file-based content collection.
type LocalRecord struct {
	ID   string    `json:"id"`
	Slug string    `json:"slug"`
	Body string    `json:"body"`
	Data LocalData `json:"data"`
}

// LocalData is the front matter of a local entry.
type LocalData struct {
	Title       string   `yaml:"title" json:"title"`
	MetaTitle   string   `yaml:"meta_title" json:"meta_title,omitempty"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Date        string   `yaml:"date" json:"date"`
	Image       string   `yaml:"image" json:"image,omitempty"`
	Slug        string   `yaml:"slug" json:"slug,omitempty"`
	Categories  []string `yaml:"categories" json:"categories,omitempty"`
	Draft       bool     `yaml:"draft" json:"draft,omitempty"`
}
