package models

// Image is the media object attached to CMS records.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// ImageURL returns the URL of img, or "" when img is nil.
func ImageURL(img *Image) string {
	if img == nil {
		return ""
	}

	return img.URL
}

// FortuneCategory is the publication cadence of a fortune article.
type FortuneCategory string

// Fortune categories.
const (
	FortuneWeekly     FortuneCategory = "weekly"
	FortuneSemiAnnual FortuneCategory = "semi-annual"
)

// FortuneRecord is a horoscope article from the fortune-articles endpoint.
type FortuneRecord struct {
	Image       *Image          `json:"image,omitempty"`
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	Description string          `json:"description,omitempty"`
	ZodiacSign  ZodiacSign      `json:"zodiacSign"`
	Category    FortuneCategory `json:"category"`
	PublishedAt string          `json:"publishedAt"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
	RevisedAt   string          `json:"revisedAt,omitempty"`
}

// NoticeRecord is an announcement from the notice-articles endpoint.
type NoticeRecord struct {
	Image       *Image `json:"image,omitempty"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
	PublishedAt string `json:"publishedAt"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	RevisedAt   string `json:"revisedAt,omitempty"`
}

// BlogRecord is an article from the blog endpoint. The CMS schema stores
// the display title under bookworm_copy.
type BlogRecord struct {
	Image       *Image   `json:"image,omitempty"`
	ID          string   `json:"id"`
	Copy        string   `json:"bookworm_copy"`
	Content     string   `json:"content,omitempty"`
	Description string   `json:"description,omitempty"`
	PublishedAt string   `json:"publishedAt"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
	RevisedAt   string   `json:"revisedAt,omitempty"`
	Category    []string `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
