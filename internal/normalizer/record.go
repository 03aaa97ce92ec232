// Package normalizer maps CMS and local content records into the unified
// post model.
package normalizer

import "fortunesite/internal/models"

// Kind names a record variant.
type Kind string

// Record variants.
const (
	KindFortune Kind = "fortune"
	KindNotice  Kind = "notice"
	KindBlog    Kind = "blog"
	KindLocal   Kind = "local"
)

// Record is one source record awaiting normalization. The set of variants
// is closed; build values with FromFortune, FromNotice, FromBlog or
// FromLocal.
type Record interface {
	Kind() Kind
	RecordID() string
	sealed()
}

type fortune struct{ rec models.FortuneRecord }

type notice struct{ rec models.NoticeRecord }

type blog struct{ rec models.BlogRecord }

type local struct{ rec models.LocalRecord }

// FromFortune wraps a fortune record.
func FromFortune(r models.FortuneRecord) Record { return fortune{rec: r} }

// FromNotice wraps a notice record.
func FromNotice(r models.NoticeRecord) Record { return notice{rec: r} }

// FromBlog wraps a blog record.
func FromBlog(r models.BlogRecord) Record { return blog{rec: r} }

// FromLocal wraps a local content record.
func FromLocal(r models.LocalRecord) Record { return local{rec: r} }

func (fortune) Kind() Kind { return KindFortune }
func (notice) Kind() Kind  { return KindNotice }
func (blog) Kind() Kind    { return KindBlog }
func (local) Kind() Kind   { return KindLocal }

func (r fortune) RecordID() string { return r.rec.ID }
func (r notice) RecordID() string  { return r.rec.ID }
func (r blog) RecordID() string    { return r.rec.ID }

func (r local) RecordID() string {
	if r.rec.ID != "" {
		return r.rec.ID
	}

	return r.rec.Slug
}

func (fortune) sealed() {}
func (notice) sealed()  {}
func (blog) sealed()    {}
func (local) sealed()   {}

// Fortunes wraps a slice of fortune records.
func Fortunes(rs []models.FortuneRecord) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = FromFortune(r)
	}

	return out
}

// Notices wraps a slice of notice records.
func Notices(rs []models.NoticeRecord) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = FromNotice(r)
	}

	return out
}

// Blogs wraps a slice of blog records.
func Blogs(rs []models.BlogRecord) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = FromBlog(r)
	}

	return out
}

// Locals wraps a slice of local records.
func Locals(rs []models.LocalRecord) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = FromLocal(r)
	}

	return out
}
