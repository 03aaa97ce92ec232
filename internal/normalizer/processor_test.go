package normalizer

import (
	"errors"
	"testing"

	"fortunesite/internal/models"
)

const testID = "f1"

func TestNewProcessor(t *testing.T) {
	p := NewProcessor()
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor()

	post, err := p.Process(FromFortune(models.FortuneRecord{
		ID:          testID,
		Title:       "牡羊座の週刊占い",
		ZodiacSign:  models.Aries,
		Category:    models.FortuneWeekly,
		PublishedAt: "2024-07-01T00:00:00.000Z",
	}))
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if post.ID != testID || post.Slug != testID {
		t.Errorf("ID/Slug = %s/%s, want %s", post.ID, post.Slug, testID)
	}
}

func TestProcessor_Process_ValidationError(t *testing.T) {
	p := NewProcessor()

	post, err := p.Process(FromNotice(models.NoticeRecord{PublishedAt: "2024-07-01T00:00:00Z"}))
	if err == nil {
		t.Fatal("Process expected error for invalid input")
	}

	if !errors.Is(err, ErrNormalization) || !errors.Is(err, ErrMissingID) {
		t.Errorf("unexpected error chain: %v", err)
	}

	if post.ID != "" {
		t.Error("Process expected zero post for invalid input")
	}
}

func TestProcessor_ProcessAll(t *testing.T) {
	p := NewProcessor()

	posts, err := p.ProcessAll(Notices([]models.NoticeRecord{
		{ID: "n1", PublishedAt: "2024-02-01T09:00:00Z"},
		{ID: "n2", PublishedAt: "2024-01-01T09:00:00Z"},
	}))
	if err != nil {
		t.Fatalf("ProcessAll failed: %v", err)
	}

	if len(posts) != 2 || posts[0].ID != "n1" || posts[1].ID != "n2" {
		t.Errorf("unexpected posts %+v", posts)
	}
}

func TestProcessor_ProcessAll_FirstFailureAborts(t *testing.T) {
	p := NewProcessor()

	posts, err := p.ProcessAll(Notices([]models.NoticeRecord{
		{ID: "n1", PublishedAt: "2024-02-01T09:00:00Z"},
		{ID: "n2", PublishedAt: "yesterday"},
	}))
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	if posts != nil {
		t.Errorf("expected nil posts, got %+v", posts)
	}
}

func TestProcessor_ProcessAll_Empty(t *testing.T) {
	posts, err := NewProcessor().ProcessAll(nil)
	if err != nil {
		t.Fatalf("ProcessAll failed: %v", err)
	}

	if posts == nil || len(posts) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", posts)
	}
}
