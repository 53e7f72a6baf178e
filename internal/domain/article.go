package domain

import "time"

// ArticleStatus is the publication state of a knowledge-base article.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "DRAFT"
	ArticleStatusPublished ArticleStatus = "PUBLISHED"
	ArticleStatusArchived  ArticleStatus = "ARCHIVED"
)

// ParseArticleStatus validates a raw status value.
func ParseArticleStatus(raw string) (ArticleStatus, bool) {
	switch ArticleStatus(raw) {
	case ArticleStatusDraft, ArticleStatusPublished, ArticleStatusArchived:
		return ArticleStatus(raw), true
	default:
		return "", false
	}
}

// Article is a knowledge-base entry. Only PUBLISHED articles are visible
// outside the authoring portal; view and feedback counters are maintained
// on the published side.
type Article struct {
	ID              string
	Title           string
	Content         string
	CategoryID      *string
	Keywords        string
	Status          ArticleStatus
	ViewCount       int64
	HelpfulCount    int64
	NotHelpfulCount int64
	Author          string
	LastModifiedBy  string
	PublishedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ArticleCategory groups knowledge-base articles. Like ticket categories it
// is only ever deactivated, never removed.
type ArticleCategory struct {
	ID          string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
