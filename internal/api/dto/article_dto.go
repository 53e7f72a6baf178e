package dto

import "time"

// ArticleRequest creates or updates a knowledge-base article.
type ArticleRequest struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	CategoryID *string `json:"category_id,omitempty"`
	Keywords   string  `json:"keywords"`
}

// UpdateArticleStatusRequest moves an article between publication states.
type UpdateArticleStatusRequest struct {
	Status string `json:"status"`
}

// ArticleFeedbackRequest records a helpful / not-helpful vote.
type ArticleFeedbackRequest struct {
	Helpful bool `json:"helpful"`
}

// ArticleResponse is the API shape of an article.
type ArticleResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	CategoryID      *string    `json:"category_id,omitempty"`
	Keywords        string     `json:"keywords"`
	Status          string     `json:"status"`
	ViewCount       int64      `json:"view_count"`
	HelpfulCount    int64      `json:"helpful_count"`
	NotHelpfulCount int64      `json:"not_helpful_count"`
	Author          string     `json:"author"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ArticleCategoryRequest creates or updates a knowledge-base category.
type ArticleCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      *bool  `json:"active,omitempty"`
}

// ArticleCategoryResponse is the API shape of a knowledge-base category.
type ArticleCategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TemplateRequest creates or updates a response template.
type TemplateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// TemplateResponse is the API shape of a response template.
type TemplateResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"created_by"`
	Shared    bool      `json:"shared"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TemplateReplyRequest posts a canned response into a ticket thread.
type TemplateReplyRequest struct {
	TemplateID string `json:"template_id"`
}
