package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/campus-helpdesk/helpdesk-service/internal/auth"
	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// ArticlesHandler serves the knowledge base: the reader-facing published
// views and the staff authoring portal.
type ArticlesHandler struct {
	articles *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articles *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{articles: articles}
}

// ListPublished GET /articles. ?q= searches title, content and keywords.
func (h *ArticlesHandler) ListPublished(c *fiber.Ctx) error {
	articles, err := h.articles.ListPublished(c.Context(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponses(articles)})
}

// GetPublished GET /articles/:id counts the view.
func (h *ArticlesHandler) GetPublished(c *fiber.Ctx) error {
	article, err := h.articles.GetPublished(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(article)})
}

// Feedback POST /articles/:id/feedback.
func (h *ArticlesHandler) Feedback(c *fiber.Ctx) error {
	var req dto.ArticleFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.articles.RecordFeedback(c.Context(), c.Params("id"), req.Helpful); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAll GET /staff/articles. ?status= narrows to one publication state.
func (h *ArticlesHandler) ListAll(c *fiber.Ctx) error {
	var status *domain.ArticleStatus
	if raw := c.Query("status"); raw != "" {
		parsed, ok := domain.ParseArticleStatus(raw)
		if !ok {
			return apperrors.NewValidationError("unknown article status", map[string]any{"status": raw})
		}
		status = &parsed
	}
	articles, err := h.articles.List(c.Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponses(articles)})
}

// Get GET /staff/articles/:id returns any status for authoring.
func (h *ArticlesHandler) Get(c *fiber.Ctx) error {
	article, err := h.articles.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(article)})
}

// Create POST /staff/articles stores a new draft.
func (h *ArticlesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.articles.Create(c.Context(), principal.User.Name, articleInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": articleResponse(article)})
}

// Update PUT /staff/articles/:id.
func (h *ArticlesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.articles.Update(c.Context(), c.Params("id"), principal.User.Name, articleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(article)})
}

// UpdateStatus PATCH /staff/articles/:id/status.
func (h *ArticlesHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateArticleStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.articles.UpdateStatus(c.Context(), c.Params("id"), req.Status, principal.User.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(article)})
}

// Delete DELETE /staff/articles/:id.
func (h *ArticlesHandler) Delete(c *fiber.Ctx) error {
	if err := h.articles.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats GET /staff/articles/stats.
func (h *ArticlesHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.articles.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// ListCategories GET /article-categories. ?all=true includes deactivated.
func (h *ArticlesHandler) ListCategories(c *fiber.Ctx) error {
	activeOnly := c.Query("all") != "true"
	categories, err := h.articles.ListCategories(c.Context(), activeOnly)
	if err != nil {
		return err
	}
	items := make([]dto.ArticleCategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, articleCategoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateCategory POST /article-categories.
func (h *ArticlesHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.ArticleCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.articles.CreateCategory(c.Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": articleCategoryResponse(category)})
}

// UpdateCategory PUT /article-categories/:id.
func (h *ArticlesHandler) UpdateCategory(c *fiber.Ctx) error {
	var req dto.ArticleCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	category, err := h.articles.UpdateCategory(c.Context(), c.Params("id"), req.Name, req.Description, active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleCategoryResponse(category)})
}

// DeleteCategory DELETE /article-categories/:id deactivates; the row stays.
func (h *ArticlesHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.articles.DeactivateCategory(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func articleInput(req dto.ArticleRequest) service.ArticleInput {
	return service.ArticleInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Keywords:   req.Keywords,
	}
}

func articleResponse(article *domain.Article) dto.ArticleResponse {
	return dto.ArticleResponse{
		ID:              article.ID,
		Title:           article.Title,
		Content:         article.Content,
		CategoryID:      article.CategoryID,
		Keywords:        article.Keywords,
		Status:          string(article.Status),
		ViewCount:       article.ViewCount,
		HelpfulCount:    article.HelpfulCount,
		NotHelpfulCount: article.NotHelpfulCount,
		Author:          article.Author,
		PublishedAt:     article.PublishedAt,
		CreatedAt:       article.CreatedAt,
		UpdatedAt:       article.UpdatedAt,
	}
}

func articleResponses(articles []domain.Article) []dto.ArticleResponse {
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, articleResponse(&articles[i]))
	}
	return items
}

func articleCategoryResponse(category *domain.ArticleCategory) dto.ArticleCategoryResponse {
	return dto.ArticleCategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Active:      category.Active,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
