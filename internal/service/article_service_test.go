package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

type articleFixture struct {
	service    *ArticleService
	articles   *fakeArticleRepo
	categories *fakeArticleCategoryRepo
}

func newArticleFixture(t *testing.T) *articleFixture {
	t.Helper()
	articles := newFakeArticleRepo()
	categories := newFakeArticleCategoryRepo()
	return &articleFixture{
		service:    NewArticleService(articles, categories),
		articles:   articles,
		categories: categories,
	}
}

func (f *articleFixture) draft(t *testing.T, title string) *domain.Article {
	t.Helper()
	article, err := f.service.Create(context.Background(), "Dana", ArticleInput{
		Title: title, Content: "How to connect to campus wifi.", Keywords: "wifi, network",
	})
	require.NoError(t, err)
	return article
}

func TestCreateArticleDefaultsToDraft(t *testing.T) {
	f := newArticleFixture(t)

	article := f.draft(t, "Wifi setup")
	assert.Equal(t, domain.ArticleStatusDraft, article.Status)
	assert.Equal(t, "Dana", article.Author)
	assert.Nil(t, article.PublishedAt)
}

func TestCreateArticleValidation(t *testing.T) {
	f := newArticleFixture(t)

	_, err := f.service.Create(context.Background(), "Dana", ArticleInput{Title: " ", Content: "body"})
	assert.Error(t, err)
	_, err = f.service.Create(context.Background(), "Dana", ArticleInput{Title: "t", Content: ""})
	assert.Error(t, err)

	missing := "nope"
	_, err = f.service.Create(context.Background(), "Dana", ArticleInput{Title: "t", Content: "c", CategoryID: &missing})
	assert.True(t, apperrors.IsNotFound(err))

	category := f.categories.add("Networking")
	_, err = f.service.Create(context.Background(), "Dana", ArticleInput{Title: "t", Content: "c", CategoryID: &category.ID})
	assert.NoError(t, err)
}

func TestPublishStampsPublicationTime(t *testing.T) {
	f := newArticleFixture(t)
	article := f.draft(t, "Wifi setup")

	published, err := f.service.UpdateStatus(context.Background(), article.ID, "PUBLISHED", "Eli")
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.Equal(t, "Eli", published.LastModifiedBy)
	first := *published.PublishedAt

	// Re-publishing after archive stamps a fresh time; an unknown status
	// is rejected outright.
	_, err = f.service.UpdateStatus(context.Background(), article.ID, "ARCHIVED", "Eli")
	require.NoError(t, err)
	again, err := f.service.UpdateStatus(context.Background(), article.ID, "PUBLISHED", "Eli")
	require.NoError(t, err)
	assert.True(t, !again.PublishedAt.Before(first))

	_, err = f.service.UpdateStatus(context.Background(), article.ID, "LIVE", "Eli")
	assert.Error(t, err)
}

func TestPublishedViewCountsAndHidesDrafts(t *testing.T) {
	f := newArticleFixture(t)
	draft := f.draft(t, "Draft only")
	published := f.draft(t, "Wifi setup")
	_, err := f.service.UpdateStatus(context.Background(), published.ID, "PUBLISHED", "Dana")
	require.NoError(t, err)

	// Drafts are invisible on the reader path.
	_, err = f.service.GetPublished(context.Background(), draft.ID)
	assert.True(t, apperrors.IsNotFound(err))

	seen, err := f.service.GetPublished(context.Background(), published.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seen.ViewCount)
	seen, err = f.service.GetPublished(context.Background(), published.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), seen.ViewCount)
}

func TestArticleFeedback(t *testing.T) {
	f := newArticleFixture(t)
	article := f.draft(t, "Wifi setup")

	// Feedback only lands on published articles.
	err := f.service.RecordFeedback(context.Background(), article.ID, true)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.service.UpdateStatus(context.Background(), article.ID, "PUBLISHED", "Dana")
	require.NoError(t, err)
	require.NoError(t, f.service.RecordFeedback(context.Background(), article.ID, true))
	require.NoError(t, f.service.RecordFeedback(context.Background(), article.ID, false))
	require.NoError(t, f.service.RecordFeedback(context.Background(), article.ID, true))

	current, err := f.service.GetByID(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), current.HelpfulCount)
	assert.Equal(t, int64(1), current.NotHelpfulCount)
}

func TestSearchPublishedArticles(t *testing.T) {
	f := newArticleFixture(t)
	wifi := f.draft(t, "Wifi setup")
	f.draft(t, "Library card")
	_, err := f.service.UpdateStatus(context.Background(), wifi.ID, "PUBLISHED", "Dana")
	require.NoError(t, err)

	results, err := f.service.ListPublished(context.Background(), "wifi")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, wifi.ID, results[0].ID)

	// Unpublished matches stay hidden.
	results, err = f.service.ListPublished(context.Background(), "library")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestArticleStats(t *testing.T) {
	f := newArticleFixture(t)
	published := f.draft(t, "One")
	f.draft(t, "Two")
	archived := f.draft(t, "Three")
	_, err := f.service.UpdateStatus(context.Background(), published.ID, "PUBLISHED", "Dana")
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(context.Background(), archived.ID, "ARCHIVED", "Dana")
	require.NoError(t, err)
	_, err = f.service.GetPublished(context.Background(), published.ID)
	require.NoError(t, err)

	stats, err := f.service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.PublishedCount)
	assert.Equal(t, int64(1), stats.DraftCount)
	assert.Equal(t, int64(1), stats.ArchivedCount)
	assert.Equal(t, int64(1), stats.TotalViews)
}

func TestArticleCategoryLifecycle(t *testing.T) {
	f := newArticleFixture(t)

	_, err := f.service.CreateCategory(context.Background(), " ", "")
	assert.Error(t, err)

	category, err := f.service.CreateCategory(context.Background(), "Networking", "Connectivity guides")
	require.NoError(t, err)
	assert.True(t, category.Active)

	require.NoError(t, f.service.DeactivateCategory(context.Background(), category.ID))
	active, err := f.service.ListCategories(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := f.service.ListCategories(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
