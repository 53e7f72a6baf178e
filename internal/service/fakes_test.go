package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
)

// In-memory repositories used across the service tests.

type fakeTicketRepo struct {
	seq     int
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	if ticket.Payment != nil {
		payment := *ticket.Payment
		copied.Payment = &payment
	}
	return &copied, nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		if filter.CategoryID != nil && ticket.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.CreatorID != nil && (ticket.CreatorID == nil || *ticket.CreatorID != *filter.CreatorID) {
			continue
		}
		if filter.AssigneeID != nil && (ticket.AssigneeID == nil || *ticket.AssigneeID != *filter.AssigneeID) {
			continue
		}
		if filter.Search != nil {
			needle := strings.ToLower(*filter.Search)
			if !strings.Contains(strings.ToLower(ticket.Title), needle) &&
				!strings.Contains(strings.ToLower(ticket.Description), needle) {
				continue
			}
		}
		result = append(result, *ticket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeTicketRepo) CountWithFilter(ctx context.Context, filter repository.TicketFilter) (int64, error) {
	tickets, _ := r.ListWithFilter(ctx, filter)
	return int64(len(tickets)), nil
}

func (r *fakeTicketRepo) CountByStatus(_ context.Context, status domain.TicketStatus) (int64, error) {
	var count int64
	for _, ticket := range r.tickets {
		if ticket.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.tickets)), nil
}

func (r *fakeTicketRepo) CountByCategory(_ context.Context) ([]repository.CategoryCount, error) {
	return nil, nil
}

func (r *fakeTicketRepo) MonthlyTrend(_ context.Context, _ time.Time) ([]repository.MonthlyCount, error) {
	return nil, nil
}

func (r *fakeTicketRepo) TopStudents(_ context.Context, _ int) ([]repository.StudentCount, error) {
	return nil, nil
}

type fakeCategoryRepo struct {
	seq        int
	categories map[string]*domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*domain.Category)}
}

func (r *fakeCategoryRepo) add(name string, active bool) *domain.Category {
	r.seq++
	category := &domain.Category{
		ID:     fmt.Sprintf("category-%d", r.seq),
		Name:   name,
		Active: active,
	}
	r.categories[category.ID] = category
	return category
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.seq++
	category.ID = fmt.Sprintf("category-%d", r.seq)
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) List(_ context.Context, activeOnly bool) ([]domain.Category, error) {
	var result []domain.Category
	for _, category := range r.categories {
		if activeOnly && !category.Active {
			continue
		}
		result = append(result, *category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeCategoryRepo) ListNames(_ context.Context) ([]string, error) {
	var names []string
	for _, category := range r.categories {
		names = append(names, category.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *fakeCategoryRepo) Deactivate(_ context.Context, id string) error {
	category, ok := r.categories[id]
	if !ok {
		return pgx.ErrNoRows
	}
	category.Active = false
	return nil
}

type fakeStaffRepo struct {
	seq     int
	entries map[string]*domain.Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{entries: make(map[string]*domain.Staff)}
}

func (r *fakeStaffRepo) add(name string) *domain.Staff {
	r.seq++
	entry := &domain.Staff{
		ID:     fmt.Sprintf("staff-%d", r.seq),
		Name:   name,
		Email:  strings.ToLower(name) + "@helpdesk.example",
		Active: true,
	}
	r.entries[entry.ID] = entry
	return entry
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *domain.Staff) error {
	r.seq++
	staff.ID = fmt.Sprintf("staff-%d", r.seq)
	stored := *staff
	r.entries[staff.ID] = &stored
	return nil
}

func (r *fakeStaffRepo) Update(_ context.Context, staff *domain.Staff) error {
	if _, ok := r.entries[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *staff
	r.entries[staff.ID] = &stored
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.Staff, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *entry
	return &copied, nil
}

func (r *fakeStaffRepo) List(_ context.Context, activeOnly bool) ([]domain.Staff, error) {
	var result []domain.Staff
	for _, entry := range r.entries {
		if activeOnly && !entry.Active {
			continue
		}
		result = append(result, *entry)
	}
	return result, nil
}

func (r *fakeStaffRepo) Deactivate(_ context.Context, id string) error {
	entry, ok := r.entries[id]
	if !ok {
		return pgx.ErrNoRows
	}
	entry.Active = false
	return nil
}

type fakeReplyRepo struct {
	seq     int
	replies []domain.Reply
}

func newFakeReplyRepo() *fakeReplyRepo {
	return &fakeReplyRepo{}
}

func (r *fakeReplyRepo) Create(_ context.Context, reply *domain.Reply) error {
	r.seq++
	reply.ID = fmt.Sprintf("reply-%d", r.seq)
	reply.CreatedAt = time.Now()
	r.replies = append(r.replies, *reply)
	return nil
}

func (r *fakeReplyRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Reply, error) {
	var result []domain.Reply
	for _, reply := range r.replies {
		if reply.TicketID == ticketID {
			result = append(result, reply)
		}
	}
	return result, nil
}

func (r *fakeReplyRepo) CountByTicket(_ context.Context, ticketID string) (int64, error) {
	replies, _ := r.ListByTicket(context.Background(), ticketID)
	return int64(len(replies)), nil
}

type fakePaymentRepo struct {
	seq  int
	txns map[string]*domain.PaymentTransaction
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{txns: make(map[string]*domain.PaymentTransaction)}
}

func (r *fakePaymentRepo) Create(_ context.Context, txn *domain.PaymentTransaction) error {
	r.seq++
	txn.ID = fmt.Sprintf("txn-%d", r.seq)
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = txn.CreatedAt
	stored := *txn
	r.txns[txn.ID] = &stored
	return nil
}

func (r *fakePaymentRepo) Update(_ context.Context, txn *domain.PaymentTransaction) error {
	if _, ok := r.txns[txn.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *txn
	r.txns[txn.ID] = &stored
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id string) (*domain.PaymentTransaction, error) {
	txn, ok := r.txns[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *txn
	return &copied, nil
}

func (r *fakePaymentRepo) GetByTransactionNumber(_ context.Context, number string) (*domain.PaymentTransaction, error) {
	for _, txn := range r.txns {
		if txn.TransactionNumber == number {
			copied := *txn
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePaymentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.txns[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.txns, id)
	return nil
}

func (r *fakePaymentRepo) ListWithFilter(_ context.Context, filter repository.TransactionFilter) ([]domain.PaymentTransaction, error) {
	var result []domain.PaymentTransaction
	for _, txn := range r.txns {
		if filter.Status != nil && txn.Status != *filter.Status {
			continue
		}
		if filter.StudentID != nil && txn.StudentID != *filter.StudentID {
			continue
		}
		result = append(result, *txn)
	}
	return result, nil
}

func (r *fakePaymentRepo) LatestTransactionNumber(_ context.Context, prefix string) (string, error) {
	var latest string
	for _, txn := range r.txns {
		if strings.HasPrefix(txn.TransactionNumber, prefix) && txn.TransactionNumber > latest {
			latest = txn.TransactionNumber
		}
	}
	return latest, nil
}

func (r *fakePaymentRepo) CountByStatus(_ context.Context, status domain.TransactionStatus) (int64, error) {
	var count int64
	for _, txn := range r.txns {
		if txn.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakePaymentRepo) CountByVerified(_ context.Context, verified bool) (int64, error) {
	var count int64
	for _, txn := range r.txns {
		if txn.Verified == verified {
			count++
		}
	}
	return count, nil
}

func (r *fakePaymentRepo) SumAmountByStatus(_ context.Context, status domain.TransactionStatus) (float64, error) {
	var total float64
	for _, txn := range r.txns {
		if txn.Status == status {
			total += txn.Amount
		}
	}
	return total, nil
}

func (r *fakePaymentRepo) SumAmountByVerified(_ context.Context, verified bool) (float64, error) {
	var total float64
	for _, txn := range r.txns {
		if txn.Verified == verified {
			total += txn.Amount
		}
	}
	return total, nil
}

type fakeUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username != nil && *user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, role *domain.Role, _, _ int) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		if user.Deleted {
			continue
		}
		if role != nil && user.Role != *role {
			continue
		}
		result = append(result, *user)
	}
	return result, nil
}

type fakeArticleRepo struct {
	seq      int
	articles map[string]*domain.Article
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: make(map[string]*domain.Article)}
}

func (r *fakeArticleRepo) Create(_ context.Context, article *domain.Article) error {
	r.seq++
	article.ID = fmt.Sprintf("article-%d", r.seq)
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt
	stored := *article
	r.articles[article.ID] = &stored
	return nil
}

func (r *fakeArticleRepo) Update(_ context.Context, article *domain.Article) error {
	if _, ok := r.articles[article.ID]; !ok {
		return pgx.ErrNoRows
	}
	article.UpdatedAt = time.Now()
	stored := *article
	r.articles[article.ID] = &stored
	return nil
}

func (r *fakeArticleRepo) GetByID(_ context.Context, id string) (*domain.Article, error) {
	article, ok := r.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *article
	return &copied, nil
}

func (r *fakeArticleRepo) List(_ context.Context, status *domain.ArticleStatus) ([]domain.Article, error) {
	var result []domain.Article
	for _, article := range r.articles {
		if status != nil && article.Status != *status {
			continue
		}
		result = append(result, *article)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeArticleRepo) SearchPublished(_ context.Context, query string) ([]domain.Article, error) {
	needle := strings.ToLower(query)
	var result []domain.Article
	for _, article := range r.articles {
		if article.Status != domain.ArticleStatusPublished {
			continue
		}
		haystack := strings.ToLower(article.Title + " " + article.Content + " " + article.Keywords)
		if !strings.Contains(haystack, needle) {
			continue
		}
		result = append(result, *article)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeArticleRepo) IncrementViews(_ context.Context, id string) error {
	article, ok := r.articles[id]
	if !ok {
		return pgx.ErrNoRows
	}
	article.ViewCount++
	return nil
}

func (r *fakeArticleRepo) RecordFeedback(_ context.Context, id string, helpful bool) error {
	article, ok := r.articles[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if helpful {
		article.HelpfulCount++
	} else {
		article.NotHelpfulCount++
	}
	return nil
}

func (r *fakeArticleRepo) CountByStatus(_ context.Context, status domain.ArticleStatus) (int64, error) {
	var count int64
	for _, article := range r.articles {
		if article.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeArticleRepo) TotalViews(_ context.Context) (int64, error) {
	var views int64
	for _, article := range r.articles {
		views += article.ViewCount
	}
	return views, nil
}

func (r *fakeArticleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.articles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.articles, id)
	return nil
}

type fakeArticleCategoryRepo struct {
	seq        int
	categories map[string]*domain.ArticleCategory
}

func newFakeArticleCategoryRepo() *fakeArticleCategoryRepo {
	return &fakeArticleCategoryRepo{categories: make(map[string]*domain.ArticleCategory)}
}

func (r *fakeArticleCategoryRepo) add(name string) *domain.ArticleCategory {
	r.seq++
	category := &domain.ArticleCategory{
		ID:     fmt.Sprintf("article-category-%d", r.seq),
		Name:   name,
		Active: true,
	}
	r.categories[category.ID] = category
	return category
}

func (r *fakeArticleCategoryRepo) Create(_ context.Context, category *domain.ArticleCategory) error {
	r.seq++
	category.ID = fmt.Sprintf("article-category-%d", r.seq)
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeArticleCategoryRepo) Update(_ context.Context, category *domain.ArticleCategory) error {
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeArticleCategoryRepo) GetByID(_ context.Context, id string) (*domain.ArticleCategory, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *category
	return &copied, nil
}

func (r *fakeArticleCategoryRepo) List(_ context.Context, activeOnly bool) ([]domain.ArticleCategory, error) {
	var result []domain.ArticleCategory
	for _, category := range r.categories {
		if activeOnly && !category.Active {
			continue
		}
		result = append(result, *category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeArticleCategoryRepo) Deactivate(_ context.Context, id string) error {
	category, ok := r.categories[id]
	if !ok {
		return pgx.ErrNoRows
	}
	category.Active = false
	return nil
}

type fakeTemplateRepo struct {
	seq       int
	templates map[string]*domain.ResponseTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[string]*domain.ResponseTemplate)}
}

func (r *fakeTemplateRepo) Create(_ context.Context, template *domain.ResponseTemplate) error {
	r.seq++
	template.ID = fmt.Sprintf("template-%d", r.seq)
	template.CreatedAt = time.Now()
	template.UpdatedAt = template.CreatedAt
	stored := *template
	r.templates[template.ID] = &stored
	return nil
}

func (r *fakeTemplateRepo) Update(_ context.Context, template *domain.ResponseTemplate) error {
	if _, ok := r.templates[template.ID]; !ok {
		return pgx.ErrNoRows
	}
	template.UpdatedAt = time.Now()
	stored := *template
	r.templates[template.ID] = &stored
	return nil
}

func (r *fakeTemplateRepo) GetByID(_ context.Context, id string) (*domain.ResponseTemplate, error) {
	template, ok := r.templates[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *template
	return &copied, nil
}

func (r *fakeTemplateRepo) ListVisible(_ context.Context, userID string) ([]domain.ResponseTemplate, error) {
	var result []domain.ResponseTemplate
	for _, template := range r.templates {
		if !template.Shared && template.CreatedBy != userID {
			continue
		}
		result = append(result, *template)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

func (r *fakeTemplateRepo) SearchVisible(ctx context.Context, userID, query string) ([]domain.ResponseTemplate, error) {
	visible, _ := r.ListVisible(ctx, userID)
	needle := strings.ToLower(query)
	var result []domain.ResponseTemplate
	for _, template := range visible {
		haystack := strings.ToLower(template.Title + " " + template.Content)
		if strings.Contains(haystack, needle) {
			result = append(result, template)
		}
	}
	return result, nil
}

func (r *fakeTemplateRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.templates[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.templates, id)
	return nil
}

type fakeSavedReportRepo struct {
	seq     int
	reports map[string]*domain.SavedReport
}

func newFakeSavedReportRepo() *fakeSavedReportRepo {
	return &fakeSavedReportRepo{reports: make(map[string]*domain.SavedReport)}
}

func (r *fakeSavedReportRepo) Create(_ context.Context, report *domain.SavedReport) error {
	r.seq++
	report.ID = fmt.Sprintf("saved-report-%d", r.seq)
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	stored := *report
	r.reports[report.ID] = &stored
	return nil
}

func (r *fakeSavedReportRepo) GetByID(_ context.Context, id string) (*domain.SavedReport, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *report
	return &copied, nil
}

func (r *fakeSavedReportRepo) ListByCreator(_ context.Context, userID string) ([]domain.SavedReport, error) {
	var result []domain.SavedReport
	for _, report := range r.reports {
		if report.CreatedBy == userID {
			result = append(result, *report)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeSavedReportRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.reports[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.reports, id)
	return nil
}
