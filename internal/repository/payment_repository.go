package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
)

// TransactionFilter captures payment transaction list parameters.
type TransactionFilter struct {
	Status    *domain.TransactionStatus
	StudentID *string
	Search    *string
	Limit     int
	Offset    int
}

// PaymentRepository manages payment transactions.
type PaymentRepository interface {
	Create(ctx context.Context, txn *domain.PaymentTransaction) error
	Update(ctx context.Context, txn *domain.PaymentTransaction) error
	GetByID(ctx context.Context, id string) (*domain.PaymentTransaction, error)
	GetByTransactionNumber(ctx context.Context, number string) (*domain.PaymentTransaction, error)
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter TransactionFilter) ([]domain.PaymentTransaction, error)
	// LatestTransactionNumber returns the highest transaction number with the
	// given prefix, or empty when none exists.
	LatestTransactionNumber(ctx context.Context, prefix string) (string, error)
	CountByStatus(ctx context.Context, status domain.TransactionStatus) (int64, error)
	CountByVerified(ctx context.Context, verified bool) (int64, error)
	SumAmountByStatus(ctx context.Context, status domain.TransactionStatus) (float64, error)
	SumAmountByVerified(ctx context.Context, verified bool) (float64, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository builds repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

const txnColumns = `id, transaction_number, student_name, student_id, student_email, category_id,
               amount, method, status, verified, verified_by, verified_at, last_modified_by,
               created_at, updated_at`

func (r *paymentRepository) Create(ctx context.Context, txn *domain.PaymentTransaction) error {
	const query = `
        INSERT INTO payment_transactions (transaction_number, student_name, student_id, student_email,
            category_id, amount, method, status, verified, last_modified_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		txn.TransactionNumber,
		txn.StudentName,
		txn.StudentID,
		txn.StudentEmail,
		txn.CategoryID,
		txn.Amount,
		txn.Method,
		txn.Status,
		txn.Verified,
		txn.LastModifiedBy,
	).Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt)
}

func (r *paymentRepository) Update(ctx context.Context, txn *domain.PaymentTransaction) error {
	const query = `
        UPDATE payment_transactions SET student_name=$1, student_id=$2, student_email=$3,
            category_id=$4, amount=$5, method=$6, status=$7, verified=$8, verified_by=$9,
            verified_at=$10, last_modified_by=$11, updated_at=NOW()
        WHERE id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		txn.StudentName,
		txn.StudentID,
		txn.StudentEmail,
		txn.CategoryID,
		txn.Amount,
		txn.Method,
		txn.Status,
		txn.Verified,
		txn.VerifiedBy,
		txn.VerifiedAt,
		txn.LastModifiedBy,
		txn.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.PaymentTransaction, error) {
	return r.fetchSingle(ctx, `SELECT `+txnColumns+` FROM payment_transactions WHERE id=$1`, id)
}

func (r *paymentRepository) GetByTransactionNumber(ctx context.Context, number string) (*domain.PaymentTransaction, error) {
	return r.fetchSingle(ctx, `SELECT `+txnColumns+` FROM payment_transactions WHERE transaction_number=$1`, number)
}

func (r *paymentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.PaymentTransaction, error) {
	var txn domain.PaymentTransaction
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&txn.ID,
		&txn.TransactionNumber,
		&txn.StudentName,
		&txn.StudentID,
		&txn.StudentEmail,
		&txn.CategoryID,
		&txn.Amount,
		&txn.Method,
		&txn.Status,
		&txn.Verified,
		&txn.VerifiedBy,
		&txn.VerifiedAt,
		&txn.LastModifiedBy,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM payment_transactions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *paymentRepository) ListWithFilter(ctx context.Context, filter TransactionFilter) ([]domain.PaymentTransaction, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		clauses = append(clauses, fmt.Sprintf("student_id=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(student_name) LIKE %s OR LOWER(transaction_number) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM payment_transactions WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		txnColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PaymentTransaction
	for rows.Next() {
		var txn domain.PaymentTransaction
		if err := rows.Scan(
			&txn.ID,
			&txn.TransactionNumber,
			&txn.StudentName,
			&txn.StudentID,
			&txn.StudentEmail,
			&txn.CategoryID,
			&txn.Amount,
			&txn.Method,
			&txn.Status,
			&txn.Verified,
			&txn.VerifiedBy,
			&txn.VerifiedAt,
			&txn.LastModifiedBy,
			&txn.CreatedAt,
			&txn.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, txn)
	}
	return result, rows.Err()
}

func (r *paymentRepository) LatestTransactionNumber(ctx context.Context, prefix string) (string, error) {
	const query = `
        SELECT transaction_number FROM payment_transactions
        WHERE transaction_number LIKE $1
        ORDER BY transaction_number DESC LIMIT 1`
	var number string
	err := r.pool.QueryRow(ctx, query, prefix+"%").Scan(&number)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return number, nil
}

func (r *paymentRepository) CountByStatus(ctx context.Context, status domain.TransactionStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payment_transactions WHERE status=$1`, status).Scan(&count)
	return count, err
}

func (r *paymentRepository) CountByVerified(ctx context.Context, verified bool) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payment_transactions WHERE verified=$1`, verified).Scan(&count)
	return count, err
}

func (r *paymentRepository) SumAmountByStatus(ctx context.Context, status domain.TransactionStatus) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payment_transactions WHERE status=$1`, status).Scan(&total)
	return total, err
}

func (r *paymentRepository) SumAmountByVerified(ctx context.Context, verified bool) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payment_transactions WHERE verified=$1`, verified).Scan(&total)
	return total, err
}
