package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const billColumns = `id, profile_id, name, amount, due_date, frequency, category, notes,
	reminder_days, status, is_paid, paid_date, is_credit, created_at, last_modified`

// BillRepository implements domain.BillRepository using PostgreSQL
type BillRepository struct {
	pool *pgxpool.Pool
}

// NewBillRepository creates a new BillRepository
func NewBillRepository(pool *pgxpool.Pool) *BillRepository {
	return &BillRepository{pool: pool}
}

// Create inserts a bill
func (r *BillRepository) Create(bill *domain.Bill) (*domain.Bill, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(bill.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO bills (profile_id, name, amount, due_date, frequency, category, notes,
			reminder_days, status, is_paid, paid_date, is_credit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+billColumns,
		bill.ProfileID, bill.Name, amount, timeToPgDate(bill.DueDate), string(bill.Frequency),
		bill.Category, bill.Notes, bill.ReminderDays, string(bill.Status), bill.IsPaid,
		optionalPgDate(bill.PaidDate), bill.IsCredit,
	)
	return scanBill(row)
}

// GetByID retrieves a bill by ID within a profile
func (r *BillRepository) GetByID(profileID int32, id int32) (*domain.Bill, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE profile_id = $1 AND id = $2`, profileID, id)
	return notFoundAs(scanBill(row))
}

// Update overwrites the editable fields of a bill
func (r *BillRepository) Update(profileID int32, id int32, data *domain.UpdateBillData) (*domain.Bill, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE bills SET name = $3, amount = $4, due_date = $5, frequency = $6, category = $7,
			notes = $8, reminder_days = $9, is_credit = $10, last_modified = NOW()
		WHERE profile_id = $1 AND id = $2
		RETURNING `+billColumns,
		profileID, id, data.Name, amount, timeToPgDate(data.DueDate), string(data.Frequency),
		data.Category, data.Notes, data.ReminderDays, data.IsCredit,
	)
	return notFoundAs(scanBill(row))
}

// SetPaid updates the paid flag, status and paid date together
func (r *BillRepository) SetPaid(profileID int32, id int32, isPaid bool, paidDate *time.Time) (*domain.Bill, error) {
	ctx := context.Background()

	status := domain.BillStatusPending
	if isPaid {
		status = domain.BillStatusPaid
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE bills SET is_paid = $3, status = $4, paid_date = $5, last_modified = NOW()
		WHERE profile_id = $1 AND id = $2
		RETURNING `+billColumns,
		profileID, id, isPaid, string(status), optionalPgDate(paidDate),
	)
	return notFoundAs(scanBill(row))
}

// Delete removes a bill
func (r *BillRepository) Delete(profileID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM bills WHERE profile_id = $1 AND id = $2`, profileID, id)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBillNotFound
	}
	return nil
}

// ListByProfile returns all bills of a profile ordered by due date, then id
func (r *BillRepository) ListByProfile(profileID int32) ([]*domain.Bill, error) {
	return r.list(`SELECT `+billColumns+` FROM bills WHERE profile_id = $1 ORDER BY due_date, id`, profileID)
}

// ListByDateRange returns bills due within [start, end] ordered by due date, then id
func (r *BillRepository) ListByDateRange(profileID int32, start, end time.Time) ([]*domain.Bill, error) {
	return r.list(`
		SELECT `+billColumns+` FROM bills
		WHERE profile_id = $1 AND due_date BETWEEN $2 AND $3
		ORDER BY due_date, id`,
		profileID, timeToPgDate(start), timeToPgDate(end),
	)
}

func (r *BillRepository) CountByProfile(profileID int32) (int, error) {
	return countByProfile(r.pool, "bills", profileID)
}

func (r *BillRepository) DeleteByProfile(profileID int32) error {
	ctx := context.Background()
	if _, err := r.pool.Exec(ctx, `DELETE FROM bills WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to delete profile bills: %w", err)
	}
	return nil
}

func (r *BillRepository) list(query string, args ...any) ([]*domain.Bill, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	bills, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Bill, error) {
		return scanBill(row)
	})
	if err != nil {
		return nil, err
	}
	if bills == nil {
		bills = []*domain.Bill{}
	}
	return bills, nil
}

func scanBill(row pgx.Row) (*domain.Bill, error) {
	var (
		b                 domain.Bill
		amount            pgtype.Numeric
		dueDate, paidDate pgtype.Date
		frequency, status string
	)
	err := row.Scan(&b.ID, &b.ProfileID, &b.Name, &amount, &dueDate, &frequency, &b.Category, &b.Notes,
		&b.ReminderDays, &status, &b.IsPaid, &paidDate, &b.IsCredit, &b.CreatedAt, &b.LastModified)
	if err != nil {
		return nil, err
	}
	b.Amount = pgNumericToDecimal(amount)
	b.DueDate = pgDateToTime(dueDate)
	b.PaidDate = pgDateToTimePtr(paidDate)
	b.Frequency = domain.Frequency(frequency)
	b.Status = domain.BillStatus(status)
	return &b, nil
}

func notFoundAs(bill *domain.Bill, err error) (*domain.Bill, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBillNotFound
	}
	return bill, err
}

func countByProfile(q querier, table string, profileID int32) (int, error) {
	ctx := context.Background()
	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM `+table+` WHERE profile_id = $1`, profileID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
