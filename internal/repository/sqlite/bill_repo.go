package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const billColumns = `id, profile_id, name, amount, due_date, frequency, category, notes,
	reminder_days, status, is_paid, paid_date, is_credit, created_at, last_modified`

// BillRepository implements domain.BillRepository using SQLite
type BillRepository struct {
	db *sql.DB
}

// NewBillRepository creates a new BillRepository
func NewBillRepository(db *sql.DB) *BillRepository {
	return &BillRepository{db: db}
}

// Create inserts a bill and returns the stored row
func (r *BillRepository) Create(bill *domain.Bill) (*domain.Bill, error) {
	now := formatTimestamp(time.Now())

	res, err := r.db.Exec(`
		INSERT INTO bills (profile_id, name, amount, due_date, frequency, category, notes,
			reminder_days, status, is_paid, paid_date, is_credit, created_at, last_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ProfileID, bill.Name, bill.Amount.String(), formatDate(bill.DueDate),
		string(bill.Frequency), bill.Category, bill.Notes, bill.ReminderDays,
		string(bill.Status), bill.IsPaid, nullableDate(bill.PaidDate), bill.IsCredit, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert bill: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read bill id: %w", err)
	}
	return r.GetByID(bill.ProfileID, int32(id))
}

// GetByID retrieves a bill by ID within a profile
func (r *BillRepository) GetByID(profileID int32, id int32) (*domain.Bill, error) {
	row := r.db.QueryRow(`SELECT `+billColumns+` FROM bills WHERE profile_id = ? AND id = ?`, profileID, id)
	bill, err := scanBill(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}
		return nil, err
	}
	return bill, nil
}

// Update overwrites the editable fields of a bill
func (r *BillRepository) Update(profileID int32, id int32, data *domain.UpdateBillData) (*domain.Bill, error) {
	res, err := r.db.Exec(`
		UPDATE bills SET name = ?, amount = ?, due_date = ?, frequency = ?, category = ?,
			notes = ?, reminder_days = ?, is_credit = ?, last_modified = ?
		WHERE profile_id = ? AND id = ?`,
		data.Name, data.Amount.String(), formatDate(data.DueDate), string(data.Frequency),
		data.Category, data.Notes, data.ReminderDays, data.IsCredit, formatTimestamp(time.Now()),
		profileID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}
	if err := requireAffected(res, domain.ErrBillNotFound); err != nil {
		return nil, err
	}
	return r.GetByID(profileID, id)
}

// SetPaid updates the paid flag, status and paid date together
func (r *BillRepository) SetPaid(profileID int32, id int32, isPaid bool, paidDate *time.Time) (*domain.Bill, error) {
	status := domain.BillStatusPending
	if isPaid {
		status = domain.BillStatusPaid
	}

	res, err := r.db.Exec(`
		UPDATE bills SET is_paid = ?, status = ?, paid_date = ?, last_modified = ?
		WHERE profile_id = ? AND id = ?`,
		isPaid, string(status), nullableDate(paidDate), formatTimestamp(time.Now()), profileID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update paid state: %w", err)
	}
	if err := requireAffected(res, domain.ErrBillNotFound); err != nil {
		return nil, err
	}
	return r.GetByID(profileID, id)
}

// Delete removes a bill
func (r *BillRepository) Delete(profileID int32, id int32) error {
	res, err := r.db.Exec(`DELETE FROM bills WHERE profile_id = ? AND id = ?`, profileID, id)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return requireAffected(res, domain.ErrBillNotFound)
}

// ListByProfile returns all bills of a profile ordered by due date, then id
func (r *BillRepository) ListByProfile(profileID int32) ([]*domain.Bill, error) {
	return r.query(`SELECT `+billColumns+` FROM bills WHERE profile_id = ? ORDER BY due_date, id`, profileID)
}

// ListByDateRange returns bills due within [start, end] ordered by due date, then id
func (r *BillRepository) ListByDateRange(profileID int32, start, end time.Time) ([]*domain.Bill, error) {
	return r.query(`
		SELECT `+billColumns+` FROM bills
		WHERE profile_id = ? AND due_date BETWEEN ? AND ?
		ORDER BY due_date, id`,
		profileID, formatDate(start), formatDate(end),
	)
}

// CountByProfile counts a profile's bills
func (r *BillRepository) CountByProfile(profileID int32) (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM bills WHERE profile_id = ?`, profileID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bills: %w", err)
	}
	return count, nil
}

// DeleteByProfile removes every bill of a profile
func (r *BillRepository) DeleteByProfile(profileID int32) error {
	if _, err := r.db.Exec(`DELETE FROM bills WHERE profile_id = ?`, profileID); err != nil {
		return fmt.Errorf("failed to delete profile bills: %w", err)
	}
	return nil
}

func (r *BillRepository) query(query string, args ...any) ([]*domain.Bill, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	bills := []*domain.Bill{}
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

func scanBill(s scanner) (*domain.Bill, error) {
	var (
		b                       domain.Bill
		amount, dueDate         string
		frequency, status       string
		paidDate                sql.NullString
		createdAt, lastModified string
	)

	err := s.Scan(&b.ID, &b.ProfileID, &b.Name, &amount, &dueDate, &frequency, &b.Category,
		&b.Notes, &b.ReminderDays, &status, &b.IsPaid, &paidDate, &b.IsCredit, &createdAt, &lastModified)
	if err != nil {
		return nil, err
	}

	if b.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("bill %d has invalid amount %q: %w", b.ID, amount, err)
	}
	if b.DueDate, err = parseDate(dueDate); err != nil {
		return nil, fmt.Errorf("bill %d has invalid due date %q: %w", b.ID, dueDate, err)
	}
	if paidDate.Valid {
		t, err := parseDate(paidDate.String)
		if err != nil {
			return nil, fmt.Errorf("bill %d has invalid paid date %q: %w", b.ID, paidDate.String, err)
		}
		b.PaidDate = &t
	}
	if b.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("bill %d has invalid created_at: %w", b.ID, err)
	}
	if b.LastModified, err = parseTimestamp(lastModified); err != nil {
		return nil, fmt.Errorf("bill %d has invalid last_modified: %w", b.ID, err)
	}
	b.Frequency = domain.Frequency(frequency)
	b.Status = domain.BillStatus(status)
	return &b, nil
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}

// requireAffected maps "no row touched" to notFound
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
