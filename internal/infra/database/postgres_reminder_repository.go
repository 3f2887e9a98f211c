package database

import (
	"context"
	"database/sql"
	"fmt"

	"invoice_reminder_service/internal/domain/reminder"

	"github.com/lib/pq"
)

// Custom errors specific to the reminder repository
var ErrRuleNotFound = fmt.Errorf("reminder rule not found")
var ErrDuplicateReminder = fmt.Errorf("duplicate reminder record (invoice_id, threshold_days)")

const pqUniqueViolation = "23505"

// PostgresReminderRepository implements both reminder.RuleRepository and
// reminder.LedgerRepository over the 'reminder_rules' and 'invoice_reminders'
// tables.
type PostgresReminderRepository struct {
	db *sql.DB
}

func NewPostgresReminderRepository(db *sql.DB) *PostgresReminderRepository {
	return &PostgresReminderRepository{db: db}
}

// --- ReminderRule methods ---

func (r *PostgresReminderRepository) Create(ctx context.Context, rule *reminder.Rule) error {
	query := `INSERT INTO reminder_rules (threshold_days, enabled)
               VALUES ($1, $2)
               RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, rule.ThresholdDays, rule.Enabled).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating reminder rule: %w", err)
	}
	return nil
}

func (r *PostgresReminderRepository) GetByID(ctx context.Context, id int32) (*reminder.Rule, error) {
	query := `SELECT id, threshold_days, enabled, created_at, updated_at FROM reminder_rules WHERE id = $1`
	rule := &reminder.Rule{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rule.ID, &rule.ThresholdDays, &rule.Enabled, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("error getting reminder rule by ID: %w", err)
	}
	return rule, nil
}

func (r *PostgresReminderRepository) Update(ctx context.Context, rule *reminder.Rule) error {
	query := `UPDATE reminder_rules
               SET threshold_days = $1, enabled = $2, updated_at = NOW()
               WHERE id = $3
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, rule.ThresholdDays, rule.Enabled, rule.ID).Scan(&rule.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrRuleNotFound
		}
		return fmt.Errorf("error updating reminder rule: %w", err)
	}
	return nil
}

func (r *PostgresReminderRepository) Delete(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reminder_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting reminder rule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted reminder rule rows: %w", err)
	}
	if affected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// Helper to scan multiple rule rows
func scanRules(rows *sql.Rows) ([]*reminder.Rule, error) {
	rules := make([]*reminder.Rule, 0)
	for rows.Next() {
		rule := &reminder.Rule{}
		if err := rows.Scan(&rule.ID, &rule.ThresholdDays, &rule.Enabled, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning reminder rule row: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminder rule rows: %w", err)
	}
	return rules, nil
}

func (r *PostgresReminderRepository) ListEnabled(ctx context.Context) ([]*reminder.Rule, error) {
	query := `SELECT id, threshold_days, enabled, created_at, updated_at
               FROM reminder_rules WHERE enabled = TRUE ORDER BY threshold_days`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing enabled reminder rules: %w", err)
	}
	defer rows.Close()
	return scanRules(rows)
}

func (r *PostgresReminderRepository) ListAll(ctx context.Context) ([]*reminder.Rule, error) {
	query := `SELECT id, threshold_days, enabled, created_at, updated_at
               FROM reminder_rules ORDER BY threshold_days`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing reminder rules: %w", err)
	}
	defer rows.Close()
	return scanRules(rows)
}

// --- Reminder ledger methods ---

func (r *PostgresReminderRepository) Exists(ctx context.Context, invoiceID int64, thresholdDays int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM invoice_reminders WHERE invoice_id = $1 AND threshold_days = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, invoiceID, thresholdDays).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking reminder record existence: %w", err)
	}
	return exists, nil
}

// Insert claims the (invoice_id, threshold_days) pair. The table's unique
// constraint is what makes the claim atomic under concurrent writers.
func (r *PostgresReminderRepository) Insert(ctx context.Context, record *reminder.Record) error {
	query := `INSERT INTO invoice_reminders (invoice_id, threshold_days, message_sent)
               VALUES ($1, $2, $3)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, record.InvoiceID, record.ThresholdDays, record.MessageSent).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateReminder
		}
		return fmt.Errorf("error inserting reminder record: %w", err)
	}
	return nil
}

func (r *PostgresReminderRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]*reminder.Record, error) {
	query := `SELECT id, invoice_id, threshold_days, message_sent, created_at
               FROM invoice_reminders WHERE invoice_id = $1 ORDER BY threshold_days`
	rows, err := r.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("error listing reminder records by invoice: %w", err)
	}
	defer rows.Close()

	records := make([]*reminder.Record, 0)
	for rows.Next() {
		rec := &reminder.Record{}
		if err := rows.Scan(&rec.ID, &rec.InvoiceID, &rec.ThresholdDays, &rec.MessageSent, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning reminder record row: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminder record rows: %w", err)
	}
	return records, nil
}
