package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"invoice_reminder_service/internal/domain/invoice"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrInvoiceNotFound = fmt.Errorf("invoice not found")

type PostgresInvoiceRepository struct {
	db *sql.DB
}

func NewPostgresInvoiceRepository(db *sql.DB) *PostgresInvoiceRepository {
	return &PostgresInvoiceRepository{db: db}
}

func (r *PostgresInvoiceRepository) GetByID(ctx context.Context, id int64) (*invoice.Invoice, error) {
	query := `SELECT id, number, customer_id, due_date, total_amount, status, created_at, updated_at
               FROM invoices WHERE id = $1`
	inv := &invoice.Invoice{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&inv.ID, &inv.Number, &inv.CustomerID, &inv.DueDate, &inv.TotalAmount,
		&inv.Status, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("error getting invoice by ID: %w", err)
	}
	return inv, nil
}

// ListPendingDueBefore returns pending invoices with due_date strictly before
// the given date, each joined with its customer. The date comparison happens
// in SQL so the scan is a single round trip.
func (r *PostgresInvoiceRepository) ListPendingDueBefore(ctx context.Context, date time.Time) ([]*invoice.WithCustomer, error) {
	query := `SELECT i.id, i.number, i.customer_id, i.due_date, i.total_amount, i.status, i.created_at, i.updated_at,
                      c.id, c.name, c.email, c.phone, c.created_at, c.updated_at
               FROM invoices i
               JOIN customers c ON c.id = i.customer_id
               WHERE i.status = $1 AND i.due_date < $2
               ORDER BY i.due_date, i.id`

	rows, err := r.db.QueryContext(ctx, query, invoice.StatusPending, date)
	if err != nil {
		return nil, fmt.Errorf("error listing pending invoices due before %s: %w", date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	results := make([]*invoice.WithCustomer, 0)
	for rows.Next() {
		wc := &invoice.WithCustomer{}
		if err := rows.Scan(
			&wc.Invoice.ID, &wc.Invoice.Number, &wc.Invoice.CustomerID, &wc.Invoice.DueDate,
			&wc.Invoice.TotalAmount, &wc.Invoice.Status, &wc.Invoice.CreatedAt, &wc.Invoice.UpdatedAt,
			&wc.Customer.ID, &wc.Customer.Name, &wc.Customer.Email, &wc.Customer.Phone,
			&wc.Customer.CreatedAt, &wc.Customer.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning pending invoice row: %w", err)
		}
		results = append(results, wc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending invoice rows: %w", err)
	}
	return results, nil
}
