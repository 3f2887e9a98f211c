package customer

import (
	"database/sql"
	"time"
)

// Customer represents a customer of the business.
type Customer struct {
	ID        int64
	Name      string
	Email     sql.NullString // optional; delivery falls back to admin channels
	Phone     sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}
