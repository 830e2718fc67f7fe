package customers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/daajin/poultrystore-backend/pkg/db/models"
	"github.com/daajin/poultrystore-backend/pkg/pagination"
)

// Repository provides the admin read model over customer accounts. Order
// aggregates are computed at query time, never stored on the user row.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CustomerRow is a user joined with their order aggregates. The MAX()
// expression column loses its declared type, so sqlite hands it back as a
// string; it is scanned raw and parsed into LastOrderAt after the query.
type CustomerRow struct {
	models.User
	OrderCount   int64           `gorm:"column:order_count"`
	TotalSpent   decimal.Decimal `gorm:"column:total_spent"`
	LastOrderRaw sql.NullString  `gorm:"column:last_order_at"`
	LastOrderAt  *time.Time      `gorm:"-"`
}

const customerAggregates = `
COUNT(orders.id) AS order_count,
COALESCE(SUM(CASE WHEN orders.status <> 'cancelled' THEN orders.total_amount ELSE 0 END), 0) AS total_spent,
MAX(orders.created_at) AS last_order_at
`

// aggregateTimeLayouts covers the sqlite driver's stored text format and the
// RFC 3339 form database/sql produces when a postgres timestamp is scanned
// into a string.
var aggregateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

func (row *CustomerRow) resolveLastOrder() error {
	if !row.LastOrderRaw.Valid || row.LastOrderRaw.String == "" {
		return nil
	}
	for _, layout := range aggregateTimeLayouts {
		if ts, err := time.Parse(layout, row.LastOrderRaw.String); err == nil {
			row.LastOrderAt = &ts
			return nil
		}
	}
	return fmt.Errorf("parse last_order_at %q", row.LastOrderRaw.String)
}

// List returns one page of customers with aggregates, newest first.
func (r *Repository) List(ctx context.Context, search string, params pagination.Params) ([]CustomerRow, error) {
	q := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.*, "+customerAggregates).
		Joins("LEFT JOIN orders ON orders.user_id = users.id").
		Where("users.role = ?", "user").
		Group("users.id")

	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(users.username) LIKE ? OR LOWER(users.email) LIKE ?", like, like)
	}

	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, fmt.Errorf("parse cursor: %w", err)
		}
		if cursor != nil {
			q = q.Where("(users.created_at, users.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	var rows []CustomerRow
	err := q.
		Order("users.created_at DESC, users.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if err := rows[i].resolveLastOrder(); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// FindByID loads one customer with aggregates.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*CustomerRow, error) {
	var row CustomerRow
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.*, "+customerAggregates).
		Joins("LEFT JOIN orders ON orders.user_id = users.id").
		Where("users.id = ? AND users.role = ?", id, "user").
		Group("users.id").
		Scan(&row).
		Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	if err := row.resolveLastOrder(); err != nil {
		return nil, err
	}
	return &row, nil
}

// CountCustomers reports how many customer accounts exist.
func (r *Repository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", "user").
		Count(&count).
		Error
	return count, err
}
