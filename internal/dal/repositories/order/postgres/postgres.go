package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/comandalivre/opsdesk/internal/dal/postgres"
	"github.com/comandalivre/opsdesk/internal/service/models/order"
	"github.com/comandalivre/opsdesk/internal/service/models/orderitem"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id            int64     `db:"id"`
	DisplayId     string    `db:"display_id"`
	CustomerName  string    `db:"customer_name"`
	Phone         string    `db:"phone"`
	Address       string    `db:"address"`
	Neighborhood  string    `db:"neighborhood"`
	PostalCode    string    `db:"postal_code"`
	Pickup        bool      `db:"pickup"`
	TotalCents    int64     `db:"total_cents"`
	Status        string    `db:"status"`
	PaymentStatus string    `db:"payment_status"`
	PaymentMethod string    `db:"payment_method"`
	Observation   string    `db:"observation"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.ParsePaymentStatus(o.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:            o.Id,
		DisplayID:     o.DisplayId,
		CustomerName:  o.CustomerName,
		Phone:         o.Phone,
		Address:       o.Address,
		Neighborhood:  o.Neighborhood,
		PostalCode:    o.PostalCode,
		Pickup:        o.Pickup,
		TotalCents:    o.TotalCents,
		Status:        status,
		PaymentStatus: paymentStatus,
		PaymentMethod: o.PaymentMethod,
		Observation:   o.Observation,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		OrderItems:    []orderitem.OrderItem{}, // Will be populated separately
	}, nil
}

type PostgresOrderRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

var orderColumns = []string{
	"id",
	"display_id",
	"customer_name",
	"phone",
	"address",
	"neighborhood",
	"postal_code",
	"pickup",
	"total_cents",
	"status",
	"payment_status",
	"payment_method",
	"observation",
	"created_at",
	"updated_at",
}

// List retrieves every order, newest first.
func (r *PostgresOrderRepository) List(ctx context.Context) ([]order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list orders query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		err := rows.Scan(
			&dal.Id,
			&dal.DisplayId,
			&dal.CustomerName,
			&dal.Phone,
			&dal.Address,
			&dal.Neighborhood,
			&dal.PostalCode,
			&dal.Pickup,
			&dal.TotalCents,
			&dal.Status,
			&dal.PaymentStatus,
			&dal.PaymentMethod,
			&dal.Observation,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateFields applies the given status and payment status fields to one
// order as a single write. Nil fields are not touched.
func (r *PostgresOrderRepository) UpdateFields(
	ctx context.Context,
	id int64,
	fields order.UpdateFields,
) error {
	builder := sq.Update("orders").
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar)

	if fields.Status != nil {
		builder = builder.Set("status", fields.Status.String())
	}
	if fields.PaymentStatus != nil {
		builder = builder.Set("payment_status", fields.PaymentStatus.String())
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update order query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found", id)
	}

	return nil
}

// Delete removes an order row permanently.
func (r *PostgresOrderRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("orders").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete order query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return nil
}
