package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/comandalivre/opsdesk/internal/dal/postgres"
	"github.com/comandalivre/opsdesk/internal/service/models/customer"
)

type PostgresProfileRepository struct {
	conn postgres.Querier
}

func NewPostgresProfileRepository(conn postgres.Querier) *PostgresProfileRepository {
	return &PostgresProfileRepository{
		conn: conn,
	}
}

// List retrieves every curated customer profile.
func (r *PostgresProfileRepository) List(ctx context.Context) ([]customer.Profile, error) {
	query, args, err := sq.Select("phone", "name", "archived").
		From("customer_profiles").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list profiles query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var result []customer.Profile
	for rows.Next() {
		var p customer.Profile
		if err := rows.Scan(&p.Phone, &p.Name, &p.Archived); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		result = append(result, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Upsert inserts or replaces the profile for a phone number.
func (r *PostgresProfileRepository) Upsert(ctx context.Context, profile customer.Profile) error {
	query, args, err := sq.Insert("customer_profiles").
		Columns("phone", "name", "archived", "updated_at").
		Values(profile.Phone, profile.Name, profile.Archived, time.Now()).
		Suffix("ON CONFLICT (phone) DO UPDATE SET name = EXCLUDED.name, archived = EXCLUDED.archived, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert profile query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// Delete removes the profile for a phone number.
func (r *PostgresProfileRepository) Delete(ctx context.Context, phone string) error {
	query, args, err := sq.Delete("customer_profiles").
		Where(sq.Eq{"phone": phone}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete profile query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	return nil
}
