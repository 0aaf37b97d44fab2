package customersvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/comandalivre/opsdesk/internal/dal/interfaces/iprofilerepo"
	"github.com/comandalivre/opsdesk/internal/dal/postgres"
	profilerepo "github.com/comandalivre/opsdesk/internal/dal/repositories/customerprofile/postgres"
	"github.com/comandalivre/opsdesk/internal/service/models/customer"
	"github.com/comandalivre/opsdesk/internal/service/models/order"
	"go.opentelemetry.io/otel"
)

// ordersSource provides the current in-memory order snapshot.
type ordersSource interface {
	Orders() []order.Order
}

// CustomerService derives customer summaries from the order snapshot and
// the curated profile table. Summaries are rebuilt on every read.
type CustomerService struct {
	orders      ordersSource
	profileRepo iprofilerepo.IProfileRepository
}

// option is a function that configures the CustomerService.
type option func(*CustomerService)

// MustNewCustomerService creates a new CustomerService.
func MustNewCustomerService(opts ...option) *CustomerService {
	s := &CustomerService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.orders == nil || s.profileRepo == nil {
		panic("customersvc: orders source or profile repository is not configured")
	}

	return s
}

// WithOrdersSource sets the order snapshot source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrdersSource(src ordersSource) option {
	return func(s *CustomerService) {
		s.orders = src
	}
}

// WithPostgresClient wires the profile repository to Postgres.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CustomerService) {
		s.profileRepo = profilerepo.NewPostgresProfileRepository(pgClient.Pool())
	}
}

// WithProfileRepository sets the profile repository directly.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProfileRepository(repo iprofilerepo.IProfileRepository) option {
	return func(s *CustomerService) {
		s.profileRepo = repo
	}
}

// Customers folds the order history into ranked customer summaries.
func (s *CustomerService) Customers(ctx context.Context, q Query) ([]customer.Summary, error) {
	ctx, span := otel.Tracer("customersvc").Start(ctx, "CustomerService.Customers")
	defer span.End()

	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer profiles: %w", err)
	}

	return Summarize(s.orders.Orders(), profiles, q, time.Now()), nil
}

// SaveProfile inserts or updates a curated profile.
func (s *CustomerService) SaveProfile(ctx context.Context, profile customer.Profile) error {
	ctx, span := otel.Tracer("customersvc").Start(ctx, "CustomerService.SaveProfile")
	defer span.End()

	if profile.Phone == "" {
		return fmt.Errorf("profile phone is required")
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		slog.Error("Failed to save customer profile", "phone", profile.Phone, "error", err)

		return err
	}

	return nil
}

// RemoveProfile deletes the curated profile for a phone number.
func (s *CustomerService) RemoveProfile(ctx context.Context, phone string) error {
	ctx, span := otel.Tracer("customersvc").Start(ctx, "CustomerService.RemoveProfile")
	defer span.End()

	if err := s.profileRepo.Delete(ctx, phone); err != nil {
		slog.Error("Failed to remove customer profile", "phone", phone, "error", err)

		return err
	}

	return nil
}
