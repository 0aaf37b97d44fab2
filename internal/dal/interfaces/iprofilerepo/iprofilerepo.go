package iprofilerepo

import (
	"context"

	"github.com/comandalivre/opsdesk/internal/service/models/customer"
)

// IProfileRepository is an interface for the customer profile postgres repository.
type IProfileRepository interface {
	List(ctx context.Context) ([]customer.Profile, error)
	Upsert(ctx context.Context, profile customer.Profile) error
	Delete(ctx context.Context, phone string) error
}
