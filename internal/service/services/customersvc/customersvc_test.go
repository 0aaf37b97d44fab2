package customersvc

import (
	"context"
	"errors"
	"testing"

	"github.com/comandalivre/opsdesk/internal/service/models/customer"
	"github.com/comandalivre/opsdesk/internal/service/models/order"
)

type fakeProfileRepo struct {
	profiles []customer.Profile
	listErr  error
	upserted []customer.Profile
	deleted  []string
}

func (f *fakeProfileRepo) List(ctx context.Context) ([]customer.Profile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.profiles, nil
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, profile customer.Profile) error {
	f.upserted = append(f.upserted, profile)
	return nil
}

func (f *fakeProfileRepo) Delete(ctx context.Context, phone string) error {
	f.deleted = append(f.deleted, phone)
	return nil
}

type fakeOrdersSource struct {
	orders []order.Order
}

func (f *fakeOrdersSource) Orders() []order.Order {
	return f.orders
}

func TestCustomersAppliesProfiles(t *testing.T) {
	src := &fakeOrdersSource{orders: []order.Order{
		mkOrder(1, "21999990000", "Ana", 1000, now),
	}}
	repo := &fakeProfileRepo{profiles: []customer.Profile{
		{Phone: "21999990000", Name: "Ana Curada"},
	}}

	svc := MustNewCustomerService(
		WithOrdersSource(src),
		WithProfileRepository(repo),
	)

	got, err := svc.Customers(context.Background(), Query{})
	if err != nil {
		t.Fatalf("customers: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Ana Curada" {
		t.Fatalf("got %+v, want the curated name", got)
	}
}

func TestCustomersProfileListError(t *testing.T) {
	svc := MustNewCustomerService(
		WithOrdersSource(&fakeOrdersSource{}),
		WithProfileRepository(&fakeProfileRepo{listErr: errors.New("store unreachable")}),
	)

	if _, err := svc.Customers(context.Background(), Query{}); err == nil {
		t.Fatal("expected the store error to surface")
	}
}

func TestSaveProfileRequiresPhone(t *testing.T) {
	repo := &fakeProfileRepo{}
	svc := MustNewCustomerService(
		WithOrdersSource(&fakeOrdersSource{}),
		WithProfileRepository(repo),
	)

	if err := svc.SaveProfile(context.Background(), customer.Profile{Name: "Sem Telefone"}); err == nil {
		t.Fatal("expected an error for a profile without a phone")
	}
	if len(repo.upserted) != 0 {
		t.Error("invalid profile must not reach the repository")
	}

	if err := svc.SaveProfile(context.Background(), customer.Profile{Phone: "21999990000"}); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	if len(repo.upserted) != 1 {
		t.Error("valid profile was not persisted")
	}
}

func TestRemoveProfile(t *testing.T) {
	repo := &fakeProfileRepo{}
	svc := MustNewCustomerService(
		WithOrdersSource(&fakeOrdersSource{}),
		WithProfileRepository(repo),
	)

	if err := svc.RemoveProfile(context.Background(), "21999990000"); err != nil {
		t.Fatalf("remove profile: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "21999990000" {
		t.Errorf("deleted = %v", repo.deleted)
	}
}
