package updateorder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/comandalivre/opsdesk/internal/service/models/order"
	"github.com/go-chi/chi/v5"
)

type fakeService struct {
	ids    []int64
	fields []order.UpdateFields
}

func (f *fakeService) Update(ctx context.Context, id int64, fields order.UpdateFields) error {
	f.ids = append(f.ids, id)
	f.fields = append(f.fields, fields)
	return nil
}

func newTestRouter(svc *fakeService) *chi.Mux {
	r := chi.NewRouter()
	r.Patch("/orders/{id}", func(w http.ResponseWriter, req *http.Request) {
		UpdateOrder(w, req, svc)
	})
	return r
}

func TestUpdateOrderDecodesPaymentStatusKey(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/orders/7", strings.NewReader(`{"paymentStatus":"paid"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204; body: %s", rec.Code, rec.Body.String())
	}
	if len(svc.fields) != 1 || svc.fields[0].PaymentStatus == nil {
		t.Fatalf("payment status did not reach the service: %+v", svc.fields)
	}
	if *svc.fields[0].PaymentStatus != order.PaymentPaid {
		t.Errorf("payment status = %q, want paid", *svc.fields[0].PaymentStatus)
	}
	if svc.fields[0].Status != nil {
		t.Error("status must stay unset for a payment-only request")
	}
	if svc.ids[0] != 7 {
		t.Errorf("id = %d, want 7", svc.ids[0])
	}
}

func TestUpdateOrderCombinedBody(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/orders/7", strings.NewReader(`{"status":"completed","paymentStatus":"paid"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(svc.fields) != 1 {
		t.Fatalf("want exactly one service call, got %d", len(svc.fields))
	}
	if svc.fields[0].Status == nil || svc.fields[0].PaymentStatus == nil {
		t.Error("both fields must travel in the single call")
	}
}

func TestUpdateOrderRejectsUnknownStatusAndEmptyBody(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/orders/7", strings.NewReader(`{"status":"flying"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status: code = %d, want 400", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/orders/7", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty body: code = %d, want 400", rec.Code)
	}

	if len(svc.fields) != 0 {
		t.Errorf("rejected requests must not reach the service: %+v", svc.fields)
	}
}
