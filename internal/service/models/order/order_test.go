package order

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "pending", want: StatusPending},
		{in: "preparing", want: StatusPreparing},
		{in: "ready", want: StatusReady},
		{in: "completed", want: StatusCompleted},
		{in: "cancelled", want: StatusCancelled},
		{in: "PENDING", wantErr: true},
		{in: "delivered", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStatus) {
					t.Fatalf("ParseStatus(%q) error = %v, want ErrInvalidStatus", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePaymentStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    PaymentStatus
		wantErr bool
	}{
		{in: "pending", want: PaymentPending},
		{in: "paid", want: PaymentPaid},
		{in: "unpaid", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePaymentStatus(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPaymentStatus) {
					t.Fatalf("ParsePaymentStatus(%q) error = %v, want ErrInvalidPaymentStatus", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePaymentStatus(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePaymentStatus(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUpdateFieldsEmpty(t *testing.T) {
	if !(UpdateFields{}).Empty() {
		t.Error("zero UpdateFields should be empty")
	}

	status := StatusReady
	if (UpdateFields{Status: &status}).Empty() {
		t.Error("UpdateFields with status should not be empty")
	}

	payment := PaymentPaid
	if (UpdateFields{PaymentStatus: &payment}).Empty() {
		t.Error("UpdateFields with payment status should not be empty")
	}
}
