package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusShipped, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusShipped, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusShipped, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			if got := tc.from.CanTransition(tc.to); got != tc.ok {
				t.Fatalf("expected %v, got %v", tc.ok, got)
			}
		})
	}

	if !StatusDelivered.Terminal() || !StatusCancelled.Terminal() || StatusPending.Terminal() {
		t.Fatal("unexpected terminal states")
	}
}

func TestCheckAmounts(t *testing.T) {
	d := decimal.RequireFromString
	valid := Order{
		DeliveryCost: d("5.00"),
		SubTotal:     d("30.00"),
		AmountPaid:   d("35.00"),
		Items: []OrderItem{
			{Quantity: 2, UnitPrice: d("12.50"), LineTotal: d("25.00")},
			{Quantity: 1, UnitPrice: d("5.00"), LineTotal: d("5.00")},
		},
	}
	if err := valid.CheckAmounts(); err != nil {
		t.Fatalf("expected valid order, got %v", err)
	}

	t.Run("line total mismatch", func(t *testing.T) {
		o := valid
		o.Items = append([]OrderItem(nil), valid.Items...)
		o.Items[0].LineTotal = d("24.00")
		if err := o.CheckAmounts(); !errors.Is(err, ErrInvalidOrder) {
			t.Fatalf("expected ErrInvalidOrder, got %v", err)
		}
	})

	t.Run("amount paid mismatch", func(t *testing.T) {
		o := valid
		o.AmountPaid = d("30.00")
		if err := o.CheckAmounts(); !errors.Is(err, ErrInvalidOrder) {
			t.Fatalf("expected ErrInvalidOrder, got %v", err)
		}
	})

	t.Run("zero quantity", func(t *testing.T) {
		o := valid
		o.Items = []OrderItem{{Quantity: 0, UnitPrice: d("1"), LineTotal: d("0")}}
		if err := o.CheckAmounts(); !errors.Is(err, ErrInvalidOrder) {
			t.Fatalf("expected ErrInvalidOrder, got %v", err)
		}
	})
}

func TestPaymentMethod(t *testing.T) {
	if !PaymentCOD.Valid() || !PaymentBankTransfer.Valid() || PaymentMethod("card").Valid() {
		t.Fatal("unexpected validity")
	}
	if PaymentBankTransfer.Label() != "Bank Transfer" {
		t.Fatalf("unexpected label %q", PaymentBankTransfer.Label())
	}
}
