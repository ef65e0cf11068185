package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"eur", "EUR"},
		{" usd ", "USD"},
		{"EUR", "EUR"},
		{"  GbP", "GBP"},
	}

	for _, tt := range tests {
		if got := NormalizeCurrency(tt.in); got != tt.want {
			t.Errorf("NormalizeCurrency(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidAmount(t *testing.T) {
	valid := []string{"0.01", "150.50", "1200", "99.9"}
	for _, s := range valid {
		amount, err := decimal.NewFromString(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if !ValidAmount(amount) {
			t.Errorf("expected %s to be valid", s)
		}
	}

	invalid := []string{"0", "-10.00", "10.555", "0.001"}
	for _, s := range invalid {
		amount, err := decimal.NewFromString(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if ValidAmount(amount) {
			t.Errorf("expected %s to be invalid", s)
		}
	}
}

func TestContribution_IsPaid(t *testing.T) {
	var c Contribution
	if c.IsPaid() {
		t.Error("contribution without paidAt should be unpaid")
	}

	paidAt := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	c.PaidAt = &paidAt
	if !c.IsPaid() {
		t.Error("contribution with paidAt should be paid")
	}
}
