package billing

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateDefaultsAndValidation(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	inv, err := svc.Create(ctx, CreateInput{
		UserID:      "user-1",
		Number:      "INV-2026-001",
		AmountCents: 125000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.Currency != "GBP" || inv.Status != StatusOpen {
		t.Fatalf("defaults not applied: %+v", inv)
	}
	if inv.IssuedAt.IsZero() {
		t.Fatal("issuedAt not set")
	}

	if _, err := svc.Create(ctx, CreateInput{UserID: "user-1", Number: "INV-2", AmountCents: 0}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero amount: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{UserID: "user-1", Number: "", AmountCents: 100}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty number: %v", err)
	}
}

func TestCreateRejectsDuplicateNumber(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{UserID: "user-1", Number: "INV-1", AmountCents: 100}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, CreateInput{UserID: "user-2", Number: "INV-1", AmountCents: 200})
	if !errors.Is(err, ErrDuplicateNumber) {
		t.Fatalf("duplicate number: %v", err)
	}
}

func TestGetHidesOtherUsersInvoices(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	inv, err := svc.Create(ctx, CreateInput{UserID: "user-1", Number: "INV-1", AmountCents: 100})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, "user-2", inv.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user get: %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := svc.Create(ctx, CreateInput{UserID: "user-1", Number: "INV-1", AmountCents: 100, IssuedAt: now.Add(-time.Hour)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{UserID: "user-1", Number: "INV-2", AmountCents: 100, IssuedAt: now}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Number != "INV-2" {
		t.Fatalf("unexpected order: %+v", list)
	}
}
