package tokens

import (
	"context"
	"errors"
	"testing"
)

func TestHasMinimumBalance(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	st.SetBalance("broker-1", MinimumBalance)
	st.SetBalance("broker-2", MinimumBalance-1)
	svc := NewServiceWithStore(st)

	ok, balance, err := svc.HasMinimumBalance(ctx, "broker-1")
	if err != nil || !ok || balance != MinimumBalance {
		t.Errorf("broker-1: got ok=%v balance=%d err=%v, want ok at %d", ok, balance, err, MinimumBalance)
	}

	ok, _, err = svc.HasMinimumBalance(ctx, "broker-2")
	if err != nil || ok {
		t.Errorf("broker-2: expected below minimum, got ok=%v err=%v", ok, err)
	}

	if _, _, err := svc.HasMinimumBalance(ctx, "no-such-broker"); !errors.Is(err, ErrBrokerNotFound) {
		t.Errorf("expected ErrBrokerNotFound, got %v", err)
	}
}

func TestChargesAppendItemizedLedgerEntries(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	st.SetBalance("broker-1", 20)
	svc := NewServiceWithStore(st)

	onboarding, err := svc.ChargeOnboarding(ctx, "broker-1", "Jane Doe")
	if err != nil {
		t.Fatalf("ChargeOnboarding: %v", err)
	}
	if onboarding.Amount != -FeeOnboarding || onboarding.BalanceAfter != 15 {
		t.Errorf("onboarding entry = %+v, want amount -%d balance 15", onboarding, FeeOnboarding)
	}
	if onboarding.ActionType != ActionOnboarding {
		t.Errorf("action = %s, want %s", onboarding.ActionType, ActionOnboarding)
	}

	scan, err := svc.ChargeAIScan(ctx, "broker-1", "passport.jpg")
	if err != nil {
		t.Fatalf("ChargeAIScan: %v", err)
	}
	if scan.Amount != -FeeAIScan || scan.BalanceAfter != 5 {
		t.Errorf("scan entry = %+v, want amount -%d balance 5", scan, FeeAIScan)
	}

	balance, err := svc.Balance(ctx, "broker-1")
	if err != nil || balance != 5 {
		t.Errorf("balance = %d err=%v, want 5", balance, err)
	}

	ledger, err := svc.Transactions(ctx, "broker-1")
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(ledger) != 2 {
		t.Fatalf("ledger has %d entries, want 2", len(ledger))
	}
	// Newest first.
	if ledger[0].ActionType != ActionAIScan || ledger[1].ActionType != ActionOnboarding {
		t.Errorf("ledger order = %s, %s", ledger[0].ActionType, ledger[1].ActionType)
	}
}

func TestChargeCanDriveBalanceNegative(t *testing.T) {
	// The minimum-balance gate runs before a submission starts; charges that
	// accrue during processing are applied unconditionally.
	ctx := context.Background()
	st := NewMemoryStore()
	st.SetBalance("broker-1", MinimumBalance)
	svc := NewServiceWithStore(st)

	if _, err := svc.ChargeOnboarding(ctx, "broker-1", "Jane Doe"); err != nil {
		t.Fatalf("ChargeOnboarding: %v", err)
	}
	txn, err := svc.ChargeAIScan(ctx, "broker-1", "passport.jpg")
	if err != nil {
		t.Fatalf("ChargeAIScan: %v", err)
	}
	if txn.BalanceAfter != MinimumBalance-FeeOnboarding-FeeAIScan {
		t.Errorf("balance after = %d, want %d", txn.BalanceAfter, MinimumBalance-FeeOnboarding-FeeAIScan)
	}
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	st := NewMemoryStore()
	st.SetBalance("broker-1", 0)
	svc := NewServiceWithStore(st)
	if _, err := svc.Credit(context.Background(), "broker-1", 0, ActionPurchase, "x"); err == nil {
		t.Error("expected error for zero credit")
	}
	if _, err := svc.Credit(context.Background(), "broker-1", -5, ActionPurchase, "x"); err == nil {
		t.Error("expected error for negative credit")
	}
}
