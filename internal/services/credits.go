package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreditStore backs the ledger with atomic balance updates.
type CreditStore interface {
	// Deduct decrements the balance by amount and returns the new balance.
	// It must fail without changing anything when funds are short.
	Deduct(ctx context.Context, userID uuid.UUID, amount int) (int, error)
	Balance(ctx context.Context, userID uuid.UUID) (int, error)
}

// CreditLedger charges users for analysis and generation operations.
type CreditLedger struct {
	store CreditStore
}

func NewCreditLedger(store CreditStore) *CreditLedger {
	return &CreditLedger{store: store}
}

// Charge deducts amount from the user's balance. Anonymous callers
// (nil userID) are not charged.
func (l *CreditLedger) Charge(ctx context.Context, userID *uuid.UUID, amount int) (int, error) {
	if userID == nil || amount <= 0 {
		return 0, nil
	}
	balance, err := l.store.Deduct(ctx, *userID, amount)
	if err != nil {
		if errors.Is(err, ErrInsufficientCredits) || errors.Is(err, ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: charging user %s: %v", ErrPersistence, userID, err)
	}
	return balance, nil
}

// Balance returns the user's remaining credits.
func (l *CreditLedger) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	balance, err := l.store.Balance(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: reading balance for %s: %v", ErrPersistence, userID, err)
	}
	return balance, nil
}
