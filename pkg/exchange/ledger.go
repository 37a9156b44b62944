package exchange

import (
	"fmt"
	"sync"
)

type balanceKey struct {
	trader string
	ticker Ticker
}

// Ledger tracks per-(trader, asset) custody balances. Balances are created
// implicitly on first deposit and never go negative; every mutation is a
// deposit, a withdrawal, or a trade settlement driven by the engine.
// The ledger knows nothing about orders.
type Ledger struct {
	mu       sync.RWMutex
	registry *AssetRegistry
	custody  Custody
	balances map[balanceKey]int64
}

func NewLedger(registry *AssetRegistry, custody Custody) *Ledger {
	return &Ledger{
		registry: registry,
		custody:  custody,
		balances: make(map[balanceKey]int64),
	}
}

// Deposit pulls amount units of ticker from the trader's external account and
// credits the custody balance. The external transfer happens first; a custody
// failure leaves the ledger untouched.
func (l *Ledger) Deposit(trader string, ticker Ticker, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := l.registry.Resolve(ticker); err != nil {
		return err
	}

	if err := l.custody.PullIn(trader, ticker, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrExternalTransfer, err)
	}

	l.credit(trader, ticker, amount)
	return nil
}

// Withdraw debits the custody balance and pushes amount units back to the
// trader's external account. Fails without touching state when the balance
// cannot cover the amount or the external push is rejected.
func (l *Ledger) Withdraw(trader string, ticker Ticker, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := l.registry.Resolve(ticker); err != nil {
		return err
	}
	if l.BalanceOf(trader, ticker) < amount {
		return ErrInsufficientBalance
	}

	if err := l.custody.PushOut(trader, ticker, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrExternalTransfer, err)
	}

	if err := l.debit(trader, ticker, amount); err != nil {
		return err
	}
	return nil
}

// BalanceOf is a pure read; never-touched balances read as zero.
func (l *Ledger) BalanceOf(trader string, ticker Ticker) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[balanceKey{trader, ticker}]
}

func (l *Ledger) credit(trader string, ticker Ticker, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[balanceKey{trader, ticker}] += amount
}

func (l *Ledger) debit(trader string, ticker Ticker, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := balanceKey{trader, ticker}
	if l.balances[key] < amount {
		return ErrInsufficientBalance
	}
	l.balances[key] -= amount
	return nil
}
