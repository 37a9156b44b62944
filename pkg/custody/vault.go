// Package custody provides an in-memory implementation of the exchange's
// external asset-movement boundary, mirroring the token contracts the ledger
// settles against: external balances per (holder, ticker) plus a spending
// authorization the exchange must hold before it can pull funds in.
package custody

import (
	"errors"
	"sync"

	"github.com/joripage/spotdex/pkg/exchange"
)

var (
	ErrExternalBalance = errors.New("external balance too low")
	ErrNotAuthorized   = errors.New("transfer not authorized")
)

type holding struct {
	holder string
	ticker exchange.Ticker
}

// Vault holds external token balances and pull authorizations.
type Vault struct {
	mu         sync.Mutex
	balances   map[holding]int64
	allowances map[holding]int64
}

func NewVault() *Vault {
	return &Vault{
		balances:   make(map[holding]int64),
		allowances: make(map[holding]int64),
	}
}

// Mint credits a holder's external balance, faucet-style. Test and demo
// bootstrap only; a production vault fronts real token contracts.
func (v *Vault) Mint(holder string, ticker exchange.Ticker, amount int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.balances[holding{holder, ticker}] += amount
}

// Approve authorizes the exchange to pull up to amount units from the
// holder's external account. Replaces any prior authorization.
func (v *Vault) Approve(holder string, ticker exchange.Ticker, amount int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.allowances[holding{holder, ticker}] = amount
}

func (v *Vault) ExternalBalanceOf(holder string, ticker exchange.Ticker) int64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.balances[holding{holder, ticker}]
}

// PullIn implements exchange.Custody with transfer-from semantics: the move
// needs both balance and authorization, and consumes the authorization.
func (v *Vault) PullIn(trader string, ticker exchange.Ticker, amount int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	key := holding{trader, ticker}
	if v.allowances[key] < amount {
		return ErrNotAuthorized
	}
	if v.balances[key] < amount {
		return ErrExternalBalance
	}
	v.allowances[key] -= amount
	v.balances[key] -= amount
	return nil
}

// PushOut implements exchange.Custody; custody pays out unconditionally.
func (v *Vault) PushOut(trader string, ticker exchange.Ticker, amount int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.balances[holding{trader, ticker}] += amount
	return nil
}
