package exchange

import (
	"errors"
	"testing"
)

// fakeCustody is the external movement collaborator for tests: balances are
// unlimited unless a failure is forced.
type fakeCustody struct {
	pullErr error
	pushErr error
	pulled  map[Ticker]int64
	pushed  map[Ticker]int64
}

func newFakeCustody() *fakeCustody {
	return &fakeCustody{
		pulled: make(map[Ticker]int64),
		pushed: make(map[Ticker]int64),
	}
}

func (c *fakeCustody) PullIn(trader string, ticker Ticker, amount int64) error {
	if c.pullErr != nil {
		return c.pullErr
	}
	c.pulled[ticker] += amount
	return nil
}

func (c *fakeCustody) PushOut(trader string, ticker Ticker, amount int64) error {
	if c.pushErr != nil {
		return c.pushErr
	}
	c.pushed[ticker] += amount
	return nil
}

func newTestRegistry(t *testing.T) *AssetRegistry {
	t.Helper()
	reg := NewAssetRegistry()
	for _, a := range []Asset{
		{Ticker: "DAI", IsQuote: true},
		{Ticker: "ZRX"},
		{Ticker: "REP"},
	} {
		if err := reg.Register(a); err != nil {
			t.Fatalf("register %s: %v", a.Ticker, err)
		}
	}
	return reg
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	cust := newFakeCustody()
	ledger := NewLedger(newTestRegistry(t), cust)

	if err := ledger.Deposit("alice", "DAI", 100); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if got := ledger.BalanceOf("alice", "DAI"); got != 100 {
		t.Errorf("balance after deposit = %d, want 100", got)
	}

	if err := ledger.Withdraw("alice", "DAI", 100); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if got := ledger.BalanceOf("alice", "DAI"); got != 0 {
		t.Errorf("balance after withdraw = %d, want 0", got)
	}
	if cust.pulled["DAI"] != 100 || cust.pushed["DAI"] != 100 {
		t.Errorf("external transfers pulled=%d pushed=%d, want 100/100", cust.pulled["DAI"], cust.pushed["DAI"])
	}
}

func TestDepositUnknownAsset(t *testing.T) {
	ledger := NewLedger(newTestRegistry(t), newFakeCustody())

	if err := ledger.Deposit("alice", "DOGE", 100); !errors.Is(err, ErrUnknownAsset) {
		t.Errorf("deposit unknown asset err = %v, want ErrUnknownAsset", err)
	}
}

func TestDepositExternalFailureLeavesLedgerUntouched(t *testing.T) {
	cust := newFakeCustody()
	cust.pullErr = errors.New("allowance revoked")
	ledger := NewLedger(newTestRegistry(t), cust)

	err := ledger.Deposit("alice", "DAI", 100)
	if !errors.Is(err, ErrExternalTransfer) {
		t.Fatalf("deposit err = %v, want ErrExternalTransfer", err)
	}
	if got := ledger.BalanceOf("alice", "DAI"); got != 0 {
		t.Errorf("balance = %d, want 0", got)
	}
}

func TestWithdrawMoreThanBalance(t *testing.T) {
	ledger := NewLedger(newTestRegistry(t), newFakeCustody())

	if err := ledger.Deposit("alice", "ZRX", 50); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := ledger.Withdraw("alice", "ZRX", 51); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("withdraw err = %v, want ErrInsufficientBalance", err)
	}
	if got := ledger.BalanceOf("alice", "ZRX"); got != 50 {
		t.Errorf("balance changed on failed withdraw: %d", got)
	}
}

func TestWithdrawExternalFailureLeavesLedgerUntouched(t *testing.T) {
	cust := newFakeCustody()
	ledger := NewLedger(newTestRegistry(t), cust)

	if err := ledger.Deposit("alice", "ZRX", 50); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	cust.pushErr = errors.New("custody rejected")
	if err := ledger.Withdraw("alice", "ZRX", 10); !errors.Is(err, ErrExternalTransfer) {
		t.Fatalf("withdraw err = %v, want ErrExternalTransfer", err)
	}
	if got := ledger.BalanceOf("alice", "ZRX"); got != 50 {
		t.Errorf("balance = %d, want 50", got)
	}
}

func TestBalanceOfUntouchedIsZero(t *testing.T) {
	ledger := NewLedger(newTestRegistry(t), newFakeCustody())

	if got := ledger.BalanceOf("nobody", "REP"); got != 0 {
		t.Errorf("balance = %d, want 0", got)
	}
}
