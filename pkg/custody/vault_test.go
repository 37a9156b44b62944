package custody

import (
	"errors"
	"testing"

	"github.com/joripage/spotdex/pkg/exchange"
)

func TestVaultPullInRequiresApproval(t *testing.T) {
	v := NewVault()
	v.Mint("alice", "DAI", 100)

	if err := v.PullIn("alice", "DAI", 50); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	v.Approve("alice", "DAI", 50)
	if err := v.PullIn("alice", "DAI", 50); err != nil {
		t.Fatalf("PullIn: %v", err)
	}
	if got := v.ExternalBalanceOf("alice", "DAI"); got != 50 {
		t.Errorf("external balance = %d, want 50", got)
	}
}

func TestVaultPullInConsumesAllowance(t *testing.T) {
	v := NewVault()
	v.Mint("alice", "DAI", 100)
	v.Approve("alice", "DAI", 60)

	if err := v.PullIn("alice", "DAI", 60); err != nil {
		t.Fatalf("PullIn: %v", err)
	}
	if err := v.PullIn("alice", "DAI", 1); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized after allowance spent, got %v", err)
	}
}

func TestVaultPullInChecksBalance(t *testing.T) {
	v := NewVault()
	v.Mint("alice", "DAI", 10)
	v.Approve("alice", "DAI", 100)

	if err := v.PullIn("alice", "DAI", 50); !errors.Is(err, ErrExternalBalance) {
		t.Fatalf("expected ErrExternalBalance, got %v", err)
	}
	// failed pull leaves both untouched
	if got := v.ExternalBalanceOf("alice", "DAI"); got != 10 {
		t.Errorf("external balance = %d, want 10", got)
	}
	if err := v.PullIn("alice", "DAI", 10); err != nil {
		t.Fatalf("PullIn after failure: %v", err)
	}
}

func TestVaultPushOut(t *testing.T) {
	v := NewVault()
	if err := v.PushOut("bob", exchange.Ticker("ZRX"), 25); err != nil {
		t.Fatalf("PushOut: %v", err)
	}
	if got := v.ExternalBalanceOf("bob", "ZRX"); got != 25 {
		t.Errorf("external balance = %d, want 25", got)
	}
}
