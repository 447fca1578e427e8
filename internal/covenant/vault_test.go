package covenant

import (
	"context"
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-treasury/internal/commitment"
	"github.com/Klingon-tech/klingnet-treasury/internal/provider"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

func TestPauseVault(t *testing.T) {
	mock := provider.NewMock()
	com := encodeVault(t, &commitment.Vault{
		Status:          commitment.StatusActive,
		Flags:           commitment.FlagCancelable | commitment.FlagResumable,
		PeriodStart:     testNow - 100,
		SpentThisPeriod: 500,
		Approvals:       3,
	})
	addr := primeState(t, mock, vaultParams(), com, 10_000, 0)

	p, err := newTestEngine(mock).PauseVault(context.Background(), vaultParams(), testCategory, testNow)
	if err != nil {
		t.Fatalf("PauseVault: %v", err)
	}

	if len(p.Tx.Inputs) != 1 || len(p.Tx.Outputs) != 1 {
		t.Fatalf("tx shape = %d in / %d out, want 1/1", len(p.Tx.Inputs), len(p.Tx.Outputs))
	}
	if p.Tx.LockTime != testNow {
		t.Errorf("locktime = %d, want caller-supplied now", p.Tx.LockTime)
	}

	out := p.Tx.Outputs[0]
	if !out.Script.Equal(types.CovenantScript(addr)) {
		t.Error("successor must stay at the covenant address")
	}
	if out.Value != 10_000-pauseFee {
		t.Errorf("successor value = %d, want backing minus fee budget", out.Value)
	}

	next, err := commitment.DecodeVault(out.Token.NFT.Commitment)
	if err != nil {
		t.Fatalf("decode successor: %v", err)
	}
	if next.Status != commitment.StatusPaused {
		t.Errorf("successor status = %s, want paused", next.Status)
	}
	// Counters carry forward unchanged.
	if next.SpentThisPeriod != 500 || next.Approvals != 3 {
		t.Errorf("counters not carried forward: %+v", next)
	}

	if len(p.SourceOutputs) != 1 || p.SourceOutputs[0].Unlock != UnlockPause {
		t.Errorf("source outputs = %+v", p.SourceOutputs)
	}
	if !p.Broadcast || p.UserPrompt == "" {
		t.Error("proposal should request broadcast with a prompt")
	}
}

func TestPauseVault_AlreadyPaused(t *testing.T) {
	mock := provider.NewMock()
	com := encodeVault(t, &commitment.Vault{
		Status: commitment.StatusPaused,
		Flags:  commitment.FlagCancelable | commitment.FlagResumable,
	})
	primeState(t, mock, vaultParams(), com, 10_000, 0)

	_, err := newTestEngine(mock).PauseVault(context.Background(), vaultParams(), testCategory, testNow)
	if !errors.Is(err, ErrPrecondition) {
		t.Errorf("want ErrPrecondition, got %v", err)
	}
}

func TestPauseVault_NotCancelable(t *testing.T) {
	mock := provider.NewMock()
	com := encodeVault(t, &commitment.Vault{Status: commitment.StatusActive})
	primeState(t, mock, vaultParams(), com, 10_000, 0)

	_, err := newTestEngine(mock).PauseVault(context.Background(), vaultParams(), testCategory, testNow)
	if !errors.Is(err, ErrPrecondition) {
		t.Errorf("want ErrPrecondition, got %v", err)
	}
}

func TestResumeVault(t *testing.T) {
	mock := provider.NewMock()
	com := encodeVault(t, &commitment.Vault{
		Status: commitment.StatusPaused,
		Flags:  commitment.FlagCancelable | commitment.FlagResumable,
	})
	primeState(t, mock, vaultParams(), com, 10_000, 0)

	p, err := newTestEngine(mock).ResumeVault(context.Background(), vaultParams(), testCategory, testNow)
	if err != nil {
		t.Fatalf("ResumeVault: %v", err)
	}

	next, err := commitment.DecodeVault(p.Tx.Outputs[0].Token.NFT.Commitment)
	if err != nil {
		t.Fatalf("decode successor: %v", err)
	}
	if next.Status != commitment.StatusActive {
		t.Errorf("successor status = %s, want active", next.Status)
	}
}

func TestResumeVault_NotResumable(t *testing.T) {
	mock := provider.NewMock()
	com := encodeVault(t, &commitment.Vault{
		Status: commitment.StatusPaused,
		Flags:  commitment.FlagCancelable,
	})
	primeState(t, mock, vaultParams(), com, 10_000, 0)

	_, err := newTestEngine(mock).ResumeVault(context.Background(), vaultParams(), testCategory, testNow)
	if !errors.Is(err, ErrPrecondition) {
		t.Errorf("want ErrPrecondition, got %v", err)
	}
}

func TestCancelVault(t *testing.T) {
	mock := provider.NewMock()
	com := encodeVault(t, &commitment.Vault{
		Status: commitment.StatusPaused,
		Flags:  commitment.FlagCancelable,
	})
	primeState(t, mock, vaultParams(), com, 50_000, 0)

	p, err := newTestEngine(mock).CancelVault(context.Background(), vaultParams(), testCategory, testNow)
	if err != nil {
		t.Fatalf("CancelVault: %v", err)
	}

	// Terminal: single payout to the authority, no successor state output.
	if len(p.Tx.Outputs) != 1 {
		t.Fatalf("outputs = %d, want 1", len(p.Tx.Outputs))
	}
	out := p.Tx.Outputs[0]
	if out.Token != nil {
		t.Error("cancel payout must not carry a successor NFT")
	}
	if !out.Script.Equal(types.P2PKHScript(testAuthority)) {
		t.Error("payout must go to the authority")
	}
	if out.Value != 50_000-cancelFee {
		t.Errorf("payout = %d, want backing minus fee budget", out.Value)
	}
	if p.SourceOutputs[0].Unlock != UnlockCancel {
		t.Errorf("unlock = %q", p.SourceOutputs[0].Unlock)
	}
}

func TestCancelVault_RemainingBelowDust(t *testing.T) {
	mock := provider.NewMock()
	com := encodeVault(t, &commitment.Vault{
		Status: commitment.StatusActive,
		Flags:  commitment.FlagCancelable,
	})
	primeState(t, mock, vaultParams(), com, cancelFee+testDust, 0)

	_, err := newTestEngine(mock).CancelVault(context.Background(), vaultParams(), testCategory, testNow)
	if !errors.Is(err, ErrRemainingBelowDust) {
		t.Errorf("want ErrRemainingBelowDust, got %v", err)
	}
}

func TestCancelVault_InsufficientBalance(t *testing.T) {
	mock := provider.NewMock()
	com := encodeVault(t, &commitment.Vault{
		Status: commitment.StatusActive,
		Flags:  commitment.FlagCancelable,
	})
	primeState(t, mock, vaultParams(), com, cancelFee-1, 0)

	_, err := newTestEngine(mock).CancelVault(context.Background(), vaultParams(), testCategory, testNow)
	if !errors.Is(err, ErrInsufficientContractBalance) {
		t.Errorf("want ErrInsufficientContractBalance, got %v", err)
	}
}

func TestPauseVault_InsufficientBalance(t *testing.T) {
	mock := provider.NewMock()
	com := encodeVault(t, &commitment.Vault{
		Status: commitment.StatusActive,
		Flags:  commitment.FlagCancelable,
	})
	primeState(t, mock, vaultParams(), com, pauseFee+testDust-1, 0)

	_, err := newTestEngine(mock).PauseVault(context.Background(), vaultParams(), testCategory, testNow)
	if !errors.Is(err, ErrInsufficientContractBalance) {
		t.Errorf("want ErrInsufficientContractBalance, got %v", err)
	}
}
