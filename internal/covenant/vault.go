package covenant

import (
	"context"
	"fmt"

	"github.com/Klingon-tech/klingnet-treasury/internal/amount"
	"github.com/Klingon-tech/klingnet-treasury/internal/commitment"
	klog "github.com/Klingon-tech/klingnet-treasury/internal/log"
	"github.com/Klingon-tech/klingnet-treasury/pkg/tx"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// PauseVault builds the transition suspending an active vault. Requires
// status active and the cancelable flag.
func (e *Engine) PauseVault(ctx context.Context, params VaultParams, category types.Category, now uint64) (*Proposal, error) {
	addr := DeriveAddress(params)
	st, err := ReadState(ctx, e.Provider, addr, category)
	if err != nil {
		return nil, err
	}
	v, err := commitment.DecodeVault(st.Commitment)
	if err != nil {
		return nil, err
	}

	if v.Status != commitment.StatusActive {
		return nil, fmt.Errorf("%w: pause requires active status, vault is %s", ErrPrecondition, v.Status)
	}
	if !v.Flags.Cancelable() {
		return nil, fmt.Errorf("%w: vault is not cancelable", ErrPrecondition)
	}

	next := *v
	next.Status = commitment.StatusPaused
	encoded, err := next.Encode()
	if err != nil {
		return nil, err
	}

	klog.Covenant.Info().Str("address", addr.String()).Msg("Building vault pause")
	return e.successor(st, addr, encoded, UnlockPause, pauseFee, now,
		fmt.Sprintf("Pause vault %s", addr))
}

// ResumeVault builds the transition reactivating a paused vault. Requires
// status paused and the resumable flag.
func (e *Engine) ResumeVault(ctx context.Context, params VaultParams, category types.Category, now uint64) (*Proposal, error) {
	addr := DeriveAddress(params)
	st, err := ReadState(ctx, e.Provider, addr, category)
	if err != nil {
		return nil, err
	}
	v, err := commitment.DecodeVault(st.Commitment)
	if err != nil {
		return nil, err
	}

	if v.Status != commitment.StatusPaused {
		return nil, fmt.Errorf("%w: resume requires paused status, vault is %s", ErrPrecondition, v.Status)
	}
	if !v.Flags.Resumable() {
		return nil, fmt.Errorf("%w: vault is not resumable", ErrPrecondition)
	}

	next := *v
	next.Status = commitment.StatusActive
	encoded, err := next.Encode()
	if err != nil {
		return nil, err
	}

	klog.Covenant.Info().Str("address", addr.String()).Msg("Building vault resume")
	return e.successor(st, addr, encoded, UnlockResume, resumeFee, now,
		fmt.Sprintf("Resume vault %s", addr))
}

// CancelVault builds the terminal transition recovering a vault's remaining
// coin balance to the authority. Requires active or paused status and the
// cancelable flag; no successor state output is minted.
func (e *Engine) CancelVault(ctx context.Context, params VaultParams, category types.Category, now uint64) (*Proposal, error) {
	addr := DeriveAddress(params)
	st, err := ReadState(ctx, e.Provider, addr, category)
	if err != nil {
		return nil, err
	}
	v, err := commitment.DecodeVault(st.Commitment)
	if err != nil {
		return nil, err
	}

	if v.Status == commitment.StatusCancelled {
		return nil, fmt.Errorf("%w: vault is already cancelled", ErrPrecondition)
	}
	if !v.Flags.Cancelable() {
		return nil, fmt.Errorf("%w: vault is not cancelable", ErrPrecondition)
	}

	if st.UTXO.Value < cancelFee {
		return nil, fmt.Errorf("%w: backing value %d below fee budget %d",
			ErrInsufficientContractBalance, st.UTXO.Value, cancelFee)
	}
	remaining := st.UTXO.Value - cancelFee
	if remaining <= e.Dust {
		return nil, fmt.Errorf("%w: %d after fee", ErrRemainingBelowDust, remaining)
	}

	txn := tx.NewBuilder().
		AddInput(st.UTXO.Outpoint).
		AddOutput(remaining, types.P2PKHScript(params.AuthorityHash)).
		SetLockTime(now).
		Build()

	klog.Covenant.Info().
		Str("address", addr.String()).
		Uint64("recovered", remaining).
		Msg("Building vault cancel")

	return &Proposal{
		Tx:            txn,
		SourceOutputs: []SourceOutput{sourceFromUTXO(st.UTXO, UnlockCancel)},
		Broadcast:     true,
		UserPrompt:    fmt.Sprintf("Cancel vault %s, recovering %s to the authority", addr, amount.SatsToCoin(remaining)),
	}, nil
}
