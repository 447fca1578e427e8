package covenant

import (
	"context"
	"fmt"

	"github.com/Klingon-tech/klingnet-treasury/internal/commitment"
	klog "github.com/Klingon-tech/klingnet-treasury/internal/log"
	"github.com/Klingon-tech/klingnet-treasury/pkg/tx"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// PauseAirdrop builds the transition suspending an active airdrop pool.
func (e *Engine) PauseAirdrop(ctx context.Context, params AirdropParams, category types.Category, now uint64) (*Proposal, error) {
	addr := DeriveAddress(params)
	st, err := ReadState(ctx, e.Provider, addr, category)
	if err != nil {
		return nil, err
	}
	a, err := commitment.DecodeAirdrop(st.Commitment)
	if err != nil {
		return nil, err
	}

	if a.Status != commitment.StatusActive {
		return nil, fmt.Errorf("%w: pause requires active status, airdrop is %s", ErrPrecondition, a.Status)
	}
	if !a.Flags.Cancelable() {
		return nil, fmt.Errorf("%w: airdrop is not cancelable", ErrPrecondition)
	}

	next := *a
	next.Status = commitment.StatusPaused
	encoded, err := next.Encode()
	if err != nil {
		return nil, err
	}

	klog.Covenant.Info().Str("address", addr.String()).Msg("Building airdrop pause")
	return e.successor(st, addr, encoded, UnlockPause, pauseFee, now,
		fmt.Sprintf("Pause airdrop %s", addr))
}

// CancelAirdrop builds the terminal transition recovering an airdrop's
// unclaimed tokens to the authority. The unclaimed remainder is computed
// from the commitment's claim counter against the constructor-supplied pool
// total; recovered tokens ride a dust-valued output, and any coin leftover
// above dust returns as change.
func (e *Engine) CancelAirdrop(ctx context.Context, params AirdropParams, category types.Category, now uint64) (*Proposal, error) {
	addr := DeriveAddress(params)
	st, err := ReadState(ctx, e.Provider, addr, category)
	if err != nil {
		return nil, err
	}
	a, err := commitment.DecodeAirdrop(st.Commitment)
	if err != nil {
		return nil, err
	}

	if a.Status == commitment.StatusCancelled {
		return nil, fmt.Errorf("%w: airdrop is already cancelled", ErrPrecondition)
	}
	if !a.Flags.Cancelable() {
		return nil, fmt.Errorf("%w: airdrop is not cancelable", ErrPrecondition)
	}

	if a.TotalClaimed >= params.TotalPool {
		return nil, fmt.Errorf("%w: %d of %d claimed", ErrNothingToCancel, a.TotalClaimed, params.TotalPool)
	}
	remaining := params.TotalPool - a.TotalClaimed

	// The token payout needs a dust carrier on top of the fee budget.
	if st.UTXO.Value < cancelFee+e.Dust {
		return nil, fmt.Errorf("%w: backing value %d below fee budget %d plus dust carrier",
			ErrInsufficientContractBalance, st.UTXO.Value, cancelFee)
	}

	payout := types.TokenData{
		Category: st.UTXO.Token.Category,
		Amount:   remaining,
	}
	b := tx.NewBuilder().
		AddInput(st.UTXO.Outpoint).
		AddTokenOutput(e.Dust, types.P2PKHScript(params.AuthorityHash), payout)

	if leftover := st.UTXO.Value - cancelFee - e.Dust; leftover > e.Dust {
		b.AddOutput(leftover, types.P2PKHScript(params.AuthorityHash))
	}

	txn := b.SetLockTime(now).Build()

	klog.Covenant.Info().
		Str("address", addr.String()).
		Uint64("tokens", remaining).
		Msg("Building airdrop cancel")

	return &Proposal{
		Tx:            txn,
		SourceOutputs: []SourceOutput{sourceFromUTXO(st.UTXO, UnlockCancel)},
		Broadcast:     true,
		UserPrompt:    fmt.Sprintf("Cancel airdrop %s, recovering %d unclaimed tokens", addr, remaining),
	}, nil
}
