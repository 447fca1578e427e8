package covenant

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-treasury/internal/provider"
	"github.com/Klingon-tech/klingnet-treasury/pkg/tx"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// Precondition and balance errors.
var (
	ErrPrecondition                = errors.New("precondition failed")
	ErrNothingToCancel             = errors.New("nothing to cancel")
	ErrRemainingBelowDust          = errors.New("remaining value below dust")
	ErrInsufficientContractBalance = errors.New("insufficient contract balance")
)

// Fixed fee budgets per action, subtracted from the backing UTXO.
const (
	pauseFee  = 800
	resumeFee = 800
	cancelFee = 1000
)

// Engine builds state-transition transactions. It is stateless and safe for
// concurrent use; the provider is its only side channel.
type Engine struct {
	Provider provider.Provider
	Dust     uint64
	FeeRate  uint64
}

// NewEngine creates an engine reading chain state from prov.
func NewEngine(prov provider.Provider, dust, feeRate uint64) *Engine {
	if feeRate == 0 {
		feeRate = tx.DefaultFeeRate
	}
	return &Engine{Provider: prov, Dust: dust, FeeRate: feeRate}
}

// successor assembles the common single-input transition: consume the state
// UTXO, mint one successor output at the same address carrying the next
// commitment, pay the action's fee budget out of the backing value.
func (e *Engine) successor(st *State, addr types.Address, nextCommitment []byte, unlock string, feeBudget, now uint64, prompt string) (*Proposal, error) {
	if st.UTXO.Value < feeBudget+e.Dust {
		return nil, fmt.Errorf("%w: backing value %d cannot cover fee %d plus dust successor",
			ErrInsufficientContractBalance, st.UTXO.Value, feeBudget)
	}

	token := types.TokenData{
		Category: st.UTXO.Token.Category,
		Amount:   st.UTXO.Token.Amount,
		NFT: &types.NFTData{
			Capability: st.Capability,
			Commitment: nextCommitment,
		},
	}

	txn := tx.NewBuilder().
		AddInput(st.UTXO.Outpoint).
		AddTokenOutput(st.UTXO.Value-feeBudget, types.CovenantScript(addr), token).
		SetLockTime(now).
		Build()

	return &Proposal{
		Tx:            txn,
		SourceOutputs: []SourceOutput{sourceFromUTXO(st.UTXO, unlock)},
		Broadcast:     true,
		UserPrompt:    prompt,
	}, nil
}
