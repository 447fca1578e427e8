package covenant

import (
	"context"
	"fmt"

	"github.com/Klingon-tech/klingnet-treasury/internal/amount"
	"github.com/Klingon-tech/klingnet-treasury/internal/funding"
	klog "github.com/Klingon-tech/klingnet-treasury/internal/log"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// FundTokens builds a transaction topping up the instance at addr with
// tokenAmount fungible units of its category from the funder's wallet. The
// top-up output carries no state commitment; the covenant folds it into the
// state UTXO on its next transition.
func (e *Engine) FundTokens(ctx context.Context, addr types.Address, category types.Category, funder types.Address, tokenAmount uint64) (*Proposal, error) {
	utxos, err := e.Provider.UTXOs(ctx, funder)
	if err != nil {
		return nil, fmt.Errorf("fund tokens: %w", err)
	}

	res, err := funding.BuildTokenFunding(utxos, category, funding.Request{
		ContractAddress: addr,
		FunderAddress:   funder,
		RequiredValue:   tokenAmount,
		Capability:      types.CapabilityNone,
		DustLimit:       e.Dust,
		FeeRate:         e.FeeRate,
	})
	if err != nil {
		return nil, err
	}

	sources := make([]SourceOutput, len(res.Selected))
	for i, u := range res.Selected {
		sources[i] = sourceFromUTXO(u, UnlockP2PKH)
	}

	klog.Covenant.Info().
		Str("address", addr.String()).
		Str("category", category.String()).
		Uint64("tokens", tokenAmount).
		Msg("Building token top-up")

	return &Proposal{
		Tx:            res.Tx,
		SourceOutputs: sources,
		Broadcast:     true,
		UserPrompt: fmt.Sprintf("Fund covenant %s with %s tokens",
			addr, amount.BaseToToken(tokenAmount)),
	}, nil
}
