package covenant

import (
	"context"
	"fmt"

	"github.com/Klingon-tech/klingnet-treasury/internal/amount"
	"github.com/Klingon-tech/klingnet-treasury/internal/commitment"
	"github.com/Klingon-tech/klingnet-treasury/internal/funding"
	klog "github.com/Klingon-tech/klingnet-treasury/internal/log"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// DeployVault builds the genesis transaction instantiating a vault funded
// with fundingSats from the funder's wallet. The anchor UTXO's txid becomes
// the instance's token category.
func (e *Engine) DeployVault(ctx context.Context, params VaultParams, funder types.Address, fundingSats uint64, flags commitment.Flags, now uint64) (*Proposal, error) {
	initial := &commitment.Vault{
		Status:      commitment.StatusActive,
		Flags:       flags,
		PeriodStart: now,
	}
	encoded, err := initial.Encode()
	if err != nil {
		return nil, err
	}
	return e.deploy(ctx, params, funder, fundingSats, 0, encoded)
}

// DeployPayment builds the genesis transaction instantiating a recurring
// payment covenant, funded with fundingSats covering future payments. The
// first payment falls due one interval after deployment.
func (e *Engine) DeployPayment(ctx context.Context, params PaymentParams, funder types.Address, fundingSats uint64, flags commitment.Flags, now uint64) (*Proposal, error) {
	initial := &commitment.Payment{
		Status:        commitment.StatusActive,
		Flags:         flags,
		NextPaymentAt: now + params.IntervalSeconds,
	}
	encoded, err := initial.Encode()
	if err != nil {
		return nil, err
	}
	return e.deploy(ctx, params, funder, fundingSats, 0, encoded)
}

// DeployAirdrop builds the genesis transaction instantiating an airdrop,
// minting the full token pool onto the contract output alongside a coin
// balance covering future claim fees.
func (e *Engine) DeployAirdrop(ctx context.Context, params AirdropParams, funder types.Address, fundingSats uint64, flags commitment.Flags, now uint64) (*Proposal, error) {
	initial := &commitment.Airdrop{
		Status:  commitment.StatusActive,
		Flags:   flags,
		StartAt: now,
	}
	encoded, err := initial.Encode()
	if err != nil {
		return nil, err
	}
	return e.deploy(ctx, params, funder, fundingSats, params.TotalPool, encoded)
}

// deploy runs the shared genesis path: fetch the funder's UTXOs, build the
// coin-funded genesis with the initial commitment, and wrap the result as a
// signing proposal.
func (e *Engine) deploy(ctx context.Context, params Params, funder types.Address, fundingSats, mintAmount uint64, initialCommitment []byte) (*Proposal, error) {
	addr := DeriveAddress(params)

	utxos, err := e.Provider.UTXOs(ctx, funder)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: %w", params.Kind(), err)
	}

	res, err := funding.BuildGenesis(utxos, funding.Request{
		ContractAddress: addr,
		FunderAddress:   funder,
		RequiredValue:   fundingSats,
		MintAmount:      mintAmount,
		Capability:      types.CapabilityMinting,
		Commitment:      initialCommitment,
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
		Str("kind", params.Kind().String()).
		Str("address", addr.String()).
		Str("category", res.Category.String()).
		Msg("Building covenant deployment")

	return &Proposal{
		Tx:            res.Tx,
		SourceOutputs: sources,
		Broadcast:     true,
		UserPrompt: fmt.Sprintf("Deploy %s covenant %s funded with %s",
			params.Kind(), addr, amount.SatsToCoin(fundingSats)),
	}, nil
}
