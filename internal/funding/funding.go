// Package funding selects unspent outputs and assembles the unsigned
// transactions that create or refuel a covenant instance.
//
// Two funding shapes exist. A coin-funded genesis mints a fresh token
// category: the funder must hold a plain UTXO at output index 0 (the
// category anchor) whose txid becomes the category id. A token-funded
// request moves existing fungible tokens of a known category into the
// contract and adds one plain UTXO to pay fees.
package funding

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-treasury/internal/amount"
	klog "github.com/Klingon-tech/klingnet-treasury/internal/log"
	"github.com/Klingon-tech/klingnet-treasury/internal/utxo"
	"github.com/Klingon-tech/klingnet-treasury/pkg/tx"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// GenesisReserve is the extra coin margin required on top of the funding
// amount when minting a new category; it absorbs the fee without forcing a
// reselect.
const GenesisReserve = 2000

// Funding errors.
var (
	ErrNoCategoryAnchor  = errors.New("no category anchor: funder has no plain UTXO at output index 0")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Units for InsufficientFundsError.
const (
	UnitCoin  = "coin"
	UnitToken = "token"
)

// InsufficientFundsError reports a selection shortfall. It matches
// errors.Is(err, ErrInsufficientFunds).
type InsufficientFundsError struct {
	Needed    uint64
	Available uint64
	Unit      string
}

func (e *InsufficientFundsError) Error() string {
	if e.Unit == UnitCoin {
		return fmt.Sprintf("insufficient funds: need %s, have %s",
			amount.SatsToCoin(e.Needed), amount.SatsToCoin(e.Available))
	}
	return fmt.Sprintf("insufficient token funds: need %d, have %d", e.Needed, e.Available)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// Request describes what the funding transaction must create.
type Request struct {
	ContractAddress types.Address
	FunderAddress   types.Address

	// RequiredValue is satoshis for coin funding, token base units for
	// token funding.
	RequiredValue uint64

	// MintAmount, when non-zero, mints that many fungible units of the new
	// category onto the contract output. Genesis only.
	MintAmount uint64

	Capability types.Capability
	Commitment []byte

	DustLimit uint64
	FeeRate   uint64
}

// Result is an assembled, unsigned funding transaction.
type Result struct {
	Tx       *tx.Transaction
	Selected []*utxo.UTXO
	Category types.Category
	Fee      uint64
	Change   uint64
}

// BuildGenesis assembles a coin-funded genesis transaction minting a new
// token category for the contract. available is the funder's UTXO set in
// provider order; selection preserves that order.
func BuildGenesis(available []*utxo.UTXO, req Request) (*Result, error) {
	pure := utxo.Pure(available)

	var anchor *utxo.UTXO
	for _, u := range pure {
		if u.Outpoint.Index == 0 {
			anchor = u
			break
		}
	}
	if anchor == nil {
		return nil, ErrNoCategoryAnchor
	}

	target := req.RequiredValue + GenesisReserve
	selected := []*utxo.UTXO{anchor}
	total := anchor.Value
	for _, u := range pure {
		if u == anchor {
			continue
		}
		selected = append(selected, u)
		total += u.Value
		if total >= target {
			break
		}
	}
	if total < target {
		return nil, &InsufficientFundsError{
			Needed:    target,
			Available: utxo.Total(pure),
			Unit:      UnitCoin,
		}
	}

	// The anchor's txid becomes the new category id.
	category := types.Category(anchor.Outpoint.TxID)

	contract := tx.Output{
		Value:  req.RequiredValue,
		Script: types.CovenantScript(req.ContractAddress),
		Token: &types.TokenData{
			Category: category,
			Amount:   req.MintAmount,
			NFT: &types.NFTData{
				Capability: req.Capability,
				Commitment: req.Commitment,
			},
		},
	}

	outputs, fee, change, err := reconcile(len(selected), total, []tx.Output{contract}, req)
	if err != nil {
		return nil, err
	}

	b := tx.NewBuilder()
	for _, u := range selected {
		b.AddInput(u.Outpoint)
	}
	for _, out := range outputs {
		if out.Token != nil {
			b.AddTokenOutput(out.Value, out.Script, *out.Token)
		} else {
			b.AddOutput(out.Value, out.Script)
		}
	}

	klog.Funding.Debug().
		Int("inputs", len(selected)).
		Uint64("value", req.RequiredValue).
		Uint64("fee", fee).
		Str("category", category.String()).
		Msg("Built genesis funding transaction")

	return &Result{Tx: b.Build(), Selected: selected, Category: category, Fee: fee, Change: change}, nil
}

// BuildTokenFunding assembles a transaction moving RequiredValue fungible
// tokens of category into the contract. Token inputs are accumulated
// greedily in listed order; exactly one plain UTXO is added to cover fees.
func BuildTokenFunding(available []*utxo.UTXO, category types.Category, req Request) (*Result, error) {
	fungible := utxo.Fungible(available, category)

	var selected []*utxo.UTXO
	var tokenTotal uint64
	for _, u := range fungible {
		selected = append(selected, u)
		tokenTotal += u.FungibleAmount(category)
		if tokenTotal >= req.RequiredValue {
			break
		}
	}
	if tokenTotal < req.RequiredValue {
		return nil, &InsufficientFundsError{
			Needed:    req.RequiredValue,
			Available: utxo.TotalFungible(fungible, category),
			Unit:      UnitToken,
		}
	}

	// One plain UTXO pays the fee. Largest first for headroom.
	pure := utxo.Pure(available)
	if len(pure) == 0 {
		return nil, &InsufficientFundsError{Needed: req.DustLimit, Available: 0, Unit: UnitCoin}
	}
	utxo.SortByValueDesc(pure)
	selected = append(selected, pure[0])

	contract := tx.Output{
		Value:  req.DustLimit,
		Script: types.CovenantScript(req.ContractAddress),
		Token: &types.TokenData{
			Category: category,
			Amount:   req.RequiredValue,
			NFT: &types.NFTData{
				Capability: req.Capability,
				Commitment: req.Commitment,
			},
		},
	}

	fixed := []tx.Output{contract}
	if excess := tokenTotal - req.RequiredValue; excess > 0 {
		fixed = append(fixed, tx.Output{
			Value:  req.DustLimit,
			Script: types.P2PKHScript(req.FunderAddress),
			Token:  &types.TokenData{Category: category, Amount: excess},
		})
	}

	outputs, fee, change, err := reconcile(len(selected), utxo.Total(selected), fixed, req)
	if err != nil {
		return nil, err
	}

	b := tx.NewBuilder()
	for _, u := range selected {
		b.AddInput(u.Outpoint)
	}
	for _, out := range outputs {
		if out.Token != nil {
			b.AddTokenOutput(out.Value, out.Script, *out.Token)
		} else {
			b.AddOutput(out.Value, out.Script)
		}
	}

	klog.Funding.Debug().
		Int("inputs", len(selected)).
		Uint64("tokens", req.RequiredValue).
		Uint64("fee", fee).
		Msg("Built token funding transaction")

	return &Result{Tx: b.Build(), Selected: selected, Category: category, Fee: fee, Change: change}, nil
}

// reconcile places a coin-change output at index 0 ahead of the fixed
// outputs, estimates the fee against that preliminary set, and recomputes
// the actual change. Change is placed first to preserve a future index-0
// genesis anchor for the funder; sub-dust change is dropped.
func reconcile(numInputs int, totalIn uint64, fixed []tx.Output, req Request) ([]tx.Output, uint64, uint64, error) {
	changePlaceholder := tx.Output{Value: 0, Script: types.P2PKHScript(req.FunderAddress)}
	preliminary := append([]tx.Output{changePlaceholder}, fixed...)

	fee := tx.EstimateFee(numInputs, preliminary, req.FeeRate)

	var fixedValue uint64
	for _, out := range fixed {
		fixedValue += out.Value
	}

	spend := fixedValue + fee
	if totalIn < spend {
		return nil, 0, 0, &InsufficientFundsError{Needed: spend, Available: totalIn, Unit: UnitCoin}
	}

	change := totalIn - spend
	if change < req.DustLimit {
		// Dropped, not emitted sub-dust. The difference rides as extra fee.
		return fixed, fee, 0, nil
	}

	outputs := append([]tx.Output{{Value: change, Script: types.P2PKHScript(req.FunderAddress)}}, fixed...)
	return outputs, fee, change, nil
}
