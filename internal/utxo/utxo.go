// Package utxo models the unspent outputs the funding engine selects from.
package utxo

import (
	"sort"

	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// UTXO is an unspent transaction output as reported by the chain provider.
type UTXO struct {
	Outpoint types.Outpoint   `json:"outpoint"`
	Value    uint64           `json:"value"`
	Script   types.Script     `json:"script"`
	Token    *types.TokenData `json:"token,omitempty"`
}

// HasToken reports whether the output carries any token data.
func (u *UTXO) HasToken() bool {
	return u.Token != nil
}

// HasNFT reports whether the output carries an NFT.
func (u *UTXO) HasNFT() bool {
	return u.Token != nil && u.Token.HasNFT()
}

// FungibleAmount returns the fungible token amount for the given category,
// or zero if the output holds no matching tokens.
func (u *UTXO) FungibleAmount(category types.Category) uint64 {
	if u.Token == nil || !u.Token.Category.Matches(category) {
		return 0
	}
	return u.Token.Amount
}

// Total sums the coin values of a set. Saturates at the maximum uint64
// rather than wrapping; real balances never get near it.
func Total(set []*UTXO) uint64 {
	var sum uint64
	for _, u := range set {
		next := sum + u.Value
		if next < sum {
			return ^uint64(0)
		}
		sum = next
	}
	return sum
}

// TotalFungible sums the fungible token amounts for the given category.
func TotalFungible(set []*UTXO, category types.Category) uint64 {
	var sum uint64
	for _, u := range set {
		sum += u.FungibleAmount(category)
	}
	return sum
}

// Pure returns the outputs that carry no token data. Only these are safe to
// spend as plain coin inputs; consuming token-bearing outputs would burn
// their tokens.
func Pure(set []*UTXO) []*UTXO {
	var out []*UTXO
	for _, u := range set {
		if !u.HasToken() {
			out = append(out, u)
		}
	}
	return out
}

// Fungible returns the outputs carrying fungible tokens of the given
// category and no NFT. NFT-bearing outputs are excluded: spending one as a
// token source would destroy its state.
func Fungible(set []*UTXO, category types.Category) []*UTXO {
	var out []*UTXO
	for _, u := range set {
		if u.HasNFT() {
			continue
		}
		if u.FungibleAmount(category) > 0 {
			out = append(out, u)
		}
	}
	return out
}

// SortByValueDesc orders a set largest-first, ties broken by outpoint for a
// deterministic selection order.
func SortByValueDesc(set []*UTXO) {
	sort.Slice(set, func(i, j int) bool {
		if set[i].Value != set[j].Value {
			return set[i].Value > set[j].Value
		}
		return set[i].Outpoint.String() < set[j].Outpoint.String()
	})
}
