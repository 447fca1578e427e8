package covenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-treasury/internal/provider"
	"github.com/Klingon-tech/klingnet-treasury/internal/utxo"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// State reader errors.
var (
	ErrNoStateUTXO     = errors.New("no state UTXO at covenant address")
	ErrMissingStateNFT = errors.New("state UTXO lacks the expected NFT payload")
)

// State is a covenant instance's current on-chain state.
type State struct {
	UTXO       *utxo.UTXO
	Capability types.Capability
	Commitment []byte
}

// ReadState fetches the single state UTXO backing the instance of the given
// category at addr. The state output carries a mutable or minting NFT of
// the matching category; plain outputs at the address are ignored.
func ReadState(ctx context.Context, prov provider.Provider, addr types.Address, category types.Category) (*State, error) {
	utxos, err := prov.UTXOs(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("read covenant state: %w", err)
	}

	var matched *utxo.UTXO
	for _, u := range utxos {
		if u.Token == nil || !u.Token.Category.Matches(category) {
			continue
		}
		matched = u
		if u.Token.HasNFT() && u.Token.NFT.Capability != types.CapabilityNone {
			return &State{
				UTXO:       u,
				Capability: u.Token.NFT.Capability,
				Commitment: u.Token.NFT.Commitment,
			}, nil
		}
	}

	if matched != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingStateNFT, matched.Outpoint)
	}
	return nil, fmt.Errorf("%w: %s category %s", ErrNoStateUTXO, addr, category)
}
