package covenant

import (
	"context"

	klog "github.com/Klingon-tech/klingnet-treasury/internal/log"
	"github.com/Klingon-tech/klingnet-treasury/internal/provider"
	"github.com/Klingon-tech/klingnet-treasury/pkg/tx"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// Criteria describes the output a broadcast transaction is expected to
// contain. Zero-valued optional fields are not checked.
type Criteria struct {
	Script   types.Script
	MinValue uint64

	// Token criteria, checked when Category is non-nil.
	Category         *types.Category
	MinTokenAmount   uint64
	Capability       *types.Capability
	MinCommitmentLen int
}

// HasExpectedOutput fetches a broadcast transaction and reports whether any
// of its outputs satisfies the criteria. It returns false, never an error,
// on lookup or decoding failure, so callers can use it as a polling
// predicate after broadcast.
func HasExpectedOutput(ctx context.Context, prov provider.Provider, txid types.Hash, c Criteria) bool {
	raw, err := prov.RawTransaction(ctx, txid)
	if err != nil {
		klog.Covenant.Debug().Err(err).Str("txid", txid.String()).Msg("Verification fetch failed")
		return false
	}
	txn, err := tx.Deserialize(raw)
	if err != nil {
		klog.Covenant.Debug().Err(err).Str("txid", txid.String()).Msg("Verification decode failed")
		return false
	}

	for i := range txn.Outputs {
		if matchesOutput(&txn.Outputs[i], c) {
			return true
		}
	}
	return false
}

func matchesOutput(out *tx.Output, c Criteria) bool {
	if !out.Script.Equal(c.Script) {
		return false
	}
	if out.Value < c.MinValue {
		return false
	}
	if c.Category == nil {
		return true
	}

	if out.Token == nil || !out.Token.Category.Matches(*c.Category) {
		return false
	}
	if out.Token.Amount < c.MinTokenAmount {
		return false
	}
	if c.Capability != nil {
		if out.Token.NFT == nil || out.Token.NFT.Capability != *c.Capability {
			return false
		}
	}
	if c.MinCommitmentLen > 0 {
		if out.Token.NFT == nil || len(out.Token.NFT.Commitment) < c.MinCommitmentLen {
			return false
		}
	}
	return true
}
