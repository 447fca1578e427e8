package wallet

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-treasury/internal/covenant"
	klog "github.com/Klingon-tech/klingnet-treasury/internal/log"
	"github.com/Klingon-tech/klingnet-treasury/pkg/crypto"
	"github.com/Klingon-tech/klingnet-treasury/pkg/tx"
)

// SignProposal signs the proposal's standard single-key inputs with key.
// Inputs whose source output unlocks through a covenant path are left for
// the covenant's own unlocking data and are not touched here.
func SignProposal(p *covenant.Proposal, key *crypto.PrivateKey) error {
	if len(p.SourceOutputs) != len(p.Tx.Inputs) {
		return fmt.Errorf("proposal has %d source outputs for %d inputs",
			len(p.SourceOutputs), len(p.Tx.Inputs))
	}

	var indexes []int
	for i, so := range p.SourceOutputs {
		if so.Unlock == covenant.UnlockP2PKH {
			indexes = append(indexes, i)
		}
	}
	if len(indexes) == 0 {
		return nil
	}

	if err := tx.SignInputs(p.Tx, key, indexes...); err != nil {
		return fmt.Errorf("sign proposal: %w", err)
	}

	klog.Wallet.Debug().Int("inputs", len(indexes)).Msg("Signed proposal inputs")
	return nil
}
