package covenant

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Klingon-tech/klingnet-treasury/internal/utxo"
	"github.com/Klingon-tech/klingnet-treasury/pkg/tx"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// Unlock paths a signer must take for a covenant input.
const (
	UnlockP2PKH  = "p2pkh"
	UnlockPause  = "pause"
	UnlockResume = "resume"
	UnlockCancel = "cancel"
)

// SourceOutput describes the output an input spends, carried alongside the
// unsigned transaction so the signer can reconstruct signing hashes.
type SourceOutput struct {
	Outpoint types.Outpoint   `json:"outpoint"`
	Value    uint64           `json:"value"`
	Script   types.Script     `json:"script"`
	Token    *types.TokenData `json:"token,omitempty"`
	Unlock   string           `json:"unlock"`
}

// Proposal is the hand-off contract to the signing collaborator: an unsigned
// transaction, the source outputs of its inputs, whether the signer should
// broadcast the result, and a human-readable action description.
type Proposal struct {
	Tx            *tx.Transaction
	SourceOutputs []SourceOutput
	Broadcast     bool
	UserPrompt    string
}

// wireSourceOutput is the transport form of a source output: hex byte
// fields, decimal-string amounts.
type wireSourceOutput struct {
	TxID   string         `json:"txid"`
	Vout   uint32         `json:"vout"`
	Value  string         `json:"value"`
	Script types.Script   `json:"script"`
	Token  *wireTokenData `json:"token,omitempty"`
	Unlock string         `json:"unlock"`
}

type wireTokenData struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	NFT      *struct {
		Capability string `json:"capability"`
		Commitment string `json:"commitment"`
	} `json:"nft,omitempty"`
}

// Wire is the serialized proposal: a hex transaction body plus a JSON
// description of the source outputs.
type Wire struct {
	TxHex         string `json:"tx"`
	SourceOutputs string `json:"source_outputs"`
	Broadcast     bool   `json:"broadcast"`
	UserPrompt    string `json:"user_prompt"`
}

// Encode serializes the proposal for transport to a remote signer.
func (p *Proposal) Encode() (*Wire, error) {
	sources := make([]wireSourceOutput, len(p.SourceOutputs))
	for i, so := range p.SourceOutputs {
		w := wireSourceOutput{
			TxID:   so.Outpoint.TxID.String(),
			Vout:   so.Outpoint.Index,
			Value:  strconv.FormatUint(so.Value, 10),
			Script: so.Script,
			Unlock: so.Unlock,
		}
		if so.Token != nil {
			wt := &wireTokenData{
				Category: so.Token.Category.String(),
				Amount:   strconv.FormatUint(so.Token.Amount, 10),
			}
			if so.Token.NFT != nil {
				wt.NFT = &struct {
					Capability string `json:"capability"`
					Commitment string `json:"commitment"`
				}{
					Capability: so.Token.NFT.Capability.String(),
					Commitment: hex.EncodeToString(so.Token.NFT.Commitment),
				}
			}
			w.Token = wt
		}
		sources[i] = w
	}

	data, err := json.Marshal(sources)
	if err != nil {
		return nil, fmt.Errorf("encode source outputs: %w", err)
	}

	return &Wire{
		TxHex:         p.Tx.SerializeHex(),
		SourceOutputs: string(data),
		Broadcast:     p.Broadcast,
		UserPrompt:    p.UserPrompt,
	}, nil
}

// sourceFromUTXO builds the source-output record for an input spending u.
func sourceFromUTXO(u *utxo.UTXO, unlock string) SourceOutput {
	return SourceOutput{
		Outpoint: u.Outpoint,
		Value:    u.Value,
		Script:   u.Script,
		Token:    u.Token,
		Unlock:   unlock,
	}
}
