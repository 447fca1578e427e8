// Package tx defines transaction types, serialization, and fee estimation.
package tx

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/Klingon-tech/klingnet-treasury/pkg/crypto"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// Transaction represents an on-chain transaction.
type Transaction struct {
	Version  uint32   `json:"version"`
	Inputs   []Input  `json:"inputs"`
	Outputs  []Output `json:"outputs"`
	LockTime uint64   `json:"locktime"`
}

// Input references a UTXO being spent. Signature and PubKey are empty in
// unsigned transactions built by the engine; an external signer fills them in.
type Input struct {
	PrevOut   types.Outpoint `json:"prevout"`
	Signature []byte         `json:"signature"`
	PubKey    []byte         `json:"pubkey"`
}

// inputJSON is the JSON representation of Input with hex-encoded byte fields.
type inputJSON struct {
	PrevOut   types.Outpoint `json:"prevout"`
	Signature *string        `json:"signature"`
	PubKey    *string        `json:"pubkey"`
}

// MarshalJSON encodes the input with hex-encoded signature and pubkey.
func (in Input) MarshalJSON() ([]byte, error) {
	j := inputJSON{PrevOut: in.PrevOut}
	if in.Signature != nil {
		s := hex.EncodeToString(in.Signature)
		j.Signature = &s
	}
	if in.PubKey != nil {
		p := hex.EncodeToString(in.PubKey)
		j.PubKey = &p
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes an input with hex-encoded signature and pubkey.
func (in *Input) UnmarshalJSON(data []byte) error {
	var j inputJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	in.PrevOut = j.PrevOut
	if j.Signature != nil {
		b, err := hex.DecodeString(*j.Signature)
		if err != nil {
			return err
		}
		in.Signature = b
	}
	if j.PubKey != nil {
		b, err := hex.DecodeString(*j.PubKey)
		if err != nil {
			return err
		}
		in.PubKey = b
	}
	return nil
}

// Output defines a new UTXO. Token, when present, carries a fungible amount
// and/or an NFT payload (the covenant state commitment).
type Output struct {
	Value  uint64           `json:"value"`
	Script types.Script     `json:"script"`
	Token  *types.TokenData `json:"token,omitempty"`
}

// Hash computes the transaction ID (BLAKE3 hash of the serialized signing data).
// Signatures are excluded to avoid a circular dependency during signing.
func (tx *Transaction) Hash() types.Hash {
	return crypto.Hash(tx.SigningBytes())
}

// SigningBytes returns the canonical byte representation used for signing.
//
// Layout:
//
//	version(4) | input_count(4) | [prevout(36)]...
//	| output_count(4) | [output]... | locktime(8)
//
// where each output is:
//
//	value(8) | script_type(1) | script_data_len(4) | script_data
//	| token_flag(1) | [category(32) | amount(8)
//	| nft_flag(1) | [capability(1) | commitment_len(1) | commitment]]
func (tx *Transaction) SigningBytes() []byte {
	var buf []byte

	buf = binary.LittleEndian.AppendUint32(buf, tx.Version)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf = append(buf, in.PrevOut.TxID[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, in.PrevOut.Index)
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		buf = appendOutput(buf, out)
	}

	buf = binary.LittleEndian.AppendUint64(buf, tx.LockTime)

	return buf
}

// appendOutput serializes a single output, token payload included.
func appendOutput(buf []byte, out Output) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, out.Value)
	buf = append(buf, byte(out.Script.Type))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(out.Script.Data)))
	buf = append(buf, out.Script.Data...)

	if out.Token == nil {
		return append(buf, 0)
	}
	buf = append(buf, 1)
	buf = append(buf, out.Token.Category[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, out.Token.Amount)
	if out.Token.NFT == nil {
		return append(buf, 0)
	}
	buf = append(buf, 1)
	buf = append(buf, byte(out.Token.NFT.Capability))
	buf = append(buf, byte(len(out.Token.NFT.Commitment)))
	buf = append(buf, out.Token.NFT.Commitment...)
	return buf
}

// TotalOutputValue returns the sum of all output values.
// Returns an error if the sum overflows uint64.
func (tx *Transaction) TotalOutputValue() (uint64, error) {
	var total uint64
	for _, out := range tx.Outputs {
		if total > math.MaxUint64-out.Value {
			return 0, fmt.Errorf("output value overflow")
		}
		total += out.Value
	}
	return total, nil
}
