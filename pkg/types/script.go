package types

import (
	"encoding/hex"
	"encoding/json"
)

// ScriptType identifies the type of locking/unlocking script.
type ScriptType uint8

const (
	ScriptTypeP2PKH    ScriptType = 0x01 // Pay to public key hash (data = 20-byte key hash)
	ScriptTypeCovenant ScriptType = 0x02 // Covenant deployment (data = 20-byte covenant hash)
)

// String returns a human-readable name for the script type.
func (st ScriptType) String() string {
	switch st {
	case ScriptTypeP2PKH:
		return "P2PKH"
	case ScriptTypeCovenant:
		return "Covenant"
	default:
		return "Unknown"
	}
}

// Script defines the locking condition for a UTXO.
type Script struct {
	Type ScriptType `json:"type"`
	Data []byte     `json:"data"`
}

// P2PKHScript builds a pay-to-public-key-hash locking script for an address.
func P2PKHScript(addr Address) Script {
	return Script{Type: ScriptTypeP2PKH, Data: addr.Bytes()}
}

// CovenantScript builds a covenant locking script for a deployment address.
func CovenantScript(addr Address) Script {
	return Script{Type: ScriptTypeCovenant, Data: addr.Bytes()}
}

// Equal reports whether two scripts have the same type and data.
func (s Script) Equal(other Script) bool {
	if s.Type != other.Type || len(s.Data) != len(other.Data) {
		return false
	}
	for i := range s.Data {
		if s.Data[i] != other.Data[i] {
			return false
		}
	}
	return true
}

// scriptJSON is the JSON representation of a Script with hex-encoded data.
type scriptJSON struct {
	Type ScriptType `json:"type"`
	Data string     `json:"data"`
}

// MarshalJSON encodes the script with hex-encoded data.
func (s Script) MarshalJSON() ([]byte, error) {
	return json.Marshal(scriptJSON{
		Type: s.Type,
		Data: hex.EncodeToString(s.Data),
	})
}

// UnmarshalJSON decodes a script with hex-encoded data.
func (s *Script) UnmarshalJSON(data []byte) error {
	var j scriptJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	s.Type = j.Type
	if j.Data != "" {
		b, err := hex.DecodeString(j.Data)
		if err != nil {
			return err
		}
		s.Data = b
	}
	return nil
}
