package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Category identifies a token category. It is the transaction id of the
// genesis input whose outpoint index was zero (the "category anchor").
type Category Hash

// IsZero returns true if the category is all zeros.
func (c Category) IsZero() bool {
	return Hash(c).IsZero()
}

// String returns the hex-encoded category.
func (c Category) String() string {
	return Hash(c).String()
}

// Matches reports whether two categories identify the same token, accepting
// either byte order of the 32-byte identifier. Providers and explorers
// disagree on the byte order of transaction-id-derived identifiers, so both
// representations must compare equal.
func (c Category) Matches(other Category) bool {
	return c == other || Hash(c).Reversed() == Hash(other)
}

// MarshalJSON encodes the category as a hex string.
func (c Category) MarshalJSON() ([]byte, error) {
	return Hash(c).MarshalJSON()
}

// UnmarshalJSON decodes a hex string into a category.
func (c *Category) UnmarshalJSON(data []byte) error {
	return (*Hash)(c).UnmarshalJSON(data)
}

// Capability is the NFT capability attached to a token output.
type Capability uint8

const (
	CapabilityNone    Capability = 0 // Immutable NFT
	CapabilityMutable Capability = 1 // Commitment may change on spend
	CapabilityMinting Capability = 2 // May mint further NFTs of the category
)

// String returns a human-readable name for the capability.
func (c Capability) String() string {
	switch c {
	case CapabilityNone:
		return "none"
	case CapabilityMutable:
		return "mutable"
	case CapabilityMinting:
		return "minting"
	default:
		return "unknown"
	}
}

// ParseCapability parses a capability name ("none", "mutable", "minting").
func ParseCapability(s string) (Capability, error) {
	switch s {
	case "none", "":
		return CapabilityNone, nil
	case "mutable":
		return CapabilityMutable, nil
	case "minting":
		return CapabilityMinting, nil
	default:
		return CapabilityNone, fmt.Errorf("unknown capability %q", s)
	}
}

// NFTData is the non-fungible payload of a token output. The commitment is
// the fixed-layout covenant state blob carried across spends.
type NFTData struct {
	Capability Capability `json:"capability"`
	Commitment []byte     `json:"commitment"`
}

// nftJSON is the JSON representation of NFTData with a hex commitment.
type nftJSON struct {
	Capability Capability `json:"capability"`
	Commitment string     `json:"commitment"`
}

// MarshalJSON encodes the NFT payload with a hex-encoded commitment.
func (n NFTData) MarshalJSON() ([]byte, error) {
	return json.Marshal(nftJSON{
		Capability: n.Capability,
		Commitment: hex.EncodeToString(n.Commitment),
	})
}

// UnmarshalJSON decodes an NFT payload with a hex-encoded commitment.
func (n *NFTData) UnmarshalJSON(data []byte) error {
	var j nftJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	n.Capability = j.Capability
	if j.Commitment != "" {
		b, err := hex.DecodeString(j.Commitment)
		if err != nil {
			return err
		}
		n.Commitment = b
	}
	return nil
}

// TokenData holds token information attached to a UTXO. Amount is the
// fungible amount in base units; NFT is the optional non-fungible payload.
type TokenData struct {
	Category Category `json:"category"`
	Amount   uint64   `json:"amount"`
	NFT      *NFTData `json:"nft,omitempty"`
}

// HasNFT returns true if the token data carries a non-fungible payload.
func (t *TokenData) HasNFT() bool {
	return t != nil && t.NFT != nil
}
