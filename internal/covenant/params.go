// Package covenant builds the state-transition transactions that drive
// on-chain covenant instances: rate-limited vaults, recurring payments, and
// airdrop claim pools.
//
// An instance lives in exactly one unspent output holding its current state
// commitment as an NFT payload. Each transition consumes that output and
// mints a successor with the next commitment; terminal actions pay out
// remaining funds instead. The engine never holds keys: every builder
// returns an unsigned Proposal for an external signer.
package covenant

import (
	"encoding/binary"
	"fmt"

	"github.com/Klingon-tech/klingnet-treasury/pkg/crypto"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// Kind identifies a covenant variant.
type Kind uint8

const (
	KindVault Kind = iota + 1
	KindPayment
	KindAirdrop
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindVault:
		return "vault"
	case KindPayment:
		return "payment"
	case KindAirdrop:
		return "airdrop"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Params is a covenant's constructor parameters. The deployment address is
// derived from the kind tag and the canonical parameter encoding, so equal
// parameters always land at the same address.
type Params interface {
	Kind() Kind
	// Authority returns the 20-byte hash controlling admin actions and
	// receiving cancel payouts.
	Authority() types.Address
	// encode returns the canonical byte encoding used for address
	// derivation: kind tag, authority hash, then fixed-width LE fields.
	encode() []byte
}

// VaultParams parameterize a rate-limited spending vault.
type VaultParams struct {
	AuthorityHash types.Address `json:"authority"`
	PeriodSeconds uint64        `json:"period_seconds"`
	SpendLimit    uint64        `json:"spend_limit"` // satoshis spendable per period
}

func (p VaultParams) Kind() Kind               { return KindVault }
func (p VaultParams) Authority() types.Address { return p.AuthorityHash }

func (p VaultParams) encode() []byte {
	buf := make([]byte, 0, 1+types.AddressSize+16)
	buf = append(buf, byte(KindVault))
	buf = append(buf, p.AuthorityHash[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, p.PeriodSeconds)
	buf = binary.LittleEndian.AppendUint64(buf, p.SpendLimit)
	return buf
}

// PaymentParams parameterize a recurring-payment covenant.
type PaymentParams struct {
	AuthorityHash   types.Address `json:"authority"`
	RecipientHash   types.Address `json:"recipient"`
	PaymentSats     uint64        `json:"payment_sats"`
	IntervalSeconds uint64        `json:"interval_seconds"`
}

func (p PaymentParams) Kind() Kind               { return KindPayment }
func (p PaymentParams) Authority() types.Address { return p.AuthorityHash }

func (p PaymentParams) encode() []byte {
	buf := make([]byte, 0, 1+2*types.AddressSize+16)
	buf = append(buf, byte(KindPayment))
	buf = append(buf, p.AuthorityHash[:]...)
	buf = append(buf, p.RecipientHash[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, p.PaymentSats)
	buf = binary.LittleEndian.AppendUint64(buf, p.IntervalSeconds)
	return buf
}

// AirdropParams parameterize a token claim pool.
type AirdropParams struct {
	AuthorityHash types.Address `json:"authority"`
	TotalPool     uint64        `json:"total_pool"`   // token base units funded at deployment
	ClaimAmount   uint64        `json:"claim_amount"` // token base units per claim
}

func (p AirdropParams) Kind() Kind               { return KindAirdrop }
func (p AirdropParams) Authority() types.Address { return p.AuthorityHash }

func (p AirdropParams) encode() []byte {
	buf := make([]byte, 0, 1+types.AddressSize+16)
	buf = append(buf, byte(KindAirdrop))
	buf = append(buf, p.AuthorityHash[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, p.TotalPool)
	buf = binary.LittleEndian.AppendUint64(buf, p.ClaimAmount)
	return buf
}

// DeriveAddress computes the deployment address for a parameter set.
func DeriveAddress(p Params) types.Address {
	h := crypto.Hash(p.encode())
	var addr types.Address
	copy(addr[:], h[:types.AddressSize])
	return addr
}
