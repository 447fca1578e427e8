// Package commitment packs and unpacks the fixed-layout state blobs carried
// by covenant NFT outputs.
//
// Every commitment is exactly 40 bytes: a 1-byte status, a 1-byte flag
// field, fixed-width little-endian counters and timestamps, and zero padding
// to the full length. Decoding tolerates trailing padding but rejects
// truncated required fields; encoding always zero-fills to the full length.
package commitment

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Size is the byte length of every covenant commitment.
const Size = 40

// Codec errors.
var (
	ErrMalformed       = errors.New("malformed commitment")
	ErrValueOutOfRange = errors.New("commitment field out of range")
)

// Status is the lifecycle state embedded in byte 0 of every commitment.
type Status uint8

const (
	StatusActive    Status = 0
	StatusPaused    Status = 1
	StatusCancelled Status = 2
)

// Valid returns true for a known status value.
func (s Status) Valid() bool {
	return s <= StatusCancelled
}

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusPaused:
		return "paused"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Flags is the bit-flag field in byte 1 of every commitment.
type Flags uint8

const (
	// FlagCancelable marks an instance the authority may pause or cancel.
	FlagCancelable Flags = 1 << 0
	// FlagResumable marks an instance that may return from paused to active.
	FlagResumable Flags = 1 << 1
)

// Cancelable reports whether the cancelable bit is set.
func (f Flags) Cancelable() bool { return f&FlagCancelable != 0 }

// Resumable reports whether the resumable bit is set.
func (f Flags) Resumable() bool { return f&FlagResumable != 0 }

// Field offsets shared by all covenant layouts: status(1) | flags(1) |
// uint40 timestamp | uint64 counter | uint64 counter | zero padding.
const (
	offStatus   = 0
	offFlags    = 1
	offStamp    = 2  // uint40, little-endian
	offCounterA = 7  // uint64, little-endian
	offCounterB = 15 // uint64, little-endian
	minLen      = 23 // required prefix; the rest is padding
)

const maxUint40 = 1<<40 - 1

// putUint40 writes v as a 5-byte little-endian integer.
func putUint40(b []byte, v uint64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
}

// uint40 reads a 5-byte little-endian integer.
func uint40(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 |
		uint64(b[3])<<24 | uint64(b[4])<<32
}

// fields is the common wire shape behind the per-covenant types.
type fields struct {
	status   Status
	flags    Flags
	stamp    uint64
	counterA uint64
	counterB uint64
}

func (f fields) encode() ([]byte, error) {
	if !f.status.Valid() {
		return nil, fmt.Errorf("%w: status %d", ErrValueOutOfRange, uint8(f.status))
	}
	if f.stamp > maxUint40 {
		return nil, fmt.Errorf("%w: timestamp %d exceeds 40 bits", ErrValueOutOfRange, f.stamp)
	}
	buf := make([]byte, Size)
	buf[offStatus] = byte(f.status)
	buf[offFlags] = byte(f.flags)
	putUint40(buf[offStamp:], f.stamp)
	binary.LittleEndian.PutUint64(buf[offCounterA:], f.counterA)
	binary.LittleEndian.PutUint64(buf[offCounterB:], f.counterB)
	return buf, nil
}

func decodeFields(b []byte) (fields, error) {
	if len(b) < minLen {
		return fields{}, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformed, len(b), minLen)
	}
	f := fields{
		status:   Status(b[offStatus]),
		flags:    Flags(b[offFlags]),
		stamp:    uint40(b[offStamp:]),
		counterA: binary.LittleEndian.Uint64(b[offCounterA:]),
		counterB: binary.LittleEndian.Uint64(b[offCounterB:]),
	}
	if !f.status.Valid() {
		return fields{}, fmt.Errorf("%w: unknown status %d", ErrMalformed, b[offStatus])
	}
	return f, nil
}

// Vault is the state of a rate-limited spending vault.
type Vault struct {
	Status          Status
	Flags           Flags
	PeriodStart     uint64 // unix seconds, 40-bit
	SpentThisPeriod uint64
	Approvals       uint64
}

// Encode packs the vault state into a 40-byte commitment.
func (v *Vault) Encode() ([]byte, error) {
	return fields{v.Status, v.Flags, v.PeriodStart, v.SpentThisPeriod, v.Approvals}.encode()
}

// DecodeVault unpacks a vault commitment.
func DecodeVault(b []byte) (*Vault, error) {
	f, err := decodeFields(b)
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}
	return &Vault{f.status, f.flags, f.stamp, f.counterA, f.counterB}, nil
}

// Payment is the state of a recurring-payment covenant.
type Payment struct {
	Status        Status
	Flags         Flags
	NextPaymentAt uint64 // unix seconds, 40-bit
	PaymentsMade  uint64
	TotalPaid     uint64
}

// Encode packs the payment state into a 40-byte commitment.
func (p *Payment) Encode() ([]byte, error) {
	return fields{p.Status, p.Flags, p.NextPaymentAt, p.PaymentsMade, p.TotalPaid}.encode()
}

// DecodePayment unpacks a payment commitment.
func DecodePayment(b []byte) (*Payment, error) {
	f, err := decodeFields(b)
	if err != nil {
		return nil, fmt.Errorf("payment: %w", err)
	}
	return &Payment{f.status, f.flags, f.stamp, f.counterA, f.counterB}, nil
}

// Airdrop is the state of a token claim pool.
type Airdrop struct {
	Status       Status
	Flags        Flags
	StartAt      uint64 // unix seconds, 40-bit
	ClaimsMade   uint64
	TotalClaimed uint64 // token base units claimed so far
}

// Encode packs the airdrop state into a 40-byte commitment.
func (a *Airdrop) Encode() ([]byte, error) {
	return fields{a.Status, a.Flags, a.StartAt, a.ClaimsMade, a.TotalClaimed}.encode()
}

// DecodeAirdrop unpacks an airdrop commitment.
func DecodeAirdrop(b []byte) (*Airdrop, error) {
	f, err := decodeFields(b)
	if err != nil {
		return nil, fmt.Errorf("airdrop: %w", err)
	}
	return &Airdrop{f.status, f.flags, f.stamp, f.counterA, f.counterB}, nil
}

// PeekStatus reads the status byte without decoding the full layout.
func PeekStatus(b []byte) (Status, error) {
	if len(b) < 1 {
		return 0, fmt.Errorf("%w: empty", ErrMalformed)
	}
	s := Status(b[offStatus])
	if !s.Valid() {
		return 0, fmt.Errorf("%w: unknown status %d", ErrMalformed, b[offStatus])
	}
	return s, nil
}
