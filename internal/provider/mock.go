package provider

import (
	"context"
	"fmt"

	"github.com/Klingon-tech/klingnet-treasury/internal/utxo"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// Mock is a scripted in-memory Provider for tests. Zero value is usable;
// lookups miss with ErrNetwork until primed.
type Mock struct {
	utxos map[types.Address][]*utxo.UTXO
	raw   map[types.Hash][]byte

	// Err, when set, is returned by every call.
	Err error
}

// NewMock creates an empty scripted provider.
func NewMock() *Mock {
	return &Mock{
		utxos: make(map[types.Address][]*utxo.UTXO),
		raw:   make(map[types.Hash][]byte),
	}
}

// AddUTXO primes the set of unspent outputs returned for addr.
func (m *Mock) AddUTXO(addr types.Address, u *utxo.UTXO) {
	m.utxos[addr] = append(m.utxos[addr], u)
}

// SetRaw primes the raw bytes returned for a transaction id.
func (m *Mock) SetRaw(txid types.Hash, raw []byte) {
	m.raw[txid] = raw
}

// UTXOs returns the primed outputs for addr.
func (m *Mock) UTXOs(_ context.Context, addr types.Address) ([]*utxo.UTXO, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.utxos[addr], nil
}

// RawTransaction returns the primed bytes for txid.
func (m *Mock) RawTransaction(_ context.Context, txid types.Hash) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	raw, ok := m.raw[txid]
	if !ok {
		return nil, fmt.Errorf("%w: unknown transaction %s", ErrNetwork, txid)
	}
	return raw, nil
}
