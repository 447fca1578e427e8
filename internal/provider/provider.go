// Package provider fetches on-chain data from a network node.
//
// The engine treats the provider as its sole source of on-chain truth and
// never caches results across build calls. All calls take a context; the
// engine layers no retries or timeouts of its own.
package provider

import (
	"context"
	"errors"

	"github.com/Klingon-tech/klingnet-treasury/internal/utxo"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// ErrNetwork wraps any transport or protocol failure talking to the node.
var ErrNetwork = errors.New("provider request failed")

// Provider is the read interface the engine builds against.
type Provider interface {
	// UTXOs returns the unspent outputs locked to an address.
	UTXOs(ctx context.Context, addr types.Address) ([]*utxo.UTXO, error)

	// RawTransaction returns the serialized bytes of a transaction by id.
	RawTransaction(ctx context.Context, txid types.Hash) ([]byte, error)
}

// Broadcaster is implemented by providers that can also submit transactions.
type Broadcaster interface {
	// Submit broadcasts a serialized transaction and returns its id.
	Submit(ctx context.Context, raw []byte) (types.Hash, error)
}
