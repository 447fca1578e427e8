// Package monitor polls covenant balances on a fixed interval.
//
// A Monitor is owned by its caller: Run blocks until the context is
// cancelled, and there is no package-level instance or running flag.
package monitor

import (
	"context"
	"sync"
	"time"

	klog "github.com/Klingon-tech/klingnet-treasury/internal/log"
	"github.com/Klingon-tech/klingnet-treasury/internal/provider"
	"github.com/Klingon-tech/klingnet-treasury/internal/utxo"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// Balance is a snapshot of what an address holds.
type Balance struct {
	Address types.Address
	Coins   uint64 // satoshis across all outputs
	Tokens  uint64 // fungible units of the watched category
}

// watch pairs an address with the token category counted at it.
type watch struct {
	addr     types.Address
	category types.Category
}

// Monitor periodically reads watched addresses and reports their balances.
type Monitor struct {
	prov     provider.Provider
	interval time.Duration
	notify   func(Balance)

	mu      sync.Mutex
	watches []watch
}

// New creates a monitor polling every interval and reporting snapshots to
// notify. notify is called from the Run goroutine and must not block long.
func New(prov provider.Provider, interval time.Duration, notify func(Balance)) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{prov: prov, interval: interval, notify: notify}
}

// Watch adds an address to the polling set. Safe to call while Run is
// active.
func (m *Monitor) Watch(addr types.Address, category types.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.watches {
		if w.addr == addr && w.category == category {
			return
		}
	}
	m.watches = append(m.watches, watch{addr: addr, category: category})
}

// Run polls until ctx is cancelled. An immediate first pass runs before the
// ticker starts. Provider failures are logged and the loop continues.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

func (m *Monitor) poll(ctx context.Context) {
	m.mu.Lock()
	watches := make([]watch, len(m.watches))
	copy(watches, m.watches)
	m.mu.Unlock()

	for _, w := range watches {
		utxos, err := m.prov.UTXOs(ctx, w.addr)
		if err != nil {
			klog.Monitor.Warn().Err(err).Str("address", w.addr.String()).Msg("Balance poll failed")
			continue
		}
		m.notify(Balance{
			Address: w.addr,
			Coins:   utxo.Total(utxos),
			Tokens:  utxo.TotalFungible(utxos, w.category),
		})
	}
}
