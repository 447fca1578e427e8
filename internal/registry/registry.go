// Package registry persists metadata about deployed covenant instances so
// the CLI can address them by label across sessions.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-treasury/internal/covenant"
	klog "github.com/Klingon-tech/klingnet-treasury/internal/log"
	"github.com/Klingon-tech/klingnet-treasury/internal/storage"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// Registry errors.
var (
	ErrNotFound       = errors.New("instance not found")
	ErrDuplicateLabel = errors.New("label already in use")
)

// Key namespaces within the backing database.
var (
	nsInstance = []byte("i/") // <address20> -> Instance JSON
	nsLabel    = []byte("l/") // <label> -> address20
)

// Instance records a deployed covenant: where it lives, which category it
// carries, and the constructor parameters needed to rebuild transitions.
// Exactly one of the params fields is set, matching Kind.
type Instance struct {
	Label     string                  `json:"label"`
	Kind      covenant.Kind           `json:"kind"`
	Address   types.Address           `json:"address"`
	Category  types.Category          `json:"category"`
	Vault     *covenant.VaultParams   `json:"vault,omitempty"`
	Payment   *covenant.PaymentParams `json:"payment,omitempty"`
	Airdrop   *covenant.AirdropParams `json:"airdrop,omitempty"`
	CreatedAt uint64                  `json:"created_at"`
}

// Params returns the typed constructor parameters matching the kind.
func (i *Instance) Params() (covenant.Params, error) {
	switch i.Kind {
	case covenant.KindVault:
		if i.Vault != nil {
			return *i.Vault, nil
		}
	case covenant.KindPayment:
		if i.Payment != nil {
			return *i.Payment, nil
		}
	case covenant.KindAirdrop:
		if i.Airdrop != nil {
			return *i.Airdrop, nil
		}
	}
	return nil, fmt.Errorf("instance %s: missing %s params", i.Label, i.Kind)
}

// Registry is a covenant instance store backed by a storage.DB. Instances
// and the label index live in separate PrefixDB namespaces of the same
// database.
type Registry struct {
	instances *storage.PrefixDB
	labels    *storage.PrefixDB
}

// New creates a registry backed by the given database.
func New(db storage.DB) *Registry {
	return &Registry{
		instances: storage.NewPrefixDB(db, nsInstance),
		labels:    storage.NewPrefixDB(db, nsLabel),
	}
}

// Put stores an instance and indexes it by label. Fails if the label is
// already bound to a different address.
func (r *Registry) Put(inst *Instance) error {
	if inst.Label == "" {
		return fmt.Errorf("instance label must not be empty")
	}
	if _, err := inst.Params(); err != nil {
		return err
	}

	if existing, err := r.labels.Get([]byte(inst.Label)); err == nil {
		var bound types.Address
		copy(bound[:], existing)
		if bound != inst.Address {
			return fmt.Errorf("%w: %q -> %s", ErrDuplicateLabel, inst.Label, bound)
		}
	}

	data, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("registry marshal: %w", err)
	}
	if err := r.instances.Put(inst.Address[:], data); err != nil {
		return fmt.Errorf("registry put: %w", err)
	}
	if err := r.labels.Put([]byte(inst.Label), inst.Address[:]); err != nil {
		return fmt.Errorf("registry label index: %w", err)
	}

	klog.Registry.Debug().Str("label", inst.Label).Str("address", inst.Address.String()).Msg("Stored instance")
	return nil
}

// Get retrieves an instance by address.
func (r *Registry) Get(addr types.Address) (*Instance, error) {
	data, err := r.instances.Get(addr[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, addr)
	}
	var inst Instance
	if err := json.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("registry unmarshal: %w", err)
	}
	return &inst, nil
}

// GetByLabel retrieves an instance by its label.
func (r *Registry) GetByLabel(label string) (*Instance, error) {
	data, err := r.labels.Get([]byte(label))
	if err != nil {
		return nil, fmt.Errorf("%w: label %q", ErrNotFound, label)
	}
	var addr types.Address
	copy(addr[:], data)
	return r.Get(addr)
}

// List returns all stored instances.
func (r *Registry) List() ([]*Instance, error) {
	var out []*Instance
	err := r.instances.ForEach(nil, func(_, value []byte) error {
		var inst Instance
		if err := json.Unmarshal(value, &inst); err != nil {
			return fmt.Errorf("registry unmarshal: %w", err)
		}
		out = append(out, &inst)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an instance and its label index entry.
func (r *Registry) Delete(addr types.Address) error {
	inst, err := r.Get(addr)
	if err != nil {
		return err
	}
	if err := r.labels.Delete([]byte(inst.Label)); err != nil {
		return fmt.Errorf("registry label delete: %w", err)
	}
	if err := r.instances.Delete(addr[:]); err != nil {
		return fmt.Errorf("registry delete: %w", err)
	}
	return nil
}
