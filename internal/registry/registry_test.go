package registry

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-treasury/internal/covenant"
	"github.com/Klingon-tech/klingnet-treasury/internal/storage"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

func vaultInstance(label string, addrByte byte) *Instance {
	params := covenant.VaultParams{
		AuthorityHash: types.Address{0xaa},
		PeriodSeconds: 86_400,
		SpendLimit:    1_000_000,
	}
	return &Instance{
		Label:     label,
		Kind:      covenant.KindVault,
		Address:   types.Address{addrByte},
		Category:  types.Category{0x42},
		Vault:     &params,
		CreatedAt: 1_750_000_000,
	}
}

func TestRegistry_PutGet(t *testing.T) {
	r := New(storage.NewMemory())
	inst := vaultInstance("treasury-vault", 0x01)

	if err := r.Put(inst); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := r.Get(inst.Address)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Label != "treasury-vault" || got.Kind != covenant.KindVault {
		t.Errorf("got %+v", got)
	}

	params, err := got.Params()
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if params.Kind() != covenant.KindVault || params.Authority() != (types.Address{0xaa}) {
		t.Errorf("params = %+v", params)
	}
}

func TestRegistry_GetByLabel(t *testing.T) {
	r := New(storage.NewMemory())
	inst := vaultInstance("ops", 0x02)
	if err := r.Put(inst); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := r.GetByLabel("ops")
	if err != nil {
		t.Fatalf("GetByLabel: %v", err)
	}
	if got.Address != inst.Address {
		t.Errorf("address = %s", got.Address)
	}

	if _, err := r.GetByLabel("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestRegistry_DuplicateLabel(t *testing.T) {
	r := New(storage.NewMemory())
	if err := r.Put(vaultInstance("ops", 0x01)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Same label, different address: rejected.
	if err := r.Put(vaultInstance("ops", 0x02)); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("want ErrDuplicateLabel, got %v", err)
	}

	// Re-storing the same instance is fine.
	if err := r.Put(vaultInstance("ops", 0x01)); err != nil {
		t.Errorf("idempotent put failed: %v", err)
	}
}

func TestRegistry_MissingParams(t *testing.T) {
	r := New(storage.NewMemory())
	inst := vaultInstance("broken", 0x01)
	inst.Vault = nil
	if err := r.Put(inst); err == nil {
		t.Error("instance without params should be rejected")
	}
}

func TestRegistry_List(t *testing.T) {
	r := New(storage.NewMemory())
	for i := byte(1); i <= 3; i++ {
		inst := vaultInstance(string(rune('a'+i)), i)
		if err := r.Put(inst); err != nil {
			t.Fatalf("Put %d: %v", i, err)
		}
	}

	all, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List returned %d, want 3", len(all))
	}
}

func TestRegistry_Namespaces(t *testing.T) {
	db := storage.NewMemory()
	r := New(db)
	inst := vaultInstance("shared", 0x07)
	if err := r.Put(inst); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Instance and label entries land in their own namespaces of the
	// backing database.
	if ok, _ := db.Has(append([]byte("i/"), inst.Address[:]...)); !ok {
		t.Error("instance entry missing from its namespace")
	}
	if ok, _ := db.Has([]byte("l/shared")); !ok {
		t.Error("label entry missing from its namespace")
	}

	// A sibling store on the same database sees none of the registry's keys.
	other := storage.NewPrefixDB(db, []byte("x/"))
	seen := 0
	if err := other.ForEach(nil, func(_, _ []byte) error { seen++; return nil }); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if seen != 0 {
		t.Errorf("sibling namespace sees %d registry keys", seen)
	}
}

func TestRegistry_Delete(t *testing.T) {
	r := New(storage.NewMemory())
	inst := vaultInstance("gone", 0x05)
	if err := r.Put(inst); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := r.Delete(inst.Address); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := r.Get(inst.Address); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound after delete, got %v", err)
	}
	if _, err := r.GetByLabel("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("label index should be cleaned up, got %v", err)
	}
}
