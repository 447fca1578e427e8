package wallet

import (
	"strings"
	"testing"
)

// fastKeystoreParams keeps Argon2id cheap in tests.
func fastKeystoreParams() EncryptionParams {
	return EncryptionParams{Memory: 8 * 1024, Iterations: 1, Parallelism: 1}
}

func freshSeed(t *testing.T) []byte {
	t.Helper()
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic: %v", err)
	}
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic: %v", err)
	}
	return seed
}

func TestKeystore_CreateLoad(t *testing.T) {
	ks, err := NewKeystore(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeystore: %v", err)
	}

	seed := freshSeed(t)
	password := []byte("hunter2")
	if err := ks.Create("treasury", seed, password, fastKeystoreParams()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := ks.Load("treasury", password)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != SeedSize || string(got) != string(seed) {
		t.Error("loaded seed does not match")
	}
}

func TestKeystore_WrongPassword(t *testing.T) {
	ks, _ := NewKeystore(t.TempDir())
	if err := ks.Create("treasury", freshSeed(t), []byte("right"), fastKeystoreParams()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := ks.Load("treasury", []byte("wrong")); err == nil {
		t.Error("wrong password should fail")
	}
}

func TestKeystore_DuplicateCreate(t *testing.T) {
	ks, _ := NewKeystore(t.TempDir())
	seed := freshSeed(t)
	if err := ks.Create("treasury", seed, []byte("pw"), fastKeystoreParams()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := ks.Create("treasury", seed, []byte("pw"), fastKeystoreParams()); err == nil {
		t.Error("duplicate wallet name should fail")
	}
}

func TestKeystore_Accounts(t *testing.T) {
	ks, _ := NewKeystore(t.TempDir())
	if err := ks.Create("treasury", freshSeed(t), []byte("pw"), fastKeystoreParams()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	entry := AccountEntry{Index: 0, Name: "funding", Address: "kgx1qtest"}
	if err := ks.AddAccount("treasury", entry); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}

	// Idempotent re-add.
	if err := ks.AddAccount("treasury", entry); err != nil {
		t.Errorf("re-adding same account: %v", err)
	}

	// Same index, different address: conflict.
	conflict := AccountEntry{Index: 0, Name: "other", Address: "kgx1qother"}
	if err := ks.AddAccount("treasury", conflict); err == nil {
		t.Error("conflicting index should fail")
	}

	accounts, err := ks.ListAccounts("treasury")
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Name != "funding" {
		t.Errorf("accounts = %+v", accounts)
	}

	next, err := ks.NextIndex("treasury")
	if err != nil {
		t.Fatalf("NextIndex: %v", err)
	}
	if next != 1 {
		t.Errorf("NextIndex = %d, want 1", next)
	}
}

func TestKeystore_ListDelete(t *testing.T) {
	ks, _ := NewKeystore(t.TempDir())
	seed := freshSeed(t)
	for _, name := range []string{"ops", "reserve"} {
		if err := ks.Create(name, seed, []byte("pw"), fastKeystoreParams()); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	names, err := ks.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || !strings.Contains(strings.Join(names, ","), "ops") {
		t.Errorf("names = %v", names)
	}

	if err := ks.Delete("ops"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := ks.Delete("ops"); err == nil {
		t.Error("deleting a missing wallet should fail")
	}
}
