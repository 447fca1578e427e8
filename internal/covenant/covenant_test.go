package covenant

import (
	"context"
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-treasury/internal/commitment"
	"github.com/Klingon-tech/klingnet-treasury/internal/provider"
	"github.com/Klingon-tech/klingnet-treasury/internal/utxo"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

const testDust = 546

var (
	testAuthority = types.Address{0xaa, 0x01}
	testCategory  = types.Category{0x42, 0x43}
	testNow       = uint64(1_750_000_000)
)

func vaultParams() VaultParams {
	return VaultParams{
		AuthorityHash: testAuthority,
		PeriodSeconds: 86_400,
		SpendLimit:    1_000_000,
	}
}

func airdropParams(totalPool uint64) AirdropParams {
	return AirdropParams{
		AuthorityHash: testAuthority,
		TotalPool:     totalPool,
		ClaimAmount:   10,
	}
}

// primeState installs a state UTXO for params at its derived address.
func primeState(t *testing.T, mock *provider.Mock, params Params, com []byte, value uint64, tokenAmount uint64) types.Address {
	t.Helper()
	addr := DeriveAddress(params)
	mock.AddUTXO(addr, &utxo.UTXO{
		Outpoint: types.Outpoint{TxID: types.Hash{0x99}, Index: 0},
		Value:    value,
		Script:   types.CovenantScript(addr),
		Token: &types.TokenData{
			Category: testCategory,
			Amount:   tokenAmount,
			NFT: &types.NFTData{
				Capability: types.CapabilityMutable,
				Commitment: com,
			},
		},
	})
	return addr
}

func encodeVault(t *testing.T, v *commitment.Vault) []byte {
	t.Helper()
	b, err := v.Encode()
	if err != nil {
		t.Fatalf("encode vault: %v", err)
	}
	return b
}

func encodeAirdrop(t *testing.T, a *commitment.Airdrop) []byte {
	t.Helper()
	b, err := a.Encode()
	if err != nil {
		t.Fatalf("encode airdrop: %v", err)
	}
	return b
}

func newTestEngine(mock *provider.Mock) *Engine {
	return NewEngine(mock, testDust, 0)
}

func TestDeriveAddress_Deterministic(t *testing.T) {
	a := DeriveAddress(vaultParams())
	b := DeriveAddress(vaultParams())
	if a != b {
		t.Error("equal params must derive equal addresses")
	}

	other := vaultParams()
	other.SpendLimit++
	if DeriveAddress(other) == a {
		t.Error("different params must derive different addresses")
	}

	// Same authority, different kind.
	air := airdropParams(100)
	if DeriveAddress(air) == a {
		t.Error("different kinds must derive different addresses")
	}
}

func TestReadState(t *testing.T) {
	mock := provider.NewMock()
	com := encodeVault(t, &commitment.Vault{Status: commitment.StatusActive})
	addr := primeState(t, mock, vaultParams(), com, 10_000, 0)

	st, err := ReadState(context.Background(), mock, addr, testCategory)
	if err != nil {
		t.Fatalf("ReadState: %v", err)
	}
	if st.Capability != types.CapabilityMutable {
		t.Errorf("capability = %v", st.Capability)
	}
	if len(st.Commitment) != commitment.Size {
		t.Errorf("commitment length = %d", len(st.Commitment))
	}
}

func TestReadState_ReversedCategory(t *testing.T) {
	mock := provider.NewMock()
	com := encodeVault(t, &commitment.Vault{Status: commitment.StatusActive})
	addr := primeState(t, mock, vaultParams(), com, 10_000, 0)

	reversed := types.Category(types.Hash(testCategory).Reversed())
	if _, err := ReadState(context.Background(), mock, addr, reversed); err != nil {
		t.Errorf("reversed category should match: %v", err)
	}
}

func TestReadState_NoStateUTXO(t *testing.T) {
	mock := provider.NewMock()
	addr := DeriveAddress(vaultParams())

	_, err := ReadState(context.Background(), mock, addr, testCategory)
	if !errors.Is(err, ErrNoStateUTXO) {
		t.Errorf("want ErrNoStateUTXO, got %v", err)
	}
}

func TestReadState_MissingNFT(t *testing.T) {
	mock := provider.NewMock()
	addr := DeriveAddress(vaultParams())
	mock.AddUTXO(addr, &utxo.UTXO{
		Outpoint: types.Outpoint{TxID: types.Hash{0x99}, Index: 0},
		Value:    10_000,
		Script:   types.CovenantScript(addr),
		Token:    &types.TokenData{Category: testCategory, Amount: 5},
	})

	_, err := ReadState(context.Background(), mock, addr, testCategory)
	if !errors.Is(err, ErrMissingStateNFT) {
		t.Errorf("want ErrMissingStateNFT, got %v", err)
	}
}

func TestReadState_ProviderFailure(t *testing.T) {
	mock := provider.NewMock()
	mock.Err = provider.ErrNetwork

	_, err := ReadState(context.Background(), mock, types.Address{1}, testCategory)
	if !errors.Is(err, provider.ErrNetwork) {
		t.Errorf("want ErrNetwork, got %v", err)
	}
}
