package covenant

import (
	"context"
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-treasury/internal/commitment"
	"github.com/Klingon-tech/klingnet-treasury/internal/funding"
	"github.com/Klingon-tech/klingnet-treasury/internal/provider"
	"github.com/Klingon-tech/klingnet-treasury/internal/utxo"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

var testFunder = types.Address{0xf0}

func primeFunder(mock *provider.Mock, values ...uint64) {
	for i, v := range values {
		mock.AddUTXO(testFunder, &utxo.UTXO{
			Outpoint: types.Outpoint{TxID: types.Hash{0x10 + byte(i)}, Index: uint32(i)},
			Value:    v,
			Script:   types.P2PKHScript(testFunder),
		})
	}
}

func TestDeployVault(t *testing.T) {
	mock := provider.NewMock()
	primeFunder(mock, 200_000)

	p, err := newTestEngine(mock).DeployVault(context.Background(), vaultParams(), testFunder,
		100_000, commitment.FlagCancelable|commitment.FlagResumable, testNow)
	if err != nil {
		t.Fatalf("DeployVault: %v", err)
	}

	addr := DeriveAddress(vaultParams())
	var contract *types.TokenData
	for i := range p.Tx.Outputs {
		out := &p.Tx.Outputs[i]
		if out.Script.Equal(types.CovenantScript(addr)) {
			contract = out.Token
		}
	}
	if contract == nil || contract.NFT == nil {
		t.Fatal("contract output with NFT not found")
	}
	if contract.NFT.Capability != types.CapabilityMinting {
		t.Error("genesis NFT should carry the minting capability")
	}

	v, err := commitment.DecodeVault(contract.NFT.Commitment)
	if err != nil {
		t.Fatalf("decode initial commitment: %v", err)
	}
	if v.Status != commitment.StatusActive || v.PeriodStart != testNow {
		t.Errorf("initial state = %+v", v)
	}
	if !v.Flags.Cancelable() || !v.Flags.Resumable() {
		t.Error("flags not carried into the initial commitment")
	}

	for _, so := range p.SourceOutputs {
		if so.Unlock != UnlockP2PKH {
			t.Errorf("funding inputs unlock via p2pkh, got %q", so.Unlock)
		}
	}
}

func TestDeployPayment_FirstPaymentDueAfterInterval(t *testing.T) {
	mock := provider.NewMock()
	primeFunder(mock, 500_000)

	params := PaymentParams{
		AuthorityHash:   testAuthority,
		RecipientHash:   types.Address{0xbb},
		PaymentSats:     10_000,
		IntervalSeconds: 3600,
	}
	p, err := newTestEngine(mock).DeployPayment(context.Background(), params, testFunder,
		120_000, commitment.FlagCancelable, testNow)
	if err != nil {
		t.Fatalf("DeployPayment: %v", err)
	}

	addr := DeriveAddress(params)
	for i := range p.Tx.Outputs {
		out := &p.Tx.Outputs[i]
		if !out.Script.Equal(types.CovenantScript(addr)) {
			continue
		}
		pay, err := commitment.DecodePayment(out.Token.NFT.Commitment)
		if err != nil {
			t.Fatalf("decode initial commitment: %v", err)
		}
		if pay.NextPaymentAt != testNow+3600 {
			t.Errorf("NextPaymentAt = %d, want now+interval", pay.NextPaymentAt)
		}
		return
	}
	t.Fatal("contract output not found")
}

func TestDeployAirdrop_MintsPool(t *testing.T) {
	mock := provider.NewMock()
	primeFunder(mock, 200_000)

	params := airdropParams(1_000)
	p, err := newTestEngine(mock).DeployAirdrop(context.Background(), params, testFunder,
		50_000, commitment.FlagCancelable, testNow)
	if err != nil {
		t.Fatalf("DeployAirdrop: %v", err)
	}

	addr := DeriveAddress(params)
	for i := range p.Tx.Outputs {
		out := &p.Tx.Outputs[i]
		if out.Script.Equal(types.CovenantScript(addr)) {
			if out.Token.Amount != 1_000 {
				t.Errorf("minted pool = %d, want 1000", out.Token.Amount)
			}
			return
		}
	}
	t.Fatal("contract output not found")
}

func TestDeploy_InsufficientFunds(t *testing.T) {
	mock := provider.NewMock()
	primeFunder(mock, 10_000)

	_, err := newTestEngine(mock).DeployVault(context.Background(), vaultParams(), testFunder,
		100_000, 0, testNow)
	if !errors.Is(err, funding.ErrInsufficientFunds) {
		t.Errorf("want ErrInsufficientFunds, got %v", err)
	}
}

func TestDeploy_ProviderFailure(t *testing.T) {
	mock := provider.NewMock()
	mock.Err = provider.ErrNetwork

	_, err := newTestEngine(mock).DeployVault(context.Background(), vaultParams(), testFunder,
		100_000, 0, testNow)
	if !errors.Is(err, provider.ErrNetwork) {
		t.Errorf("want ErrNetwork, got %v", err)
	}
}
