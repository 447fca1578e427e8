package tx

import (
	"testing"

	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

func TestEstimateFee_MonotoneInInputs(t *testing.T) {
	outputs := []Output{{Value: 1000, Script: types.Script{Type: types.ScriptTypeP2PKH, Data: make([]byte, 20)}}}

	prev := uint64(0)
	for n := 1; n <= 5; n++ {
		fee := EstimateFee(n, outputs, DefaultFeeRate)
		if fee <= prev {
			t.Fatalf("fee for %d inputs (%d) not greater than for %d (%d)", n, fee, n-1, prev)
		}
		prev = fee
	}
}

func TestEstimateFee_TokenOverhead(t *testing.T) {
	plain := []Output{{Value: 1000, Script: types.Script{Type: types.ScriptTypeP2PKH}}}
	fungible := []Output{{Value: 1000, Script: types.Script{Type: types.ScriptTypeP2PKH},
		Token: &types.TokenData{Category: types.Category{1}, Amount: 5}}}
	nft := []Output{{Value: 1000, Script: types.Script{Type: types.ScriptTypeP2PKH},
		Token: &types.TokenData{Category: types.Category{1}, NFT: &types.NFTData{Commitment: make([]byte, 40)}}}}

	feePlain := EstimateFee(1, plain, DefaultFeeRate)
	feeFungible := EstimateFee(1, fungible, DefaultFeeRate)
	feeNFT := EstimateFee(1, nft, DefaultFeeRate)

	if feeFungible <= feePlain {
		t.Error("fungible token output should cost more than a plain output")
	}
	if feeNFT <= feePlain {
		t.Error("NFT output should cost more than a plain output")
	}
}

// The estimate must never come in under the actual wire size for any output
// shape the builders emit.
func TestEstimateSize_UpperBoundsWireSize(t *testing.T) {
	cases := []struct {
		name string
		txn  *Transaction
	}{
		{"plain payment", &Transaction{
			Version: 1,
			Inputs:  []Input{{Signature: make([]byte, 64), PubKey: make([]byte, 33)}},
			Outputs: []Output{
				{Value: 1000, Script: types.Script{Type: types.ScriptTypeP2PKH, Data: make([]byte, 20)}},
				{Value: 2000, Script: types.Script{Type: types.ScriptTypeP2PKH, Data: make([]byte, 20)}},
			},
		}},
		{"covenant genesis", &Transaction{
			Version: 1,
			Inputs: []Input{
				{Signature: make([]byte, 64), PubKey: make([]byte, 33)},
				{Signature: make([]byte, 64), PubKey: make([]byte, 33)},
			},
			Outputs: []Output{
				{Value: 5000, Script: types.Script{Type: types.ScriptTypeP2PKH, Data: make([]byte, 20)}},
				{Value: 1000, Script: types.Script{Type: types.ScriptTypeCovenant, Data: make([]byte, 20)},
					Token: &types.TokenData{
						Category: types.Category{1},
						Amount:   100_000,
						NFT:      &types.NFTData{Capability: types.CapabilityMinting, Commitment: make([]byte, 40)},
					}},
			},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actual := len(tc.txn.Serialize())
			estimated := EstimateSize(len(tc.txn.Inputs), tc.txn.Outputs)
			if estimated < actual {
				t.Errorf("estimate %d under actual wire size %d", estimated, actual)
			}
		})
	}
}

func TestEstimateFee_ZeroRateFallsBack(t *testing.T) {
	outputs := []Output{{Value: 1, Script: types.Script{Type: types.ScriptTypeP2PKH}}}
	if EstimateFee(1, outputs, 0) != EstimateFee(1, outputs, DefaultFeeRate) {
		t.Error("zero fee rate should fall back to the default")
	}
}
