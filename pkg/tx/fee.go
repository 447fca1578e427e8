package tx

// Fee estimation constants. The per-output figures are deliberate upper
// bounds over the wire encoding, so the estimate can never come in under the
// size of any transaction the builders emit.
const (
	// DefaultFeeRate is the safety fee rate in base units per byte.
	DefaultFeeRate uint64 = 2

	// perInputSize models a fully signed P2PKH input.
	perInputSize = 148
	// outputBaseSize is value(8) plus a locking-script upper bound(36).
	outputBaseSize = 8 + 36
	// tokenBaseSize covers the token category and bitfield.
	tokenBaseSize = 34
	// fungibleAmountSize covers a non-zero fungible token amount.
	fungibleAmountSize = 9
	// txOverhead covers version, counts, and locktime.
	txOverhead = 12
)

// EstimateSize returns a conservative upper-bound byte size for a
// transaction with numInputs signed P2PKH inputs and the given outputs.
//
// Per output: 8 (value) + 36 (locking script), plus when a token rides the
// output: 34 (category/bitfield), 1+len(commitment) for an NFT payload, and
// 9 for a non-zero fungible amount.
func EstimateSize(numInputs int, outputs []Output) int {
	size := txOverhead + perInputSize*numInputs
	for _, out := range outputs {
		size += outputBaseSize
		if out.Token == nil {
			continue
		}
		size += tokenBaseSize
		if out.Token.NFT != nil {
			size += 1 + len(out.Token.NFT.Commitment)
		}
		if out.Token.Amount > 0 {
			size += fungibleAmountSize
		}
	}
	return size
}

// EstimateFee returns the fee for a transaction with the given input count
// and outputs at the given fee rate (base units per byte). A zero feeRate
// falls back to DefaultFeeRate.
func EstimateFee(numInputs int, outputs []Output, feeRate uint64) uint64 {
	if feeRate == 0 {
		feeRate = DefaultFeeRate
	}
	return uint64(EstimateSize(numInputs, outputs)) * feeRate
}
