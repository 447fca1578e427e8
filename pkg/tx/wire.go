package tx

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

// Wire decoding errors.
var (
	ErrTruncated = errors.New("truncated transaction bytes")
)

// Sanity caps for wire decoding. These bound allocations when decoding
// untrusted provider bytes; they are well above anything the engine emits.
const (
	maxWireInputs     = 4096
	maxWireOutputs    = 4096
	maxWireScriptData = 1 << 16
	maxWireKeyData    = 1 << 10
)

// Serialize returns the full wire encoding, signatures included.
//
// Layout:
//
//	version(4) | input_count(4)
//	| [prevout(36) | sig_len(4) | sig | pubkey_len(4) | pubkey]...
//	| output_count(4) | [output]... | locktime(8)
//
// Outputs use the same encoding as SigningBytes.
func (tx *Transaction) Serialize() []byte {
	var buf []byte

	buf = binary.LittleEndian.AppendUint32(buf, tx.Version)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf = append(buf, in.PrevOut.TxID[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, in.PrevOut.Index)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(in.Signature)))
		buf = append(buf, in.Signature...)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(in.PubKey)))
		buf = append(buf, in.PubKey...)
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		buf = appendOutput(buf, out)
	}

	buf = binary.LittleEndian.AppendUint64(buf, tx.LockTime)

	return buf
}

// SerializeHex returns the hex-encoded wire encoding.
func (tx *Transaction) SerializeHex() string {
	return hex.EncodeToString(tx.Serialize())
}

// Deserialize parses a full wire-encoded transaction.
func Deserialize(data []byte) (*Transaction, error) {
	r := reader{data: data}

	var t Transaction
	var err error

	if t.Version, err = r.uint32(); err != nil {
		return nil, err
	}

	inCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if inCount > maxWireInputs {
		return nil, fmt.Errorf("input count %d exceeds limit", inCount)
	}
	t.Inputs = make([]Input, inCount)
	for i := range t.Inputs {
		in := &t.Inputs[i]
		txid, err := r.bytes(types.HashSize)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		copy(in.PrevOut.TxID[:], txid)
		if in.PrevOut.Index, err = r.uint32(); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		if in.Signature, err = r.varBytes(maxWireKeyData); err != nil {
			return nil, fmt.Errorf("input %d signature: %w", i, err)
		}
		if in.PubKey, err = r.varBytes(maxWireKeyData); err != nil {
			return nil, fmt.Errorf("input %d pubkey: %w", i, err)
		}
	}

	outCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if outCount > maxWireOutputs {
		return nil, fmt.Errorf("output count %d exceeds limit", outCount)
	}
	t.Outputs = make([]Output, outCount)
	for i := range t.Outputs {
		if err := r.output(&t.Outputs[i]); err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
	}

	if t.LockTime, err = r.uint64(); err != nil {
		return nil, err
	}

	return &t, nil
}

// DeserializeHex parses a hex-encoded wire transaction.
func DeserializeHex(s string) (*Transaction, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction hex: %w", err)
	}
	return Deserialize(data)
}

// reader is a bounds-checked cursor over wire bytes.
type reader struct {
	data []byte
	off  int
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, ErrTruncated
	}
	b := make([]byte, n)
	copy(b, r.data[r.off:r.off+n])
	r.off += n
	return b, nil
}

func (r *reader) byte() (byte, error) {
	if r.off >= len(r.data) {
		return 0, ErrTruncated
	}
	b := r.data[r.off]
	r.off++
	return b, nil
}

func (r *reader) uint32() (uint32, error) {
	if r.off+4 > len(r.data) {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) uint64() (uint64, error) {
	if r.off+8 > len(r.data) {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v, nil
}

// varBytes reads a uint32 length prefix followed by that many bytes.
// A zero length yields nil.
func (r *reader) varBytes(limit uint32) ([]byte, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	if n > limit {
		return nil, fmt.Errorf("field length %d exceeds limit %d", n, limit)
	}
	return r.bytes(int(n))
}

// output decodes a single output in SigningBytes layout.
func (r *reader) output(out *Output) error {
	var err error
	if out.Value, err = r.uint64(); err != nil {
		return err
	}

	st, err := r.byte()
	if err != nil {
		return err
	}
	out.Script.Type = types.ScriptType(st)
	if out.Script.Data, err = r.varBytes(maxWireScriptData); err != nil {
		return fmt.Errorf("script data: %w", err)
	}

	tokenFlag, err := r.byte()
	if err != nil {
		return err
	}
	if tokenFlag == 0 {
		return nil
	}

	token := &types.TokenData{}
	cat, err := r.bytes(types.HashSize)
	if err != nil {
		return fmt.Errorf("token category: %w", err)
	}
	copy(token.Category[:], cat)
	if token.Amount, err = r.uint64(); err != nil {
		return fmt.Errorf("token amount: %w", err)
	}

	nftFlag, err := r.byte()
	if err != nil {
		return err
	}
	if nftFlag != 0 {
		cap, err := r.byte()
		if err != nil {
			return err
		}
		commitLen, err := r.byte()
		if err != nil {
			return err
		}
		commitment, err := r.bytes(int(commitLen))
		if err != nil {
			return fmt.Errorf("nft commitment: %w", err)
		}
		token.NFT = &types.NFTData{
			Capability: types.Capability(cap),
			Commitment: commitment,
		}
	}

	out.Token = token
	return nil
}
