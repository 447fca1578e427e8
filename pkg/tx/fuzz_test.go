package tx

import (
	"encoding/json"
	"testing"
)

// FuzzTxUnmarshal tests that arbitrary JSON input does not panic
// when unmarshaled into a Transaction struct.
func FuzzTxUnmarshal(f *testing.F) {
	f.Add([]byte(`{"inputs":[{"prevout":{"txid":"0000000000000000000000000000000000000000000000000000000000000000","index":0}}],"outputs":[{"value":1000,"script":{"type":1,"data":"0000000000000000000000000000000000000000"}}]}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`null`))
	f.Add([]byte(`{"inputs":null,"outputs":null}`))
	f.Add([]byte(`{"outputs":[{"value":0,"token":{"category":"","amount":0}}]}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		var tx Transaction
		if err := json.Unmarshal(data, &tx); err != nil {
			return
		}
		// If unmarshal succeeded, these must not panic.
		tx.Hash()
		tx.SigningBytes()
		tx.Serialize()
		tx.Validate()
	})
}

// FuzzDeserialize tests that arbitrary wire bytes do not panic the decoder.
func FuzzDeserialize(f *testing.F) {
	valid := Transaction{Version: 1, Inputs: []Input{{}}, Outputs: []Output{{Value: 1}}}
	f.Add(valid.Serialize())
	f.Add([]byte{})
	f.Add([]byte{0x01, 0x00, 0x00, 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		decoded, err := Deserialize(data)
		if err != nil {
			return
		}
		// A successful decode must re-encode without panicking.
		decoded.Serialize()
	})
}
