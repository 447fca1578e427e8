package provider

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	klog "github.com/Klingon-tech/klingnet-treasury/internal/log"
	"github.com/Klingon-tech/klingnet-treasury/internal/utxo"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
	"github.com/rs/zerolog"
)

// Client is a JSON-RPC 2.0 HTTP client implementing Provider.
type Client struct {
	endpoint string
	http     *http.Client
	logger   zerolog.Logger
}

// NewClient creates a provider client targeting the given endpoint URL.
func NewClient(endpoint string) *Client {
	return NewClientWithTimeout(endpoint, 10*time.Second)
}

// NewClientWithTimeout creates a provider client with a custom HTTP timeout.
func NewClientWithTimeout(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		logger:   klog.WithComponent("provider"),
	}
}

// request is a JSON-RPC 2.0 request.
type request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      int         `json:"id"`
}

// response is a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      int             `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPCError is returned when the node responds with a JSON-RPC error. It
// unwraps to ErrNetwork.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (e *RPCError) Unwrap() error { return ErrNetwork }

// call invokes a JSON-RPC method and unmarshals the result into result.
func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	body, err := json.Marshal(request{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	var rpcResp response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
	}
	if rpcResp.Error != nil {
		return &RPCError{Code: rpcResp.Error.Code, Message: rpcResp.Error.Message}
	}
	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("%w: decode result: %v", ErrNetwork, err)
		}
	}
	return nil
}

// UTXOs returns the unspent outputs locked to addr.
func (c *Client) UTXOs(ctx context.Context, addr types.Address) ([]*utxo.UTXO, error) {
	var result struct {
		UTXOs []*utxo.UTXO `json:"utxos"`
	}
	params := map[string]string{"address": addr.String()}
	if err := c.call(ctx, "utxo_getByAddress", params, &result); err != nil {
		return nil, err
	}
	c.logger.Debug().Str("address", addr.String()).Int("count", len(result.UTXOs)).Msg("Fetched UTXOs")
	return result.UTXOs, nil
}

// RawTransaction returns the serialized bytes of a transaction.
func (c *Client) RawTransaction(ctx context.Context, txid types.Hash) ([]byte, error) {
	var result struct {
		Hex string `json:"hex"`
	}
	params := map[string]string{"txid": txid.String()}
	if err := c.call(ctx, "chain_getRawTransaction", params, &result); err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(result.Hex)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid transaction hex: %v", ErrNetwork, err)
	}
	return raw, nil
}

// Submit broadcasts a serialized transaction and returns its id.
func (c *Client) Submit(ctx context.Context, raw []byte) (types.Hash, error) {
	var result struct {
		TxID string `json:"txid"`
	}
	params := map[string]string{"tx": hex.EncodeToString(raw)}
	if err := c.call(ctx, "tx_submit", params, &result); err != nil {
		return types.Hash{}, err
	}
	txid, err := types.HexToHash(result.TxID)
	if err != nil {
		return types.Hash{}, fmt.Errorf("%w: invalid txid in response: %v", ErrNetwork, err)
	}
	return txid, nil
}
