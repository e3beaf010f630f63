package proxy

import (
	"encoding/json"
	"fmt"
)

// MetachainShardID addresses the metachain in /network/status
const MetachainShardID uint32 = 4294967295

// envelope wraps every proxy response
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

// ErrorResponse is returned when the proxy answers with an error or a non-2xx status
type ErrorResponse struct {
	Path       string
	StatusCode int
	Code       string
	Message    string
}

func (e *ErrorResponse) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("proxy request %s failed (%d %s): %s", e.Path, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("proxy request %s failed with status %d", e.Path, e.StatusCode)
}

type Account struct {
	Address  string `json:"address"`
	Nonce    uint64 `json:"nonce"`
	Balance  string `json:"balance"`
	Code     string `json:"code,omitempty"`
	CodeHash []byte `json:"codeHash,omitempty"`
	RootHash []byte `json:"rootHash,omitempty"`
	Username string `json:"username,omitempty"`
}

type NetworkConfig struct {
	ChainID               string `json:"erd_chain_id"`
	NumShards             uint32 `json:"erd_num_shards_without_meta"`
	MinGasPrice           uint64 `json:"erd_min_gas_price"`
	MinGasLimit           uint64 `json:"erd_min_gas_limit"`
	GasPerDataByte        uint64 `json:"erd_gas_per_data_byte"`
	MinTransactionVersion uint32 `json:"erd_min_transaction_version"`
	RoundDuration         uint64 `json:"erd_round_duration"`
}

type NetworkStatus struct {
	Nonce        uint64 `json:"erd_nonce"`
	CurrentRound uint64 `json:"erd_current_round"`
	EpochNumber  uint64 `json:"erd_epoch_number"`
}

type QueryRequest struct {
	ScAddress string   `json:"scAddress"`
	FuncName  string   `json:"funcName"`
	Args      []string `json:"args"`
	Caller    string   `json:"caller,omitempty"`
	Value     string   `json:"value,omitempty"`
}

type QueryResponse struct {
	ReturnData    [][]byte `json:"returnData"`
	ReturnCode    string   `json:"returnCode"`
	ReturnMessage string   `json:"returnMessage"`
	GasRemaining  uint64   `json:"gasRemaining"`
}
