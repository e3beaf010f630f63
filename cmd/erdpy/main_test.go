package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/account"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/signing"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/testutil"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/transaction"
)

type testCLI struct {
	t       *testing.T
	sdkPath string
	config  string
	pem     string
}

func newTestCLI(t *testing.T) *testCLI {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "erdpy.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(""), 0644))

	pem := filepath.Join(dir, "alice.pem")
	require.NoError(t, account.SaveToPemFile(pem, testutil.AliceAccount(t)))

	return &testCLI{t: t, sdkPath: filepath.Join(dir, "sdk"), config: cfg, pem: pem}
}

func (tc *testCLI) run(args ...string) (string, error) {
	tc.t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard

	argv := append([]string{"erdpy", "--config", tc.config, "--sdk-path", tc.sdkPath}, args...)
	err := app.RunContext(context.Background(), argv)
	return out.String(), err
}

func envelope(t *testing.T, w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": data, "error": "", "code": "successful"}))
}

func TestVersion(t *testing.T) {
	out, err := newTestCLI(t).run("--version")
	require.NoError(t, err)
	assert.Equal(t, "erdpy "+Version+"\n", out)
}

func TestContractAddress(t *testing.T) {
	out, err := newTestCLI(t).run("contract-address", "--owner", testutil.AliceAddress, "--nonce", "5")
	require.NoError(t, err)
	assert.Equal(t, "erd1qqqqqqqqqqqqqpgqfzydqmdw7m2vazsp6u5p95yxz76t2p9rd8ss0zp9ts\n", out)

	_, err = newTestCLI(t).run("contract-address", "--owner", "nobody", "--nonce", "5")
	assert.Error(t, err)
}

func TestSignAndVerifyMessage(t *testing.T) {
	tc := newTestCLI(t)

	out, err := tc.run("sign-message", "--message", "custom message of Alice", "--pem", tc.pem)
	require.NoError(t, err)
	signature := strings.TrimSpace(out)
	assert.Equal(t, "b83647b88cdc7904895f510250cc735502bf4fd86331dd1b76e078d6409433753fd6f619fc7f8152cf8589a4669eb8318b2e735e41309ed3b60e64221d814f08", signature)

	out, err = tc.run("verify-message", "--message", "custom message of Alice", "--signature", signature, "--address", testutil.AliceAddress)
	require.NoError(t, err)
	assert.Contains(t, out, "Signature is valid")

	_, err = tc.run("verify-message", "--message", "another message", "--signature", signature, "--address", testutil.AliceAddress)
	assert.True(t, errors.Is(err, signing.ErrInvalidSignature))

	raw, err := tc.run("sign-message", "--message", "custom message of Alice", "--raw", "--pem", tc.pem)
	require.NoError(t, err)
	assert.NotEqual(t, signature, strings.TrimSpace(raw))
}

func TestSignTx(t *testing.T) {
	tc := newTestCLI(t)
	outfile := filepath.Join(t.TempDir(), "tx.json")

	_, err := tc.run("sign-tx",
		"--pem", tc.pem,
		"--nonce", "89",
		"--receiver", testutil.BobAddress,
		"--gas-price", "1000000000",
		"--gas-limit", "50000",
		"--chain", "local-testnet",
		"--outfile", outfile,
	)
	require.NoError(t, err)

	data, err := os.ReadFile(outfile)
	require.NoError(t, err)
	var tx transaction.Transaction
	require.NoError(t, json.Unmarshal(data, &tx))
	assert.Equal(t, "b56769014f2bdc5cf9fc4a05356807d71fcf8775c819b0f1b0964625b679c918ffa64862313bfef86f99b38cb84fcdb16fa33ad6eb565276616723405cd8f109", tx.Signature)
	assert.Equal(t, testutil.AliceAddress, tx.Sender)

	// re-signing the file yields the same signature
	out, err := tc.run("sign-tx", "--pem", tc.pem, "--infile", outfile)
	require.NoError(t, err)
	assert.Contains(t, out, tx.Signature)
}

func TestSignTx_Errors(t *testing.T) {
	tc := newTestCLI(t)

	_, err := tc.run("sign-tx", "--pem", tc.pem, "--receiver", testutil.BobAddress, "--chain", "D")
	assert.ErrorContains(t, err, "--nonce")

	_, err = tc.run("sign-tx", "--pem", tc.pem, "--nonce", "1", "--receiver", testutil.BobAddress)
	assert.ErrorContains(t, err, "--chain")

	infile := filepath.Join(t.TempDir(), "tx.json")
	tx := testutil.CreateTestTransaction(t, 1)
	tx.Sender = testutil.BobAddress
	data, err := json.Marshal(tx)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(infile, data, 0644))
	_, err = tc.run("sign-tx", "--pem", tc.pem, "--infile", infile)
	assert.ErrorContains(t, err, "does not match")
}

func TestGetAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/address/" + testutil.AliceAddress:
			envelope(t, w, map[string]any{"account": map[string]any{
				"address": testutil.AliceAddress,
				"nonce":   3,
				"balance": "2500000000000000000",
			}})
		case "/address/" + testutil.AliceAddress + "/balance":
			envelope(t, w, map[string]any{"balance": "2500000000000000000"})
		case "/address/" + testutil.AliceAddress + "/nonce":
			envelope(t, w, map[string]any{"nonce": 3})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	tc := newTestCLI(t)

	out, err := tc.run("get_account", "--proxy", srv.URL, "--address", testutil.AliceAddress)
	require.NoError(t, err)
	assert.Contains(t, out, "2.5 EGLD")

	out, err = tc.run("get_account", "--proxy", srv.URL, "--address", testutil.AliceAddress, "--balance")
	require.NoError(t, err)
	assert.Equal(t, "2500000000000000000\n", out)

	out, err = tc.run("get_account", "--proxy", srv.URL, "--address", testutil.AliceAddress, "--nonce")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	_, err = tc.run("get_account", "--address", testutil.AliceAddress)
	assert.ErrorContains(t, err, "no proxy configured")
}

func TestDeployAndJournal(t *testing.T) {
	var sent []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/address/" + testutil.AliceAddress + "/nonce":
			envelope(t, w, map[string]any{"nonce": 5})
		case "/transaction/send":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			sent = append(sent, body)
			envelope(t, w, map[string]any{"txHash": "f00dbabe"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tc := newTestCLI(t)
	bytecode := filepath.Join(t.TempDir(), "adder.wasm")
	require.NoError(t, os.WriteFile(bytecode, []byte{0x00, 0x61, 0x73, 0x6d}, 0644))
	journalPath := filepath.Join(t.TempDir(), "journal")

	out, err := tc.run("--journal", "badger", "--journal-path", journalPath,
		"deploy",
		"--proxy", srv.URL,
		"--chain", "local-testnet",
		"--pem", tc.pem,
		"--bytecode", bytecode,
		"--arguments", "42",
		"--gas-limit", "5000000",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "erd1qqqqqqqqqqqqqpgqfzydqmdw7m2vazsp6u5p95yxz76t2p9rd8ss0zp9ts")
	assert.Contains(t, out, "f00dbabe")

	require.Len(t, sent, 1)
	assert.Equal(t, float64(5), sent[0]["nonce"])
	assert.Equal(t, "local-testnet", sent[0]["chainID"])
	assert.NotEmpty(t, sent[0]["signature"])

	out, err = tc.run("--journal", "badger", "--journal-path", journalPath, "journal", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "f00dbabe")
	assert.Contains(t, out, "sent")
}

func TestSignBLS(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	tc := newTestCLI(t)

	out, err := tc.run("--bls-signer-command", `sh -c 'echo "bls:$1:$2"' signer`,
		"sign-bls", "--message", "hello", "--secret-key", "7cff99bd")
	require.NoError(t, err)
	assert.Equal(t, "bls:hello:7cff99bd\n", out)

	_, err = tc.run("--bls-signer-command", `sh -c 'echo broken >&2; exit 3'`,
		"sign-bls", "--message", "hello", "--secret-key", "7cff99bd")
	assert.True(t, errors.Is(err, signing.ErrCannotSignMessageWithBLSKey))
}

func TestInvalidConfiguration(t *testing.T) {
	_, err := newTestCLI(t).run("--journal", "sqlite", "contract-address", "--owner", testutil.AliceAddress, "--nonce", "1")
	assert.ErrorContains(t, err, "invalid configuration")
}
