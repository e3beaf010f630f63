package display

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/config"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/flows"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/proxy"
)

const (
	// Denomination is the number of decimals of one EGLD
	Denomination = 18
	Ticker       = "EGLD"
)

var oneEGLD = new(big.Int).Exp(big.NewInt(10), big.NewInt(Denomination), nil)

// FormatBalance renders an amount of the smallest unit as EGLD, e.g. "1,234.5 EGLD"
func FormatBalance(balance *big.Int) string {
	if balance == nil {
		balance = big.NewInt(0)
	}

	sign := ""
	if balance.Sign() < 0 {
		sign = "-"
	}
	whole, frac := new(big.Int).QuoRem(new(big.Int).Abs(balance), oneEGLD, new(big.Int))

	out := sign + humanize.BigComma(whole)
	if frac.Sign() != 0 {
		digits := frac.String()
		digits = strings.Repeat("0", Denomination-len(digits)) + digits
		out += "." + strings.TrimRight(digits, "0")
	}
	return out + " " + Ticker
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// PrintAccount renders an account with its balance in both units
func PrintAccount(w io.Writer, acc *proxy.Account) error {
	balance, ok := new(big.Int).SetString(acc.Balance, 10)
	if !ok {
		return fmt.Errorf("invalid balance %q", acc.Balance)
	}

	t := newTable(w)
	t.AppendRows([]table.Row{
		{"Address", acc.Address},
		{"Nonce", acc.Nonce},
		{"Balance", balance.String()},
		{"Balance (" + Ticker + ")", FormatBalance(balance)},
	})
	if acc.Username != "" {
		t.AppendRow(table.Row{"Username", acc.Username})
	}
	if acc.Code != "" {
		t.AppendRow(table.Row{"Code", humanize.Bytes(uint64(len(acc.Code) / 2))})
	}
	t.Render()
	return nil
}

func shardName(shard uint32) string {
	if shard == proxy.MetachainShardID {
		return "metachain"
	}
	return fmt.Sprintf("%d", shard)
}

// PrintNetworkSummary renders the network configuration followed by the last nonce of every shard
func PrintNetworkSummary(w io.Writer, summary *flows.NetworkSummary) {
	cfg := summary.Config

	t := newTable(w)
	t.SetTitle("Network")
	t.AppendRows([]table.Row{
		{"Chain ID", fmt.Sprintf("%s (%s)", cfg.ChainID, config.GetChainName(cfg.ChainID))},
		{"Shards", cfg.NumShards},
		{"Min gas price", humanize.Comma(int64(cfg.MinGasPrice))},
		{"Min gas limit", humanize.Comma(int64(cfg.MinGasLimit))},
		{"Gas per data byte", cfg.GasPerDataByte},
		{"Min tx version", cfg.MinTransactionVersion},
		{"Round duration", fmt.Sprintf("%d ms", cfg.RoundDuration)},
	})
	t.Render()

	shards := make([]uint32, 0, len(summary.ShardNonces))
	for shard := range summary.ShardNonces {
		shards = append(shards, shard)
	}
	sort.Slice(shards, func(i, j int) bool { return shards[i] < shards[j] })

	nonces := newTable(w)
	nonces.AppendHeader(table.Row{"Shard", "Last block nonce"})
	for _, shard := range shards {
		nonces.AppendRow(table.Row{shardName(shard), summary.ShardNonces[shard]})
	}
	nonces.Render()
}

// PrintJournal lists journal records, oldest first
func PrintJournal(w io.Writer, records []*persistence.TransactionRecord) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Status", "Nonce", "Receiver", "Hash", "Updated"})
	for _, r := range records {
		var nonce any
		receiver := ""
		if r.Transaction != nil {
			nonce = r.Transaction.Nonce
			receiver = r.Transaction.Receiver
		}
		t.AppendRow(table.Row{r.ID, r.Status, nonce, receiver, r.Hash, humanize.Time(r.UpdatedAt)})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", len(records)})
	t.Render()
}

// PrintQueryResponse shows every returned value as base64, hex and unsigned number
func PrintQueryResponse(w io.Writer, res *proxy.QueryResponse) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Base64", "Hex", "Number"})
	for i, value := range res.ReturnData {
		t.AppendRow(table.Row{
			i,
			base64.StdEncoding.EncodeToString(value),
			hex.EncodeToString(value),
			new(big.Int).SetBytes(value).String(),
		})
	}
	t.Render()
	if res.ReturnMessage != "" {
		fmt.Fprintf(w, "%s: %s\n", res.ReturnCode, res.ReturnMessage)
	}
}

// PrintJSON writes v as indented JSON followed by a newline
func PrintJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
