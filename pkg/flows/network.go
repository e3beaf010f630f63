package flows

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/address"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/proxy"
	"golang.org/x/sync/errgroup"
)

// NetworkSummary is the network configuration plus the latest nonce of every shard
type NetworkSummary struct {
	Config      *proxy.NetworkConfig `json:"config"`
	ShardNonces map[uint32]uint64    `json:"shardNonces"`
}

// GetNetworkSummary queries the network config and every shard's status concurrently
func (f *Flows) GetNetworkSummary(ctx context.Context) (*NetworkSummary, error) {
	cfg, err := f.proxy.GetNetworkConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get network config: %w", err)
	}

	shards := make([]uint32, 0, cfg.NumShards+1)
	for i := uint32(0); i < cfg.NumShards; i++ {
		shards = append(shards, i)
	}
	shards = append(shards, proxy.MetachainShardID)

	var mu sync.Mutex
	nonces := make(map[uint32]uint64, len(shards))

	g, gctx := errgroup.WithContext(ctx)
	for _, shard := range shards {
		shard := shard
		g.Go(func() error {
			nonce, err := f.proxy.GetLastBlockNonce(gctx, shard)
			if err != nil {
				return fmt.Errorf("failed to get last nonce of shard %d: %w", shard, err)
			}
			mu.Lock()
			nonces[shard] = nonce
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &NetworkSummary{Config: cfg, ShardNonces: nonces}, nil
}

// GetAccount validates the address before asking the proxy
func (f *Flows) GetAccount(ctx context.Context, addr string) (*proxy.Account, error) {
	a, err := address.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return f.proxy.GetAccount(ctx, a.Bech32())
}

func (f *Flows) GetAccountBalance(ctx context.Context, addr string) (*big.Int, error) {
	a, err := address.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return f.proxy.GetAccountBalance(ctx, a.Bech32())
}

func (f *Flows) GetAccountNonce(ctx context.Context, addr string) (uint64, error) {
	a, err := address.Parse(addr)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return f.proxy.GetAccountNonce(ctx, a.Bech32())
}
