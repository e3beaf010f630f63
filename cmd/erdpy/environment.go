package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/account"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/config"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/dependencies"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/flows"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/logger"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence/journal"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/process"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/proxy"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/signing"
)

// environment holds everything a command needs, built from flags, env vars and erdpy.toml
type environment struct {
	config *config.Config
	logger *zap.Logger
	out    io.Writer

	journal persistence.ITransactionJournal
}

func newEnvironment(c *cli.Context) (*environment, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	applyFlags(c, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	out := c.App.Writer
	if out == nil {
		out = os.Stdout
	}
	return &environment{config: cfg, logger: l, out: out}, nil
}

// applyFlags overlays flags and env vars, which win over the configuration file
func applyFlags(c *cli.Context, cfg *config.Config) {
	if v := c.String("sdk-path"); v != "" {
		cfg.SDKPath = v
		cfg.Journal.Path = filepath.Join(v, config.DefaultJournalDirName)
	}
	if v := c.String("modules-url"); v != "" {
		cfg.ModulesURL = v
	}
	if v := c.String("bls-signer-command"); v != "" {
		cfg.BLSSignerCommand = v
	}
	if v := c.String("journal"); v != "" {
		cfg.Journal.Type = config.JournalType(v)
	}
	if v := c.String("journal-path"); v != "" {
		cfg.Journal.Path = v
	}
	if v := c.String("redis-address"); v != "" {
		cfg.Journal.RedisAddress = v
	}
	if v := c.String("redis-password"); v != "" {
		cfg.Journal.RedisPassword = v
	}
	if c.IsSet("proxy") {
		cfg.Proxy = c.String("proxy")
	}
	if c.IsSet("chain") {
		cfg.ChainID = c.String("chain")
	}
}

func (e *environment) Close() {
	if e.journal != nil {
		if err := e.journal.Close(); err != nil {
			e.logger.Sugar().Warnw("Failed to close journal", "error", err)
		}
	}
	_ = e.logger.Sync()
}

func (e *environment) proxyClient() (*proxy.Client, error) {
	if e.config.Proxy == "" {
		return nil, fmt.Errorf("no proxy configured, pass --proxy or set %s", config.EnvProxy)
	}
	return proxy.NewClient(&proxy.ClientConfig{
		URL:               e.config.Proxy,
		Logger:            e.logger,
		RequestsPerSecond: e.config.RequestsPerSecond,
	})
}

func (e *environment) moduleManager() *dependencies.ModuleManager {
	return dependencies.NewModuleManager(&dependencies.ModuleManagerConfig{
		SDKPath:    e.config.SDKPath,
		ModulesURL: e.config.ModulesURL,
		Catalog:    dependencies.DefaultCatalog(e.config.MclSignerTag),
	}, e.logger)
}

func (e *environment) facade() *signing.Facade {
	bls := signing.NewBLSSigner(&signing.BLSSignerConfig{
		Installer: e.moduleManager(),
		Runner:    process.NewExecRunner(nil, e.logger),
		Command:   e.config.BLSSignerCommand,
	}, e.logger)
	return signing.NewFacade(bls)
}

func (e *environment) openJournal() (persistence.ITransactionJournal, error) {
	if e.journal != nil {
		return e.journal, nil
	}
	j, err := journal.NewJournal(&e.config.Journal, e.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	e.journal = j
	return j, nil
}

func (e *environment) flows() (*flows.Flows, error) {
	p, err := e.proxyClient()
	if err != nil {
		return nil, err
	}
	j, err := e.openJournal()
	if err != nil {
		return nil, err
	}
	return flows.NewFlows(&flows.FlowsConfig{
		Proxy:     p,
		Facade:    e.facade(),
		Journal:   j,
		ProxyURL:  p.URL(),
		ChainID:   e.config.ChainID,
		TxVersion: e.config.TxVersion,
		Logger:    e.logger,
	})
}

func (e *environment) loadAccount(c *cli.Context) (*account.Account, error) {
	path := c.String("pem")
	if path == "" {
		return nil, fmt.Errorf("--pem is required")
	}
	acc, err := account.LoadFromPemFile(path, c.Int("pem-index"))
	if err != nil {
		return nil, fmt.Errorf("failed to load key from %s: %w", path, err)
	}
	e.logger.Sugar().Debugw("Loaded account", "address", acc.Address())
	return acc, nil
}

// gasSettings reads --gas-price and --gas-limit, falling back to the configured defaults
func (e *environment) gasSettings(c *cli.Context) flows.GasSettings {
	gas := flows.GasSettings{GasPrice: e.config.GasPrice, GasLimit: e.config.GasLimit}
	if c.IsSet("gas-price") {
		gas.GasPrice = c.Uint64("gas-price")
	}
	if c.IsSet("gas-limit") {
		gas.GasLimit = c.Uint64("gas-limit")
	}
	return gas
}

// withEnvironment builds the environment before running action and releases it afterwards
func withEnvironment(action func(c *cli.Context, env *environment) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		env, err := newEnvironment(c)
		if err != nil {
			return err
		}
		defer env.Close()
		return action(c, env)
	}
}
