package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the erdpy CLI
const (
	EnvProxy            = "ERDPY_PROXY"
	EnvSDKPath          = "ERDPY_SDK_PATH"
	EnvConfigFile       = "ERDPY_CONFIG"
	EnvVerbose          = "ERDPY_VERBOSE"
	EnvChainID          = "ERDPY_CHAIN_ID"
	EnvModulesURL       = "ERDPY_MODULES_URL"
	EnvBLSSignerCommand = "ERDPY_BLS_SIGNER_COMMAND"
	EnvJournalType      = "ERDPY_JOURNAL"
	EnvJournalPath      = "ERDPY_JOURNAL_PATH"
	EnvRedisAddress     = "ERDPY_REDIS_ADDRESS"
	EnvRedisPassword    = "ERDPY_REDIS_PASSWORD"
)

const (
	DefaultGasPrice          uint64 = 200000000000
	DefaultGasLimit          uint64 = 50000000
	DefaultTxVersion         uint32 = 1
	DefaultSDKDirName               = "elrondsdk"
	DefaultConfigFileName           = "erdpy.toml"
	DefaultJournalDirName           = "journal"
	DefaultModulesURL               = "https://ide.elrond.com"
	DefaultMclSignerTag             = "v1.0.0"
	DefaultRequestsPerSecond        = 10.0
)

type JournalType string

func (j JournalType) String() string {
	return string(j)
}

const (
	JournalTypeNone   JournalType = "none"
	JournalTypeMemory JournalType = "memory"
	JournalTypeBadger JournalType = "badger"
	JournalTypeRedis  JournalType = "redis"
)

type ChainName string

const (
	ChainName_Mainnet      ChainName = "mainnet"
	ChainName_Testnet      ChainName = "testnet"
	ChainName_Devnet       ChainName = "devnet"
	ChainName_LocalTestnet ChainName = "local-testnet"
)

// ChainIDToName maps the chain identifiers that go into transactions to their network name
var ChainIDToName = map[string]ChainName{
	"1":             ChainName_Mainnet,
	"T":             ChainName_Testnet,
	"D":             ChainName_Devnet,
	"local-testnet": ChainName_LocalTestnet,
}

// GetChainName returns the network name for a chain ID, or the ID itself for unknown chains
func GetChainName(chainID string) string {
	if name, ok := ChainIDToName[chainID]; ok {
		return string(name)
	}
	return chainID
}

// JournalConfig selects where signed and sent transactions are recorded
type JournalConfig struct {
	Type          JournalType `toml:"type" validate:"oneof=none memory badger redis"`
	Path          string      `toml:"path" validate:"required_if=Type badger"`
	RedisAddress  string      `toml:"redis_address" validate:"required_if=Type redis"`
	RedisPassword string      `toml:"redis_password"`
	RedisDB       int         `toml:"redis_db" validate:"gte=0,lte=15"`
	KeyPrefix     string      `toml:"key_prefix"`
}

// Config is the complete configuration of a CLI invocation
type Config struct {
	Proxy             string        `toml:"proxy"`
	ChainID           string        `toml:"chain_id"`
	SDKPath           string        `toml:"sdk_path" validate:"required"`
	GasPrice          uint64        `toml:"gas_price" validate:"gt=0"`
	GasLimit          uint64        `toml:"gas_limit" validate:"gt=0"`
	TxVersion         uint32        `toml:"tx_version" validate:"gte=1"`
	ModulesURL        string        `toml:"modules_url" validate:"required,url"`
	MclSignerTag      string        `toml:"mcl_signer_tag" validate:"required"`
	BLSSignerCommand  string        `toml:"bls_signer_command"`
	RequestsPerSecond float64       `toml:"requests_per_second" validate:"gt=0"`
	Journal           JournalConfig `toml:"journal"`
}

// fileConfig mirrors Config with optional fields so that a TOML file only overrides what it sets
type fileConfig struct {
	Proxy             *string  `toml:"proxy"`
	ChainID           *string  `toml:"chain_id"`
	SDKPath           *string  `toml:"sdk_path"`
	GasPrice          *uint64  `toml:"gas_price"`
	GasLimit          *uint64  `toml:"gas_limit"`
	TxVersion         *uint32  `toml:"tx_version"`
	ModulesURL        *string  `toml:"modules_url"`
	MclSignerTag      *string  `toml:"mcl_signer_tag"`
	BLSSignerCommand  *string  `toml:"bls_signer_command"`
	RequestsPerSecond *float64 `toml:"requests_per_second"`
	Journal           *struct {
		Type          *string `toml:"type"`
		Path          *string `toml:"path"`
		RedisAddress  *string `toml:"redis_address"`
		RedisPassword *string `toml:"redis_password"`
		RedisDB       *int    `toml:"redis_db"`
		KeyPrefix     *string `toml:"key_prefix"`
	} `toml:"journal"`
}

// DefaultSDKPath returns ~/elrondsdk, falling back to a relative directory when HOME is unknown
func DefaultSDKPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultSDKDirName
	}
	return filepath.Join(home, DefaultSDKDirName)
}

// Default returns the built-in configuration
func Default() *Config {
	sdkPath := DefaultSDKPath()
	return &Config{
		SDKPath:           sdkPath,
		GasPrice:          DefaultGasPrice,
		GasLimit:          DefaultGasLimit,
		TxVersion:         DefaultTxVersion,
		ModulesURL:        DefaultModulesURL,
		MclSignerTag:      DefaultMclSignerTag,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Journal: JournalConfig{
			Type: JournalTypeNone,
			Path: filepath.Join(sdkPath, DefaultJournalDirName),
		},
	}
}

// Load returns the default configuration overlaid with the TOML file at path.
// An empty path means <sdk>/erdpy.toml, which is allowed to be missing.
func Load(path string) (*Config, error) {
	cfg := Default()

	optional := false
	if path == "" {
		path = filepath.Join(cfg.SDKPath, DefaultConfigFileName)
		optional = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := cfg.apply(data); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) apply(data []byte) error {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return err
	}

	setString(&c.Proxy, fc.Proxy)
	setString(&c.ChainID, fc.ChainID)
	if fc.SDKPath != nil {
		c.SDKPath = *fc.SDKPath
		c.Journal.Path = filepath.Join(c.SDKPath, DefaultJournalDirName)
	}
	if fc.GasPrice != nil {
		c.GasPrice = *fc.GasPrice
	}
	if fc.GasLimit != nil {
		c.GasLimit = *fc.GasLimit
	}
	if fc.TxVersion != nil {
		c.TxVersion = *fc.TxVersion
	}
	setString(&c.ModulesURL, fc.ModulesURL)
	setString(&c.MclSignerTag, fc.MclSignerTag)
	setString(&c.BLSSignerCommand, fc.BLSSignerCommand)
	if fc.RequestsPerSecond != nil {
		c.RequestsPerSecond = *fc.RequestsPerSecond
	}

	if j := fc.Journal; j != nil {
		if j.Type != nil {
			c.Journal.Type = JournalType(*j.Type)
		}
		setString(&c.Journal.Path, j.Path)
		setString(&c.Journal.RedisAddress, j.RedisAddress)
		setString(&c.Journal.RedisPassword, j.RedisPassword)
		setString(&c.Journal.KeyPrefix, j.KeyPrefix)
		if j.RedisDB != nil {
			c.Journal.RedisDB = *j.RedisDB
		}
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// ConfigFilePath returns where Load looks for the configuration file by default
func (c *Config) ConfigFilePath() string {
	return filepath.Join(c.SDKPath, DefaultConfigFileName)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate validates the configuration, reporting every offending field at once
func (c *Config) Validate() error {
	var allErrors field.ErrorList

	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("failed to validate config: %w", err)
		}
		for _, fe := range validationErrors {
			allErrors = append(allErrors, field.Invalid(namespaceToPath(fe.Namespace()), fe.Value(), describeRule(fe)))
		}
	}

	if c.Proxy != "" && !isHTTPURL(c.Proxy) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("proxy"), c.Proxy, "proxy must be an http(s) URL"))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// namespaceToPath turns "Config.journal.redis_address" into a field path
func namespaceToPath(namespace string) *field.Path {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return field.NewPath(parts[0], parts[1:]...)
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "value is required"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed on the '%s=%s' rule", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
