package signing

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/dependencies"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/process"
	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"
)

type BLSSignerConfig struct {
	Installer dependencies.IModuleInstaller
	Runner    process.IRunner

	// Command replaces the installed mcl_signer binary when set, e.g. "docker run --rm signer".
	// It is split with shell quoting rules and no module is installed.
	Command string
}

// BLSSigner delegates BLS signing to the mcl_signer tool
type BLSSigner struct {
	config *BLSSignerConfig
	logger *zap.Logger
}

func NewBLSSigner(cfg *BLSSignerConfig, logger *zap.Logger) *BLSSigner {
	if cfg == nil {
		cfg = &BLSSignerConfig{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BLSSigner{config: cfg, logger: logger}
}

// SignWithExternalKey runs `signer <message> <seed>` and returns its trimmed stdout.
// Any failure is reported as ErrCannotSignMessageWithBLSKey.
func (s *BLSSigner) SignWithExternalKey(ctx context.Context, message []byte, seed []byte) (string, error) {
	tool, err := s.toolArgv(ctx)
	if err != nil {
		s.logger.Sugar().Debugw("BLS signer unavailable", "error", err)
		return "", ErrCannotSignMessageWithBLSKey
	}

	if s.config.Runner == nil {
		s.logger.Sugar().Debugw("BLS signer unavailable", "error", "no process runner configured")
		return "", ErrCannotSignMessageWithBLSKey
	}

	argv := append(tool, string(message), string(seed))
	out, err := s.config.Runner.Run(ctx, argv)
	if err != nil {
		s.logger.Sugar().Debugw("BLS signer failed", "error", err)
		return "", ErrCannotSignMessageWithBLSKey
	}

	return strings.TrimSpace(string(out)), nil
}

func (s *BLSSigner) toolArgv(ctx context.Context) ([]string, error) {
	if s.config.Command != "" {
		args, err := shellwords.Parse(s.config.Command)
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return nil, ErrCannotSignMessageWithBLSKey
		}
		return args, nil
	}

	if s.config.Installer == nil {
		return nil, ErrCannotSignMessageWithBLSKey
	}
	if err := s.config.Installer.InstallModule(ctx, dependencies.MclSignerModule); err != nil {
		return nil, err
	}
	dir, err := s.config.Installer.GetModuleDirectory(dependencies.MclSignerModule)
	if err != nil {
		return nil, err
	}
	return []string{filepath.Join(dir, dependencies.MclSignerBinary)}, nil
}
