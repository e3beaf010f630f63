package dependencies

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrUnknownModule = fmt.Errorf("unknown module")

type ModuleManagerConfig struct {
	SDKPath    string
	ModulesURL string
	Platform   string
	Catalog    map[string]Module
	HTTPClient *http.Client
}

// ModuleManager downloads modules into <sdk>/<name>/<tag>
type ModuleManager struct {
	config *ModuleManagerConfig
	logger *zap.Logger
	mu     sync.Mutex
}

func NewModuleManager(cfg *ModuleManagerConfig, logger *zap.Logger) *ModuleManager {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 5 * time.Minute}
	}
	if cfg.Platform == "" {
		cfg.Platform = Platform()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModuleManager{config: cfg, logger: logger}
}

func (m *ModuleManager) module(name string) (Module, error) {
	mod, ok := m.config.Catalog[name]
	if !ok {
		return Module{}, errors.Wrapf(ErrUnknownModule, "module %q", name)
	}
	return mod, nil
}

// GetModuleDirectory returns where the module lives once installed
func (m *ModuleManager) GetModuleDirectory(name string) (string, error) {
	mod, err := m.module(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(m.config.SDKPath, mod.Name, mod.Tag), nil
}

// IsInstalled reports whether the module directory exists
func (m *ModuleManager) IsInstalled(name string) (bool, error) {
	dir, err := m.GetModuleDirectory(name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to stat module directory %s", dir)
	}
	return info.IsDir(), nil
}

// InstallModule installs the module unless it is already present
func (m *ModuleManager) InstallModule(ctx context.Context, name string) error {
	return m.Install(ctx, name, false)
}

// Install downloads and unpacks the module. With overwrite an existing installation is replaced.
func (m *ModuleManager) Install(ctx context.Context, name string, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mod, err := m.module(name)
	if err != nil {
		return err
	}
	dir, _ := m.GetModuleDirectory(name)

	installed, err := m.IsInstalled(name)
	if err != nil {
		return err
	}
	if installed && !overwrite {
		m.logger.Sugar().Debugw("Module already installed", "module", name, "directory", dir)
		return nil
	}

	if err := os.MkdirAll(m.config.SDKPath, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create sdk directory %s", m.config.SDKPath)
	}

	archive, err := m.download(ctx, mod)
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(archive)
	}()

	staging := filepath.Join(m.config.SDKPath, fmt.Sprintf(".staging-%s", uuid.New().String()))
	defer func() {
		_ = os.RemoveAll(staging)
	}()

	if err := extractArchive(archive, mod.Format, staging); err != nil {
		return errors.Wrapf(err, "failed to extract module %s", name)
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create module directory for %s", name)
	}
	if installed {
		if err := os.RemoveAll(dir); err != nil {
			return errors.Wrapf(err, "failed to remove previous installation of %s", name)
		}
	}
	if err := os.Rename(staging, dir); err != nil {
		return errors.Wrapf(err, "failed to move module %s into place", name)
	}

	m.logger.Sugar().Infow("Installed module", "module", name, "tag", mod.Tag, "directory", dir)
	return nil
}

func (m *ModuleManager) download(ctx context.Context, mod Module) (string, error) {
	url := mod.archiveURL(m.config.ModulesURL, m.config.Platform)
	m.logger.Sugar().Infow("Downloading module", "module", mod.Name, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create request for %s", url)
	}

	resp, err := m.config.HTTPClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "failed to download %s", url)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download %s: unexpected status %d", url, resp.StatusCode)
	}

	f, err := os.CreateTemp(m.config.SDKPath, fmt.Sprintf(".%s-*.%s", mod.Name, mod.Format))
	if err != nil {
		return "", errors.Wrapf(err, "failed to create download file for %s", mod.Name)
	}

	n, err := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", errors.Wrapf(err, "failed to save %s", url)
	}

	m.logger.Sugar().Debugw("Downloaded module", "module", mod.Name, "size", humanize.Bytes(uint64(n)))
	return f.Name(), nil
}
