package dependencies

import (
	"context"
	"fmt"
	"runtime"
)

const (
	MclSignerModule = "mcl_signer"

	// MclSignerBinary is the executable shipped inside the mcl_signer archive
	MclSignerBinary = "signer"
)

type ArchiveFormat string

const (
	ArchiveTarGz ArchiveFormat = "tar.gz"
	ArchiveTarXz ArchiveFormat = "tar.xz"
)

// IModuleInstaller installs external tools on demand and locates them afterwards
type IModuleInstaller interface {
	InstallModule(ctx context.Context, name string) error
	GetModuleDirectory(name string) (string, error)
}

// Module describes a downloadable tool. Archives are served at
// {modulesURL}/vendor-{platform}/{name}/{tag}.{format}
type Module struct {
	Name   string
	Tag    string
	Format ArchiveFormat
}

func (m Module) archiveURL(baseURL, platform string) string {
	return fmt.Sprintf("%s/vendor-%s/%s/%s.%s", baseURL, platform, m.Name, m.Tag, m.Format)
}

// DefaultCatalog lists the modules known to erdpy
func DefaultCatalog(mclSignerTag string) map[string]Module {
	return map[string]Module{
		MclSignerModule: {Name: MclSignerModule, Tag: mclSignerTag, Format: ArchiveTarGz},
	}
}

// Platform returns the vendor directory name for the running OS
func Platform() string {
	if runtime.GOOS == "darwin" {
		return "osx"
	}
	return runtime.GOOS
}
