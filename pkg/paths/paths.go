package paths

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the config directory
	EnvConfigDir = "TEMPLATIVE_CONFIG_DIR"

	// EnvCacheDir overrides the cache directory
	EnvCacheDir = "TEMPLATIVE_CACHE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name used under each XDG base dir
	AppDirName = "templative"

	// ConfigFileName is the config file inside the config dir
	ConfigFileName = "config.json"

	// RegistryFileName is the template registry inside the config dir
	RegistryFileName = "templates.json"

	// ReposDir is the cache subdirectory holding cloned URL templates
	ReposDir = "repos"
)

// Paths resolves templative's directories once per process
type Paths struct {
	configDir string
	cacheDir  string
}

// New resolves the config and cache directories, honouring overrides
func New() *Paths {
	p := &Paths{}

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = ExpandHome(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if dir := os.Getenv(EnvCacheDir); dir != "" {
		p.cacheDir = ExpandHome(dir)
	} else {
		p.cacheDir = filepath.Join(xdg.CacheHome, AppDirName)
	}

	return p
}

// NewWithDirs builds a Paths rooted at explicit directories
func NewWithDirs(configDir, cacheDir string) *Paths {
	return &Paths{configDir: configDir, cacheDir: cacheDir}
}

// ConfigDir returns the directory holding config.json and templates.json
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// CacheDir returns the cache directory
func (p *Paths) CacheDir() string {
	return p.cacheDir
}

// ConfigFile returns the path of config.json
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// RegistryFile returns the path of templates.json
func (p *Paths) RegistryFile() string {
	return filepath.Join(p.configDir, RegistryFileName)
}

// RepoCacheDir returns the cache directory for a URL template. The name is
// the first 16 hex chars of the URL's SHA-256.
func (p *Paths) RepoCacheDir(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(p.cacheDir, ReposDir, hex.EncodeToString(sum[:])[:16])
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is left alone
	return path
}
