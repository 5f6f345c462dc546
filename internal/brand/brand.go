// Package brand provides centralized branding constants for the policy compiler.
// This makes it easy to fork or white-label the product by changing brand.json.
//
// The brand identity is loaded from brand.json at compile time via go:embed.
// This allows other tools (scripts, docs generators) to read the same file.
package brand

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
)

//go:embed brand.json
var brandJSON []byte

// Brand holds all branding information
type Brand struct {
	Name             string `json:"name"`
	LowerName        string `json:"lowerName"`
	Vendor           string `json:"vendor"`
	Website          string `json:"website"`
	Description      string `json:"description"`
	ConfigEnvPrefix  string `json:"configEnvPrefix"`
	DefaultConfigDir string `json:"defaultConfigDir"`
	BinaryName       string `json:"binaryName"`
	ConfigFileName   string `json:"configFileName"`
}

var b Brand

func init() {
	if err := json.Unmarshal(brandJSON, &b); err != nil {
		panic("failed to parse brand.json: " + err.Error())
	}

	Name = b.Name
	LowerName = b.LowerName
	Vendor = b.Vendor
	Website = b.Website
	Description = b.Description
	ConfigEnvPrefix = b.ConfigEnvPrefix
	DefaultConfigDir = b.DefaultConfigDir
	BinaryName = b.BinaryName
	ConfigFileName = b.ConfigFileName
}

// Exported variables for convenience
var (
	Name             string
	LowerName        string
	Vendor           string
	Website          string
	Description      string
	ConfigEnvPrefix  string
	DefaultConfigDir string
	BinaryName       string
	ConfigFileName   string

	// Version is set at build time via -ldflags
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Get returns the full Brand struct
func Get() Brand {
	return b
}

// UserAgent returns a User-Agent string for HTTP requests
func UserAgent(version string) string {
	if version == "" {
		version = "dev"
	}
	return Name + "/" + version
}

// GetConfigDir returns the config directory, checking env vars first.
// Priority: WAFPLAN_CONFIG_DIR > WAFPLAN_PREFIX/config > DefaultConfigDir
func GetConfigDir() string {
	if dir := os.Getenv(ConfigEnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	if prefix := os.Getenv(ConfigEnvPrefix + "_PREFIX"); prefix != "" {
		return filepath.Join(prefix, "config")
	}
	return DefaultConfigDir
}

// DefaultConfigPath returns the default policy document path.
func DefaultConfigPath() string {
	return filepath.Join(GetConfigDir(), ConfigFileName)
}
