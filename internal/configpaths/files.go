// Package configpaths locates cpp2d configuration files.
package configpaths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const systemConfigDir = "/etc/cpp2d"

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		if appdata := os.Getenv("AppData"); appdata != "" {
			return filepath.Join(appdata, "cpp2d"), nil
		}
		return "", errors.New("AppData not set")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cpp2d"), nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "cpp2d"), nil
	}
	return "", errors.New("HOME not set")
}

// EnsureDir ensures the directory for a given file path exists.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

// Candidates holds config file paths per loader, in priority order.
type Candidates struct {
	JSON, YAML, TOML []string
}

func (c *Candidates) addFile(p string) {
	switch filepath.Ext(p) {
	case ".yaml", ".yml":
		c.YAML = append(c.YAML, p)
	case ".toml":
		c.TOML = append(c.TOML, p)
	default:
		c.JSON = append(c.JSON, p)
	}
}

func (c *Candidates) addDir(dir string, bases ...string) {
	for _, base := range bases {
		c.JSON = append(c.JSON, filepath.Join(dir, base+".json"))
		c.YAML = append(c.YAML, filepath.Join(dir, base+".yaml"), filepath.Join(dir, base+".yml"))
		c.TOML = append(c.TOML, filepath.Join(dir, base+".toml"))
	}
}

// ConfigCandidatePaths lists the config files kong should try. An explicit
// userPath comes first and is routed to its loader by extension, then the
// working directory, the user config directory and /etc/cpp2d.
func ConfigCandidatePaths(userPath string) Candidates {
	var c Candidates
	if userPath != "" {
		c.addFile(userPath)
	}
	if wd, err := os.Getwd(); err == nil {
		c.addDir(wd, "cpp2d", "config")
	}
	if dir, err := DefaultConfigDir(); err == nil {
		c.addDir(dir, "config", "translate", "check")
	}
	if runtime.GOOS != "windows" {
		c.addDir(systemConfigDir, "config", "translate", "check")
	}
	return c
}
