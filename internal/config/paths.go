package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// XDGDataDir returns the XDG data directory for the application.
// The crawl archive database lives here by default.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/malaw
// On macOS: ~/Library/Application Support/malaw
// On Windows: %LOCALAPPDATA%\malaw
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the application.
// The default config file lives here; `malaw init` writes it.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/malaw
// On macOS: ~/Library/Application Support/malaw
// On Windows: %APPDATA%\malaw
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultConfigPath returns the full path of the default config file
// under the XDG config directory.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigDir(), DefaultConfigFile)
}
