package pkg

import (
	"os"
	"path/filepath"
	"sync"
)

// ConfigDir returns the directory holding the configuration file, falling
// back to ~/.config and then the working directory.
var ConfigDir = sync.OnceValue(func() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return Name
		}

		dir = filepath.Join(home, ".config")
	}

	return filepath.Join(dir, Name)
})

// CacheDir returns the directory for transient output such as profiles.
var CacheDir = sync.OnceValue(func() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), Name)
	}

	return filepath.Join(dir, Name)
})

// ConfigFile returns the path of the default configuration file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
