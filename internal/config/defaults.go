package config

import (
	"sdtrack/internal/naming"
	"sdtrack/internal/reference"
)

const (
	defaultStateDir         = "~/.local/share/sdtrack"
	defaultIdentifierPrefix = naming.DefaultPrefix
	defaultFolderPrefix     = naming.DefaultFolderPrefix
	defaultReferenceName    = reference.DefaultName
	defaultCopyBufferKiB    = 64
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Naming: Naming{
			IdentifierPrefix: defaultIdentifierPrefix,
			FolderPrefix:     defaultFolderPrefix,
		},
		Target: Target{
			ReferenceName: defaultReferenceName,
			Clear:         true,
			CopyBufferKiB: defaultCopyBufferKiB,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
