package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	identifierPrefixPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	folderPrefixPattern     = regexp.MustCompile(`^[A-Z0-9_]+$`)
	slotNamePattern         = regexp.MustCompile(`(?i)^\d{4}\.(mp3|wav)$`)
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateTarget(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateNaming() error {
	if !identifierPrefixPattern.MatchString(c.Naming.IdentifierPrefix) {
		return fmt.Errorf("naming.identifier_prefix must start with a letter and contain only A-Z, 0-9 and _ (got %q)", c.Naming.IdentifierPrefix)
	}
	if !folderPrefixPattern.MatchString(c.Naming.FolderPrefix) {
		return fmt.Errorf("naming.folder_prefix must contain only A-Z, 0-9 and _ (got %q)", c.Naming.FolderPrefix)
	}
	return nil
}

func (c *Config) validateTarget() error {
	name := c.Target.ReferenceName
	if strings.ContainsAny(name, `/\`) {
		return errors.New("target.reference_name must be a plain file name")
	}
	if slotNamePattern.MatchString(name) {
		return fmt.Errorf("target.reference_name %q could collide with a numbered track", name)
	}
	if c.Target.CopyBufferKiB < 0 {
		return errors.New("target.copy_buffer_kib must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error (got %q)", c.Logging.Level)
	}
	return nil
}
