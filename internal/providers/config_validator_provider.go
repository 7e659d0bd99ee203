package providers

import (
	"errors"
	"fmt"
	"net/url"
	"ponydiary/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return v.Errors
	}

	switch c.conf.Storage.Driver {
	case "file":
		if c.conf.Storage.FilePath == "" {
			return errors.New("storage.filePath is required for the file driver")
		}
	case "sqlite":
		if c.conf.Storage.SqlitePath == "" {
			return errors.New("storage.sqlitePath is required for the sqlite driver")
		}
	}

	if c.conf.Offline.Enabled {
		return c.validateOffline()
	}
	return nil
}

func (c *CnfValidator) validateOffline() error {
	off := c.conf.Offline
	if off.Version == "" {
		return errors.New("offline.version is required when the offline cache is enabled")
	}
	if off.Origin != "" {
		origin, err := url.Parse(off.Origin)
		if err != nil || origin.Scheme == "" || origin.Host == "" {
			return fmt.Errorf("offline.origin must be an absolute URL, got %q", off.Origin)
		}
	}
	if len(off.Manifest) == 0 {
		return errors.New("offline.manifest must list at least one asset")
	}
	if off.CacheSize <= 0 {
		return errors.New("offline.cacheSize must be positive")
	}
	return nil
}
