package main

import (
	"strings"
	"sync"

	"langworker/internal/catalog"
	"langworker/internal/config"
	"langworker/internal/registry"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// loadRegistry loads and validates the registry named by the configuration.
func (c *commandContext) loadRegistry() (*config.Config, *registry.Registry, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, reg, nil
}

// loadCatalog loads the registry plus every resource it references.
func (c *commandContext) loadCatalog() (*config.Config, *registry.Registry, *catalog.Catalog, error) {
	cfg, reg, err := c.loadRegistry()
	if err != nil {
		return nil, nil, nil, err
	}
	cat, err := catalog.Build(reg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, reg, cat, nil
}
