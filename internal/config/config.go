// Package config loads geomap settings from an optional config file,
// GEOMAP_* environment variables and bound command line flags, in viper's
// usual order of precedence.
package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// GEOMAP_INDEX_MAX_CHILDREN.
const EnvPrefix = "GEOMAP"

type Index struct {
	MinChildren int
	MaxChildren int
}

type Log struct {
	Level  string
	Format string
	// File receives the log; empty discards it since the viewer owns the
	// terminal.
	File string
}

type Config struct {
	// SRID of the registry. Loaded data is reprojected into it.
	SRID  int
	Index Index
	Log   Log
	// Projections adds or overrides proj4 definitions by SRID.
	Projections map[int]string
	// Tolerance is the identify window size in screen cells.
	Tolerance int
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("srid", 4326)
	v.SetDefault("index.min_children", 2)
	v.SetDefault("index.max_children", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("identify.tolerance", 1)
}

// Load reads the configuration. If v holds a "config" key (usually bound
// from the --config flag) that file is read first.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", file)
		}
	}

	c := &Config{
		SRID: v.GetInt("srid"),
		Index: Index{
			MinChildren: v.GetInt("index.min_children"),
			MaxChildren: v.GetInt("index.max_children"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: strings.ToLower(v.GetString("log.format")),
			File:   v.GetString("log.file"),
		},
		Projections: map[int]string{},
		Tolerance:   v.GetInt("identify.tolerance"),
	}
	for k, def := range v.GetStringMapString("projections") {
		srid, err := strconv.Atoi(k)
		if err != nil {
			return nil, errors.Errorf("projections: key %q is not an SRID", k)
		}
		c.Projections[srid] = def
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks values viper cannot type check. Index bounds are left to
// the registry.
func (c *Config) Validate() error {
	if c.SRID <= 0 {
		return errors.Errorf("srid must be positive, got %d", c.SRID)
	}
	if c.Tolerance < 1 {
		return errors.Errorf("identify.tolerance must be at least 1, got %d", c.Tolerance)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
