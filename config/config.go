// Package config loads the sift configuration that names which tables keep
// their data and which per-table filter definitions apply to INSERT rows.
package config

import (
	"github.com/cockroachdb/errors"
	"github.com/dumpsift/dumpsift/dumptable"
	"github.com/spf13/viper"
)

// Config is the parsed sift configuration.
type Config struct {
	// AllowDataOnTables restricts which tables keep any data statements at
	// all. An empty list allows every table.
	AllowDataOnTables []string
	// FilterInserts maps a table name to the filter definitions applied to
	// each of its INSERT rows.
	FilterInserts map[string][]string
}

// Load reads the configuration from the given JSON file. Values can be
// overridden through DUMPSIFT_* environment variables.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("DUMPSIFT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	if !v.IsSet("filter_inserts") {
		return Config{}, errors.Newf("config %s does not define filter_inserts", path)
	}
	return Config{
		AllowDataOnTables: v.GetStringSlice("allow_data_on_tables"),
		FilterInserts:     v.GetStringMapStringSlice("filter_inserts"),
	}, nil
}

// AllowsData reports whether table may keep data statements in the output.
func (c Config) AllowsData(table dumptable.Name) bool {
	if len(c.AllowDataOnTables) == 0 {
		return true
	}
	for _, allowed := range c.AllowDataOnTables {
		if dumptable.Name(allowed).Compare(table) == 0 {
			return true
		}
	}
	return false
}
