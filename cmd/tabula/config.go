package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings of one tabula run. Flags, TABULA_* environment
// variables and the optional config file all map onto it.
type Config struct {
	Source          string   `mapstructure:"source"`
	Database        string   `mapstructure:"database"`
	Table           string   `mapstructure:"table"`
	Delimiter       string   `mapstructure:"delimiter"`
	HeaderOffset    int      `mapstructure:"header-offset"`
	Header          []string `mapstructure:"header"`
	Where           []string `mapstructure:"where"`
	OrderBy         []string `mapstructure:"order-by"`
	Offset          int      `mapstructure:"offset"`
	Limit           int      `mapstructure:"limit"`
	Column          string   `mapstructure:"column"`
	Pairs           string   `mapstructure:"pairs"`
	Count           bool     `mapstructure:"count"`
	PreserveOffsets bool     `mapstructure:"preserve-offsets"`
	Output          string   `mapstructure:"output"`
	Verbose         bool     `mapstructure:"verbose"`
}

// registerFlags declares every configuration key as a flag with its default.
func registerFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (yaml, json or toml)")
	fs.StringP("source", "s", "", "CSV file to query, - for stdin")
	fs.String("database", "", "SQLite database file to query")
	fs.String("table", "", "table to query in --database")
	fs.String("delimiter", ",", "CSV field delimiter")
	fs.Int("header-offset", -1, "offset of the CSV header row, -1 for none")
	fs.StringSlice("header", nil, "column names overriding the source header")
	fs.StringArrayP("where", "w", nil, "filter as column<op>value, op is one of = != < <= > >= ~ (repeatable)")
	fs.StringArray("order-by", nil, "sort column, suffix :desc for descending (repeatable)")
	fs.Int("offset", 0, "records to skip")
	fs.Int("limit", -1, "records to return, -1 for all")
	fs.StringP("column", "c", "", "print the values of one column")
	fs.String("pairs", "", "print key:value column pairs")
	fs.Bool("count", false, "print the number of records")
	fs.Bool("preserve-offsets", true, "key records by their source offset")
	fs.StringP("output", "o", "json", "output format: json or yaml")
	fs.BoolP("verbose", "v", false, "log query execution to stderr")
}

// loadConfig layers the config file and the environment over the flags.
func loadConfig(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	v.SetEnvPrefix("TABULA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Source == "" && c.Database == "":
		return fmt.Errorf("one of --source or --database is required")
	case c.Source != "" && c.Database != "":
		return fmt.Errorf("--source and --database cannot be used together")
	case c.Database != "" && c.Table == "":
		return fmt.Errorf("--table is required with --database")
	case len([]rune(c.Delimiter)) != 1:
		return fmt.Errorf("--delimiter must be a single character, got %q", c.Delimiter)
	case c.Column != "" && c.Pairs != "":
		return fmt.Errorf("--column and --pairs cannot be used together")
	case c.Output != "json" && c.Output != "yaml":
		return fmt.Errorf("unsupported output format %q", c.Output)
	}
	return nil
}
