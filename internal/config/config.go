// Package config loads the application configuration and the source mapping
// tables, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. It is loaded once at
// startup and threaded through the pipeline as an immutable value.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Run     RunConfig     `yaml:"run" mapstructure:"run"`
	Cities  CitiesConfig  `yaml:"cities" mapstructure:"cities"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`

	// Tables holds the ordered source-mapping tables, loaded from the file
	// named by paths.tables_file.
	Tables Tables `yaml:"-" mapstructure:"-"`
}

// PathsConfig locates the input exports and the output directories.
type PathsConfig struct {
	Input      string `yaml:"input" mapstructure:"input"`
	Output     string `yaml:"output" mapstructure:"output"`
	Central    string `yaml:"central" mapstructure:"central"`
	Report     string `yaml:"report" mapstructure:"report"`
	TablesFile string `yaml:"tables_file" mapstructure:"tables_file"`
}

// OnExisting selects the conflict strategy when an output file already
// exists for the run prefix.
type OnExisting string

const (
	OnExistingAbort     OnExisting = "abort"
	OnExistingOverwrite OnExisting = "overwrite"
)

// RunConfig replaces the prompts of the interactive workflow: group and
// prefix selection, file split counts, and the overwrite decision are all
// explicit values now.
type RunConfig struct {
	Group             string         `yaml:"group" mapstructure:"group"`   // defaults by time of day
	Prefix            string         `yaml:"prefix" mapstructure:"prefix"` // overrides the generated prefix entirely
	RowCap            int            `yaml:"row_cap" mapstructure:"row_cap"`
	TargetFiles       int            `yaml:"target_files" mapstructure:"target_files"`
	PartitionTargets  map[string]int `yaml:"partition_targets" mapstructure:"partition_targets"`
	OnExisting        OnExisting     `yaml:"on_existing" mapstructure:"on_existing"`
	NormalizerWorkers int            `yaml:"normalizer_workers" mapstructure:"normalizer_workers"`
}

// CitiesConfig is the operation-site allow-list. Leads outside it are
// discarded by the city rule.
type CitiesConfig struct {
	Allowed []string `yaml:"allowed" mapstructure:"allowed"`
	Default string   `yaml:"default" mapstructure:"default"`
}

// HistoryConfig locates the contact-history ledger and tunes its
// classification windows.
type HistoryConfig struct {
	Path               string `yaml:"path" mapstructure:"path"`
	Sheet              string `yaml:"sheet" mapstructure:"sheet"`
	SkipRows           int    `yaml:"skip_rows" mapstructure:"skip_rows"`
	Required           bool   `yaml:"required" mapstructure:"required"`
	InboundQueue       string `yaml:"inbound_queue" mapstructure:"inbound_queue"`
	SuccessDisposition string `yaml:"success_disposition" mapstructure:"success_disposition"`
	SuccessWindowDays  int    `yaml:"success_window_days" mapstructure:"success_window_days"`
	ContactWindowDays  int    `yaml:"contact_window_days" mapstructure:"contact_window_days"`
}

// GeocodeConfig configures the optional address standardization lookup.
type GeocodeConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// StoreConfig configures the persistence sink.
type StoreConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the run-trigger HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml and the environment, then loads
// the mapping tables file next to it.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MAILING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("paths.input", "./input")
	v.SetDefault("paths.output", "./mailing")
	v.SetDefault("paths.central", "./central")
	v.SetDefault("paths.report", "./report")
	v.SetDefault("paths.tables_file", "tables.yaml")
	v.SetDefault("run.row_cap", 100)
	v.SetDefault("run.target_files", 1)
	v.SetDefault("run.on_existing", string(OnExistingAbort))
	v.SetDefault("run.normalizer_workers", 8)
	v.SetDefault("cities.allowed", []string{"uberlandia", "jundiai", "barueri", "aracaju", "hortolandia"})
	v.SetDefault("cities.default", "uberlandia")
	v.SetDefault("history.sheet", "Tratativas")
	v.SetDefault("history.skip_rows", 6)
	v.SetDefault("history.required", true)
	v.SetDefault("history.inbound_queue", "Receptivo")
	v.SetDefault("history.success_disposition", "Contato COM Sucesso")
	v.SetDefault("history.success_window_days", 30)
	v.SetDefault("history.contact_window_days", 7)
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "mailing-cli/1.0")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "mailing.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	tables, err := LoadTables(cfg.Paths.TablesFile)
	if err != nil {
		return nil, err
	}
	cfg.Tables = *tables

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
