package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"plantapi/internal/plantuml"
	"plantapi/internal/render"
)

const envPrefix = "PLANTAPI_"

type Config struct {
	Port        string `json:"port"`
	FixturesDir string `json:"fixturesDir"`

	// Postgres, used by the ddl command with --apply
	DBURL    string `json:"dbUrl"`
	DBSchema string `json:"dbSchema"`

	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"` // text | json

	OutputFormat string `json:"outputFormat"` // json | yaml | msgpack
	RenderServer string `json:"renderServer"`

	HistoryLimit   int  `json:"historyLimit"`
	MetricsEnabled bool `json:"metricsEnabled"`
}

func Default() Config {
	return Config{
		Port:           "8080",
		FixturesDir:    "fixtures",
		DBURL:          "",
		DBSchema:       "public",
		LogLevel:       "info",
		LogFormat:      "text",
		OutputFormat:   string(render.FormatJSON),
		RenderServer:   plantuml.DefaultServer,
		HistoryLimit:   100,
		MetricsEnabled: true,
	}
}

func loadJSON(path string, c *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// env looks up PLANTAPI_* in the process environment first, then in the
// values read from the .env file.
type env map[string]string

func (e env) get(k, fallback string) string {
	if v, ok := os.LookupEnv(envPrefix + k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	if v, ok := e[envPrefix+k]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func (e env) getInt(k string, fallback int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(e.get(k, ""))); err == nil {
		return n
	}
	return fallback
}

func (e env) getBool(k string, fallback bool) bool {
	switch strings.TrimSpace(strings.ToLower(e.get(k, ""))) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return fallback
}

func readDotEnv() (env, error) {
	path := os.Getenv(envPrefix + "ENV_FILE")
	if path == "" {
		path = ".env"
	}
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return env{}, nil
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vals, nil
}

// Load layers defaults, the JSON file at jsonPath (if present), .env,
// PLANTAPI_* variables and finally the command-line args.
func Load(jsonPath string, args []string) (Config, error) {
	cfg := Default()

	if st, err := os.Stat(jsonPath); err == nil && !st.IsDir() {
		if err := loadJSON(jsonPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	vars, err := readDotEnv()
	if err != nil {
		return Config{}, err
	}
	cfg.Port = vars.get("PORT", cfg.Port)
	cfg.FixturesDir = vars.get("FIXTURES_DIR", cfg.FixturesDir)
	cfg.DBURL = vars.get("DB_URL", cfg.DBURL)
	cfg.DBSchema = vars.get("DB_SCHEMA", cfg.DBSchema)
	cfg.LogLevel = vars.get("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = vars.get("LOG_FORMAT", cfg.LogFormat)
	cfg.OutputFormat = vars.get("OUTPUT_FORMAT", cfg.OutputFormat)
	cfg.RenderServer = vars.get("RENDER_SERVER", cfg.RenderServer)
	cfg.HistoryLimit = vars.getInt("HISTORY_LIMIT", cfg.HistoryLimit)
	cfg.MetricsEnabled = vars.getBool("METRICS_ENABLED", cfg.MetricsEnabled)

	fs := pflag.NewFlagSet("plantapi", pflag.ContinueOnError)
	configPath := fs.String("config", jsonPath, "Path to config JSON")
	RegisterFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// another config file was passed: start over with it
	if *configPath != jsonPath {
		return Load(*configPath, withoutConfigFlag(args))
	}

	cfg.Port = strings.TrimSpace(cfg.Port)
	cfg.FixturesDir = strings.TrimSpace(cfg.FixturesDir)
	cfg.DBURL = strings.TrimSpace(cfg.DBURL)
	return cfg, cfg.Validate()
}

// RegisterFlags binds the config fields to fs with the current values as
// defaults.
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	fs.StringVar(&cfg.FixturesDir, "fixtures", cfg.FixturesDir, "Directory with *.plant fixtures")
	fs.StringVar(&cfg.DBURL, "db", cfg.DBURL, "Postgres URL for DDL apply")
	fs.StringVar(&cfg.DBSchema, "db-schema", cfg.DBSchema, "Postgres schema for generated tables")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	fs.StringVar(&cfg.OutputFormat, "output-format", cfg.OutputFormat, "Default document format (json, yaml, msgpack)")
	fs.StringVar(&cfg.RenderServer, "render-server", cfg.RenderServer, "PlantUML server for rendering URLs")
	fs.IntVar(&cfg.HistoryLimit, "history-limit", cfg.HistoryLimit, "Transforms kept in memory")
	fs.BoolVar(&cfg.MetricsEnabled, "metrics", cfg.MetricsEnabled, "Expose /metrics")
}

func withoutConfigFlag(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--config":
			i++
		case strings.HasPrefix(a, "--config="):
		default:
			out = append(out, a)
		}
	}
	return out
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("port %q: %w", c.Port, err)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("historyLimit must be positive, got %d", c.HistoryLimit)
	}
	if _, err := render.ParseFormat(c.OutputFormat); err != nil {
		return fmt.Errorf("outputFormat: %w", err)
	}
	return nil
}
