package config

import (
	"context"
	"path/filepath"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/gradebot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"GRADEBOT_RUNTIME_PATH" envDefault:".gradebot"`

	// Dataset
	CSVPath      string `env:"CSV_PATH"`
	CSVDelimiter string `env:"CSV_DELIMITER" envDefault:","`

	// Memory
	MemoryFile   string `env:"MEMORY_FILE" envDefault:"memory.json"`
	HistoryLimit int    `env:"HISTORY_LIMIT" envDefault:"10"`

	// Transport Flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"true"`

	EnableTranscripts bool `env:"ENABLE_TRANSCRIPTS" envDefault:"true"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = GetRuntimePath()
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

// GetDatasetPath resolves CSV_PATH against the runtime directory.
func (c AppConfig) GetDatasetPath() string {
	if c.CSVPath == "" {
		return filepath.Join(c.RuntimePath, "grades.csv")
	}
	return c.resolve(c.CSVPath)
}

func (c AppConfig) GetMemoryPath() string {
	return c.resolve(c.MemoryFile)
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "gradebot.db")
}

// Delimiter returns the first rune of CSV_DELIMITER, or a comma.
func (c AppConfig) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

func (c AppConfig) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.RuntimePath, path)
}
