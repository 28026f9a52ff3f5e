package env

import (
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Path     string        `env:"CSV_PATH"`
	Limit    int           `env:"HISTORY_LIMIT"`
	Temp     float64       `env:"LLM_TEMPERATURE"`
	Timeout  time.Duration `env:"LLM_TIMEOUT"`
	Enabled  bool          `env:"ENABLE_CLI"`
	Users    []int64       `env:"TELEGRAM_ALLOWED_USERS" envSeparator:","`
	Token    string        `env:"TELEGRAM_TOKEN,required"`
	Skipped  string
}

type other struct {
	Provider string `env:"LLM_PROVIDER"`
}

func TestMarshalEnv(t *testing.T) {
	got, err := MarshalEnv(&sample{
		Path:    "/data/my grades.csv",
		Limit:   10,
		Temp:    0.3,
		Timeout: 30 * time.Second,
		Enabled: true,
		Users:   []int64{1, 2},
		Token:   "123:abc",
		Skipped: "x",
	}, &other{Provider: "ollama"})
	require.NoError(t, err)

	assert.Equal(t, `CSV_PATH="/data/my grades.csv"
HISTORY_LIMIT=10
LLM_TEMPERATURE=0.3
LLM_TIMEOUT=30s
ENABLE_CLI=true
TELEGRAM_ALLOWED_USERS=1,2
TELEGRAM_TOKEN=123:abc
LLM_PROVIDER=ollama
`, got)

	parsed, err := godotenv.Unmarshal(got)
	require.NoError(t, err)
	assert.Equal(t, "/data/my grades.csv", parsed["CSV_PATH"])
	assert.Equal(t, "1,2", parsed["TELEGRAM_ALLOWED_USERS"])
}

func TestMarshalEnv_ZeroValuesSkipped(t *testing.T) {
	got, err := MarshalEnv(&sample{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

type defaults struct {
	CLI      bool   `env:"ENABLE_CLI" envDefault:"true"`
	Telegram bool   `env:"ENABLE_TELEGRAM" envDefault:"false"`
	Limit    int    `env:"HISTORY_LIMIT" envDefault:"10"`
	Runtime  string `env:"GRADEBOT_RUNTIME_PATH" envDefault:".gradebot"`
}

func TestMarshalEnv_Defaults(t *testing.T) {
	got, err := MarshalEnv(&defaults{CLI: false, Telegram: true, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "ENABLE_CLI=false\nENABLE_TELEGRAM=true\n", got)

	got, err = MarshalEnv(&defaults{CLI: true, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, "HISTORY_LIMIT=20\n", got)
}

func TestMarshalEnv_RejectsNonPointer(t *testing.T) {
	_, err := MarshalEnv(sample{})
	assert.Error(t, err)
}
