package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return NewManager(path)
}

const validYAML = `
telegram:
  token: "123:abc"
  admin_id: 99
  contact_url: "https://t.me/feedbackbott"
logging:
  level: info
  console: true
mailing:
  times:
    ayah: "09:00"
    hadith: "12:00"
    dua: "18:30"
  timezone: "Europe/Moscow"
  end_date: "2026-12-31"
storage:
  path: "./data/bot.db"
`

func TestLoadYAML(t *testing.T) {
	m := writeConfig(t, "config.yaml", validYAML)
	cfg, err := m.Load()
	require.NoError(t, err)

	assert.Equal(t, int64(99), cfg.Telegram.AdminID)
	assert.Equal(t, "18:30", cfg.Mailing.Times["dua"])
	assert.Equal(t, "Europe/Moscow", cfg.Mailing.Timezone)
	assert.Same(t, cfg, m.Get())
}

func TestLoadJSON(t *testing.T) {
	m := writeConfig(t, "config.json", `{
  "telegram": {"token": "123:abc", "admin_id": 1},
  "logging": {"level": "debug", "console": true, "file": {"enabled": false, "path": ""}},
  "mailing": {"times": {"ayah": "07:00"}},
  "storage": {"path": "bot.db"}
}`)
	cfg, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestUnknownKeyRejected(t *testing.T) {
	m := writeConfig(t, "config.yaml", validYAML+`
unknown_section:
  foo: 1
`)
	_, err := m.Load()
	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing token", body: `
telegram:
  admin_id: 1
storage:
  path: "bot.db"
`},
		{name: "missing admin", body: `
telegram:
  token: "x"
storage:
  path: "bot.db"
`},
		{name: "missing storage path", body: `
telegram:
  token: "x"
  admin_id: 1
`},
		{name: "bad category", body: `
telegram: {token: "x", admin_id: 1}
storage: {path: "bot.db"}
mailing:
  times: {sermon: "09:00"}
`},
		{name: "bad time", body: `
telegram: {token: "x", admin_id: 1}
storage: {path: "bot.db"}
mailing:
  times: {ayah: "9 o'clock"}
`},
		{name: "bad timezone", body: `
telegram: {token: "x", admin_id: 1}
storage: {path: "bot.db"}
mailing:
  timezone: "Mars/Olympus"
`},
		{name: "bad end date", body: `
telegram: {token: "x", admin_id: 1}
storage: {path: "bot.db"}
mailing:
  end_date: "31.12.2026"
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := writeConfig(t, "config.yaml", tt.body)
			_, err := m.Load()
			assert.Error(t, err)
		})
	}
}

func TestParseHHMM(t *testing.T) {
	h, m, err := ParseHHMM("07:30")
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 30, m)

	_, _, err = ParseHHMM("25:00")
	assert.Error(t, err)
}
