package config

// Config is the full bot configuration.
//
// YAML and JSON are both accepted; YAML is coerced to JSON before strict
// decoding so unknown keys are rejected in either format.
type Config struct {
	Telegram  TelegramConfig  `json:"telegram"`
	Logging   LoggingConfig   `json:"logging"`
	Mailing   MailingConfig   `json:"mailing"`
	Content   ContentConfig   `json:"content,omitempty"`
	Broadcast BroadcastConfig `json:"broadcast,omitempty"`
	Storage   StorageConfig   `json:"storage"`
}

type TelegramConfig struct {
	Token string `json:"token"`

	// AdminID is the privileged operator. Messages from this user that are
	// not commands are copied verbatim to every known user.
	AdminID int64 `json:"admin_id"`

	// ContactURL is the "contact the administrator" button target shown in
	// the /start greeting keyboard.
	ContactURL string `json:"contact_url,omitempty"`

	// PollTimeout is a Go duration string (e.g. "10s", "2m").
	PollTimeout string `json:"poll_timeout,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// MailingConfig controls the daily content schedule.
//
// Times maps a content category ("ayah", "hadith", "dua") to a local "HH:MM"
// trigger. A category without a time is simply never scheduled.
type MailingConfig struct {
	Times map[string]string `json:"times"`

	// Timezone is an IANA TZ name, e.g. "Europe/Moscow". Empty means local.
	Timezone string `json:"timezone,omitempty"`

	// EndDate ("2006-01-02") is the last day triggers fire. Empty means no end.
	EndDate string `json:"end_date,omitempty"`
}

// ContentConfig points the fetcher at its upstream sites and local assets.
// Zero values fall back to the production defaults.
type ContentConfig struct {
	BaseURL  string `json:"base_url,omitempty"`  // default: https://umma.ru
	QuranURL string `json:"quran_url,omitempty"` // default: https://quran-online.ru

	// DuaPages is the number of dua listing pages to paginate.
	DuaPages int `json:"dua_pages,omitempty"` // default: 13

	// FetchTimeout is a Go duration string bounding a single upstream request.
	FetchTimeout string `json:"fetch_timeout,omitempty"` // default: 30s

	// AssetsDir holds img/ and fonts/ used for outgoing pictures.
	AssetsDir string `json:"assets_dir,omitempty"` // default: "."
}

type BroadcastConfig struct {
	Workers    int `json:"workers,omitempty"`      // default: 4
	RatePerSec int `json:"rate_per_sec,omitempty"` // default: 25 (Telegram bulk limit is ~30/s)
}

type StorageConfig struct {
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string
}
