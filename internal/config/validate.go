package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var knownCategories = map[string]struct{}{
	"ayah":   {},
	"hadith": {},
	"dua":    {},
}

// Validate rejects configs that would only fail later at runtime.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("telegram.token is required")
	}
	if c.Telegram.AdminID == 0 {
		return errors.New("telegram.admin_id is required")
	}
	if _, err := ParseDurationField("telegram.poll_timeout", c.Telegram.PollTimeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("content.fetch_timeout", c.Content.FetchTimeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
		return err
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage.path is required")
	}

	for cat, at := range c.Mailing.Times {
		if _, ok := knownCategories[strings.ToLower(strings.TrimSpace(cat))]; !ok {
			return fmt.Errorf("mailing.times: unknown category %q", cat)
		}
		if _, _, err := ParseHHMM(at); err != nil {
			return fmt.Errorf("mailing.times.%s: %w", cat, err)
		}
	}
	if tz := strings.TrimSpace(c.Mailing.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("mailing.timezone: %w", err)
		}
	}
	if ed := strings.TrimSpace(c.Mailing.EndDate); ed != "" {
		if _, err := time.Parse("2006-01-02", ed); err != nil {
			return fmt.Errorf("mailing.end_date: expected YYYY-MM-DD: %w", err)
		}
	}
	return nil
}

// ParseDurationField parses an optional Go duration string from the config.
// Empty means zero; negative durations are rejected.
func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}

// ParseHHMM parses a local wall-clock trigger time like "07:30".
func ParseHHMM(s string) (hour int, minute int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h, m, nil
}
