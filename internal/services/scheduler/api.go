package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDailySpec converts a wall-clock "HH:MM" string into a five-field cron
// spec firing once per day at that time.
func ParseDailySpec(hhmm string) (string, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok {
		return "", fmt.Errorf("scheduler: time %q is not HH:MM", hhmm)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("scheduler: time %q has invalid hour", hhmm)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("scheduler: time %q has invalid minute", hhmm)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// AddDaily registers a job firing every day at hhmm in the scheduler's
// timezone. Safe to call before or after Start.
func (s *Service) AddDaily(id, name, hhmm string, timeout time.Duration, job func(ctx context.Context) error) error {
	spec, err := ParseDailySpec(hhmm)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = s.cfg.DefaultTimeout
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.defs {
		if s.defs[i].id == id {
			return fmt.Errorf("scheduler: schedule %q already registered", id)
		}
	}
	s.defs = append(s.defs, scheduleDef{
		id:      id,
		name:    name,
		spec:    spec,
		timeout: timeout,
		job:     job,
		state:   &runState{},
	})
	if s.stopCh != nil {
		s.addCronLocked(&s.defs[len(s.defs)-1])
	}
	return nil
}

// Schedules reports the registered schedules with their next firing times.
func (s *Service) Schedules() []ScheduleInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ScheduleInfo, 0, len(s.defs))
	for i := range s.defs {
		info := ScheduleInfo{
			ID:      s.defs[i].id,
			Name:    s.defs[i].name,
			Spec:    s.defs[i].spec,
			Timeout: s.defs[i].timeout,
		}
		if s.c != nil {
			e := s.c.Entry(s.defs[i].entryID)
			info.Next, info.Prev = e.Next, e.Prev
		}
		out = append(out, info)
	}
	return out
}

// History returns recent job runs, newest first.
func (s *Service) History() []HistoryItem {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	out := make([]HistoryItem, len(s.history))
	copy(out, s.history)
	return out
}
