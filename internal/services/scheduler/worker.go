package scheduler

import (
	"context"
	"time"

	"ummabot/pkg/logx"
)

func (s *Service) enqueue(t task) {
	s.mu.Lock()
	q := s.queue
	s.mu.Unlock()
	if q == nil {
		s.log.Debug("scheduler not running; dropping task", logx.String("task", t.name))
		return
	}
	select {
	case q <- t:
	default:
		s.log.Warn("scheduler queue full; dropping task", logx.String("task", t.name), logx.Int("queue_len", len(q)))
	}
}

func (s *Service) worker(ctx context.Context, stopCh <-chan struct{}, queue <-chan task) {
	for {
		// Fast-exit check so a closed stopCh wins over queued work.
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case t := <-queue:
			s.execOne(ctx, t)
		}
	}
}

func (s *Service) execOne(ctx context.Context, t task) {
	s.mu.Lock()
	endDate := s.cfg.EndDate
	loc := s.loc
	s.mu.Unlock()
	if loc == nil {
		loc = time.Local
	}
	if s.pastEndDate(time.Now().In(loc), endDate) {
		s.log.Info("mailing period ended; schedule silenced", logx.String("task", t.name), logx.Time("end_date", endDate))
		return
	}

	// Overlap control: a firing that lands while the previous run is still
	// going is skipped, not queued behind it.
	if t.state != nil {
		t.state.mu.Lock()
		if t.state.running {
			t.state.mu.Unlock()
			s.log.Warn("previous run still in progress; skipping", logx.String("task", t.name))
			return
		}
		t.state.running = true
		t.state.mu.Unlock()
		defer func() {
			t.state.mu.Lock()
			t.state.running = false
			t.state.mu.Unlock()
		}()
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if t.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	start := time.Now()
	s.log.Info("task started", logx.String("task", t.name))
	err := t.run(runCtx)
	dur := time.Since(start)
	if err != nil {
		s.log.Error("task failed", logx.String("task", t.name), logx.Duration("dur", dur), logx.Err(err))
	} else {
		s.log.Info("task finished", logx.String("task", t.name), logx.Duration("dur", dur))
	}
	s.recordHistory(t, start, dur, err)
}

// pastEndDate reports whether the mailing cutoff has passed. The cutoff date
// itself still mails; silence starts the next day.
func (s *Service) pastEndDate(now time.Time, endDate time.Time) bool {
	if endDate.IsZero() {
		return false
	}
	cutoff := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return !now.Before(cutoff)
}

func (s *Service) recordHistory(t task, start time.Time, dur time.Duration, err error) {
	item := HistoryItem{ID: t.id, Name: t.name, Started: start, Duration: dur}
	if err != nil {
		item.Error = err.Error()
	}
	size := s.cfg.HistorySize
	if size <= 0 {
		size = 50
	}
	s.hmu.Lock()
	s.history = append([]HistoryItem{item}, s.history...)
	if len(s.history) > size {
		s.history = s.history[:size]
	}
	s.hmu.Unlock()
}
