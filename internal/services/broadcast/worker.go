package broadcast

import (
	"context"
	"time"
	"unicode/utf8"

	"ummabot/internal/transport"
	"ummabot/pkg/logx"
)

// captionLimit is Telegram's media caption limit. Longer texts are delivered
// as a bare photo followed by a separate text message.
const captionLimit = 1024

func (s *Service) worker(ctx context.Context, stopCh <-chan struct{}, queue <-chan job) {
	for {
		// fast-exit so stop wins over queued work
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
		case j := <-queue:
			s.execJob(ctx, j)
		}
	}
}

func (s *Service) execJob(ctx context.Context, j job) {
	start := time.Now()
	s.setRunning(j.id)
	s.log.Info("broadcast job started", logx.String("job", j.id), logx.String("name", j.name), logx.Int("total", len(j.targets)))

	for _, t := range j.targets {
		if err := s.sendOne(ctx, j, t); err != nil {
			s.log.Warn("broadcast send failed", logx.String("job", j.id), logx.String("name", j.name), logx.Int64("chat_id", t.ChatID), logx.Err(err))
			s.markFail(j.id, t)
		}
		s.markDone(j.id)
	}
	s.finish(j.id)

	st, ok := s.Status(j.id)
	fields := []logx.Field{
		logx.String("job", j.id),
		logx.String("name", j.name),
		logx.Duration("dur", time.Since(start)),
	}
	if ok && st.Failed > 0 {
		s.log.Warn("broadcast job finished with failures", append(fields, logx.Int("total", st.Total), logx.Int("failed", st.Failed))...)
		return
	}
	s.log.Info("broadcast job finished", fields...)
}

func (s *Service) sendOne(ctx context.Context, j job, t transport.ChatTarget) error {
	lim, adapter := s.snapshotDeps()
	if lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return err
		}
	}
	if j.kind == jobPassthrough {
		return adapter.CopyMessage(ctx, t, j.ref)
	}

	opt := &transport.SendOptions{ParseMode: "Markdown"}
	if j.imagePath == "" {
		_, err := adapter.SendText(ctx, t, j.text, opt)
		return err
	}
	if utf8.RuneCountInString(j.text) > captionLimit {
		if _, err := adapter.SendPhoto(ctx, t, j.imagePath, "", nil); err != nil {
			return err
		}
		_, err := adapter.SendText(ctx, t, j.text, opt)
		return err
	}
	_, err := adapter.SendPhoto(ctx, t, j.imagePath, j.text, opt)
	return err
}

func (s *Service) setRunning(id string) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if st := s.status[id]; st != nil {
		st.StartedAt = time.Now()
		st.Running = true
	}
}

func (s *Service) markDone(id string) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if st := s.status[id]; st != nil {
		st.Done++
	}
}

func (s *Service) markFail(id string, t transport.ChatTarget) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if st := s.status[id]; st != nil {
		st.Failed++
		if len(st.Failures) < 200 {
			st.Failures = append(st.Failures, t)
		}
	}
}

func (s *Service) finish(id string) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if st := s.status[id]; st != nil {
		st.DoneAt = time.Now()
		st.Running = false
	}
}
