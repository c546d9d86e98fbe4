package broadcast

import (
	"fmt"
	"time"

	"ummabot/internal/transport"
	"ummabot/pkg/logx"
)

// SendContent enqueues a text-plus-picture broadcast. imagePath may be empty
// for a plain text broadcast.
func (s *Service) SendContent(name string, targets []transport.ChatTarget, text, imagePath string) string {
	return s.enqueue(job{
		name:      name,
		kind:      jobContent,
		targets:   targets,
		text:      text,
		imagePath: imagePath,
	})
}

// SendPassthrough enqueues a verbatim copy of an existing message to the
// targets. Content is copied server-side, so nothing is re-rendered.
func (s *Service) SendPassthrough(name string, targets []transport.ChatTarget, ref transport.MessageRef) string {
	return s.enqueue(job{
		name:    name,
		kind:    jobPassthrough,
		targets: targets,
		ref:     ref,
	})
}

func (s *Service) enqueue(j job) string {
	now := time.Now()
	j.id = fmt.Sprintf("bc:%d", now.UnixNano())
	s.pruneStatus(now)
	st := &JobStatus{ID: j.id, Name: j.name, Total: len(j.targets), CreatedAt: now}
	s.statusMu.Lock()
	s.status[j.id] = st
	s.statusMu.Unlock()

	s.mu.Lock()
	q := s.queue
	s.mu.Unlock()

	select {
	case q <- j:
		s.log.Debug("broadcast job enqueued", logx.String("job", j.id), logx.String("name", j.name), logx.Int("total", len(j.targets)), logx.Int("queue_len", len(q)))
	default:
		s.log.Warn("broadcast queue full; dropping job", logx.String("job", j.id), logx.String("name", j.name))
		s.statusMu.Lock()
		if st := s.status[j.id]; st != nil {
			st.DoneAt = time.Now()
			st.Failed = st.Total
		}
		s.statusMu.Unlock()
	}
	return j.id
}

func (s *Service) Status(jobID string) (JobStatus, bool) {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	st, ok := s.status[jobID]
	if !ok || st == nil {
		return JobStatus{}, false
	}
	cp := *st
	if len(st.Failures) > 0 {
		cp.Failures = append([]transport.ChatTarget(nil), st.Failures...)
	}
	return cp, true
}

// statusTTL bounds how long finished job records are kept.
const statusTTL = 24 * time.Hour

func (s *Service) pruneStatus(now time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	for id, st := range s.status {
		if st == nil {
			delete(s.status, id)
			continue
		}
		if st.Running || st.DoneAt.IsZero() {
			continue
		}
		if now.Sub(st.DoneAt) > statusTTL {
			delete(s.status, id)
		}
	}
}
