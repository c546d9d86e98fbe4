package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"ummabot/internal/storage"
	"ummabot/internal/transport"
	"ummabot/pkg/logx"
)

// Broadcaster is the passthrough side of the broadcast service.
type Broadcaster interface {
	SendPassthrough(name string, targets []transport.ChatTarget, ref transport.MessageRef) string
}

type Config struct {
	AdminID    int64
	ContactURL string
	// Timeout bounds a single update's handling.
	Timeout time.Duration
}

type Router struct {
	mu  sync.Mutex
	cfg Config

	adapter transport.Adapter
	store   storage.Store
	bc      Broadcaster
	log     logx.Logger

	wg sync.WaitGroup
}

func New(cfg Config, adapter transport.Adapter, store storage.Store, bc Broadcaster, log logx.Logger) *Router {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Router{cfg: cfg, adapter: adapter, store: store, bc: bc, log: log}
}

// Apply swaps the routing config. Safe during hot-reload.
func (r *Router) Apply(cfg Config) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()
}

func (r *Router) config() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// Run consumes updates until ctx is cancelled or the channel closes. Each
// update is handled on its own goroutine so a slow handler cannot stall the
// poll loop.
func (r *Router) Run(ctx context.Context, updates <-chan transport.Update) {
	defer r.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			r.wg.Add(1)
			go func() {
				defer r.wg.Done()
				r.dispatch(ctx, upd)
			}()
		}
	}
}

func (r *Router) dispatch(ctx context.Context, upd transport.Update) {
	cfg := r.config()
	cctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("panic in update handler", logx.Any("panic", rec), logx.String("stack", string(debug.Stack())))
		}
	}()

	start := time.Now()
	var err error
	switch upd.Kind {
	case transport.UpdateMessage:
		err = r.handleMessage(cctx, cfg, upd.Message)
	case transport.UpdateCallback:
		err = r.handleCallback(cctx, cfg, upd.Callback)
	default:
		return
	}

	fields := []logx.Field{
		logx.String("kind", string(upd.Kind)),
		logx.Duration("dur", time.Since(start)),
	}
	if err != nil {
		r.log.Warn("update failed", append(fields, logx.Err(err))...)
		return
	}
	r.log.Debug("update ok", fields...)
}

func (r *Router) handleMessage(ctx context.Context, cfg Config, msg *transport.Message) error {
	if msg == nil {
		return nil
	}
	switch command(msg.Text) {
	case "start":
		return r.handleStart(ctx, cfg, msg)
	case "change_mailing_status":
		return r.toggleMailing(ctx, cfg, msg.FromID, nil)
	}
	if msg.FromID == cfg.AdminID {
		return r.handlePassthrough(ctx, msg)
	}
	return nil
}

func (r *Router) handleCallback(ctx context.Context, cfg Config, cb *transport.Callback) error {
	if cb == nil {
		return nil
	}
	if cb.Data != mailingCallback {
		return r.adapter.AnswerCallback(ctx, cb.ID, "")
	}
	return r.toggleMailing(ctx, cfg, cb.FromID, cb)
}

// command extracts the bare command name from "/cmd" or "/cmd@botname".
func command(text string) string {
	if len(text) < 2 || text[0] != '/' {
		return ""
	}
	name := text[1:]
	for i := 0; i < len(name); i++ {
		if name[i] == ' ' || name[i] == '@' {
			return name[:i]
		}
	}
	return name
}

// handlePassthrough copies the operator's message verbatim to every known
// user, subscribed or not.
func (r *Router) handlePassthrough(ctx context.Context, msg *transport.Message) error {
	ids, err := r.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("bot: list users: %w", err)
	}
	targets := make([]transport.ChatTarget, 0, len(ids))
	for _, id := range ids {
		targets = append(targets, transport.ChatTarget{ChatID: id})
	}
	jobID := r.bc.SendPassthrough("admin:post", targets, transport.MessageRef{ChatID: msg.ChatID, MessageID: msg.ID})
	r.log.Info("operator post enqueued", logx.String("job", jobID), logx.Int("targets", len(targets)))
	return nil
}
