// Package app wires configuration, storage, transport and the mailing
// services into a runnable bot.
package app

import (
	"context"
	"fmt"
	"time"

	"ummabot/internal/annotate"
	"ummabot/internal/bot"
	"ummabot/internal/config"
	"ummabot/internal/content"
	"ummabot/internal/pipeline"
	"ummabot/internal/runtime/supervisor"
	"ummabot/internal/services/broadcast"
	"ummabot/internal/services/scheduler"
	"ummabot/internal/storage"
	"ummabot/internal/transport"
	"ummabot/internal/transport/telegram"
	"ummabot/pkg/logx"
)

const (
	defaultBaseURL      = "https://umma.ru"
	defaultQuranURL     = "https://quran-online.ru"
	defaultFetchTimeout = 30 * time.Second
)

type App struct {
	cfgm *config.Manager
	sup  *supervisor.Supervisor

	log   logx.Logger
	logs  *logx.Service
	store storage.Store

	adapter transport.Adapter
	bc      *broadcast.Service
	sched   *scheduler.Service
	pipe    *pipeline.Pipeline
	router  *bot.Router

	updates chan transport.Update
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log = log.With(logx.String("comp", "app"))
	cfgm.SetLogger(log.With(logx.String("comp", "config")))

	busyTimeout, err := config.ParseDurationOrDefault("storage.busy_timeout", cfg.Storage.BusyTimeout, 5*time.Second)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(storage.Config{
		Path:        cfg.Storage.Path,
		BusyTimeout: busyTimeout,
	}, log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, err
	}

	pollTimeout, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	adapter, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: pollTimeout,
	}, log.With(logx.String("comp", "telegram")))
	if err != nil {
		return nil, err
	}

	bc := broadcast.New(broadcast.Config{
		Workers:    cfg.Broadcast.Workers,
		RatePerSec: cfg.Broadcast.RatePerSec,
	}, adapter, log.With(logx.String("comp", "broadcast")))

	sched := scheduler.New(mapSchedulerConfig(cfg), log.With(logx.String("comp", "scheduler")))

	pipe, err := buildPipeline(cfg, store, bc, adapter, log)
	if err != nil {
		return nil, err
	}

	router := bot.New(bot.Config{
		AdminID:    cfg.Telegram.AdminID,
		ContactURL: cfg.Telegram.ContactURL,
	}, adapter, store, bc, log.With(logx.String("comp", "bot")))

	return &App{
		cfgm:    cfgm,
		log:     log,
		logs:    logSvc,
		store:   store,
		adapter: adapter,
		bc:      bc,
		sched:   sched,
		pipe:    pipe,
		router:  router,
		updates: make(chan transport.Update, 256),
	}, nil
}

func buildPipeline(cfg *config.Config, store storage.Store, bc *broadcast.Service, adapter transport.Adapter, log logx.Logger) (*pipeline.Pipeline, error) {
	base := cfg.Content.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	quran := cfg.Content.QuranURL
	if quran == "" {
		quran = defaultQuranURL
	}
	fetchTimeout, err := config.ParseDurationOrDefault("content.fetch_timeout", cfg.Content.FetchTimeout, defaultFetchTimeout)
	if err != nil {
		return nil, err
	}

	fetcher := content.NewFetcher(content.FetcherConfig{
		BaseURL:  base,
		QuranURL: quran,
		DuaPages: cfg.Content.DuaPages,
		Client:   content.NewSafeClient(fetchTimeout),
	}, log.With(logx.String("comp", "fetcher")))

	images := content.DefaultImages(cfg.Content.AssetsDir)
	stamper, err := annotate.New(images.Font)
	if err != nil {
		return nil, fmt.Errorf("app: load stamp font: %w", err)
	}

	return pipeline.New(pipeline.Options{
		Fetcher:     fetcher,
		Stamper:     stamper,
		Store:       store,
		Broadcaster: bc,
		Images:      images,
		AdminChatID: cfg.Telegram.AdminID,
		Adapter:     adapter,
		Log:         log.With(logx.String("comp", "pipeline")),
	}), nil
}

func mapSchedulerConfig(cfg *config.Config) scheduler.Config {
	sc := scheduler.Config{
		Workers:        2,
		DefaultTimeout: 5 * time.Minute,
		Timezone:       cfg.Mailing.Timezone,
	}
	if cfg.Mailing.EndDate != "" {
		// validated at load time
		if end, err := time.Parse("2006-01-02", cfg.Mailing.EndDate); err == nil {
			sc.EndDate = end
		}
	}
	return sc
}

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx, supervisor.WithLogger(a.log), supervisor.WithCancelOnError(true))

	if err := a.adapter.Start(a.sup.Context(), a.updates); err != nil {
		return err
	}
	a.bc.Start(a.sup.Context())
	a.sched.Start(a.sup.Context())

	if err := a.registerSchedules(a.cfgm.Get()); err != nil {
		return err
	}

	a.sup.Go0("bot.dispatch", func(c context.Context) {
		a.router.Run(c, a.updates)
	})
	a.sup.Go("config.watch", func(c context.Context) error {
		return a.cfgm.Watch(c)
	})

	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		for {
			select {
			case <-c.Done():
				return
			case newCfg, ok := <-sub:
				if !ok {
					return
				}
				a.applyConfig(newCfg)
			}
		}
	})

	a.log.Info("bot started")
	return nil
}

// applyConfig propagates a hot-reloaded config to the live services.
// Schedule times and the bot token only take effect on restart.
func (a *App) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	a.logs.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	a.bc.Apply(broadcast.Config{
		Workers:    cfg.Broadcast.Workers,
		RatePerSec: cfg.Broadcast.RatePerSec,
	})
	a.sched.Apply(mapSchedulerConfig(cfg))
	a.router.Apply(bot.Config{
		AdminID:    cfg.Telegram.AdminID,
		ContactURL: cfg.Telegram.ContactURL,
	})
	a.log.Info("config reloaded")
}

// registerSchedules binds one scheduler entry per configured category time.
func (a *App) registerSchedules(cfg *config.Config) error {
	for name, at := range cfg.Mailing.Times {
		cat, err := content.ParseCategory(name)
		if err != nil {
			return err
		}
		c := cat
		err = a.sched.AddDaily("daily:"+string(c), string(c), at, 0, func(ctx context.Context) error {
			return a.pipe.Run(ctx, c)
		})
		if err != nil {
			return err
		}
		a.log.Info("mailing scheduled", logx.String("category", string(c)), logx.String("at", at))
	}
	return nil
}

// Done is closed when the app context ends (fatal error or Stop()).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Stop(ctx context.Context) error {
	a.sched.Stop(ctx)
	a.bc.Stop(ctx)
	if err := a.adapter.Stop(ctx); err != nil {
		a.log.Warn("adapter stop failed", logx.Err(err))
	}
	if a.sup != nil {
		_ = a.sup.Wait(ctx)
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("storage close failed", logx.Err(err))
	}
	a.log.Info("bot stopped")
	return a.logs.Close()
}
