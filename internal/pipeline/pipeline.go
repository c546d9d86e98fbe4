// Package pipeline ties fetching, rendering and broadcasting into the daily
// mailing run for one content category.
package pipeline

import (
	"context"
	"fmt"

	"ummabot/internal/content"
	"ummabot/internal/transport"
	"ummabot/pkg/logx"
)

// Fetcher produces today's item for a category.
type Fetcher interface {
	Fetch(ctx context.Context, cat content.Category, posted content.Dedup) (content.Item, error)
}

// Stamper draws the ayah locator onto the template picture.
type Stamper interface {
	Stamp(basePath, outPath, locator string) error
}

// Subscribers lists the mailing audience and backs the dua dedup log.
type Subscribers interface {
	content.Dedup
	ListSubscribed(ctx context.Context) ([]int64, error)
}

// Broadcaster fans rendered content out to chat targets.
type Broadcaster interface {
	SendContent(name string, targets []transport.ChatTarget, text, imagePath string) string
}

type Pipeline struct {
	fetcher Fetcher
	stamper Stamper
	store   Subscribers
	bc      Broadcaster
	images  content.Images

	// operator chat notified when a run fails
	adminChatID int64
	adapter     transport.Adapter

	log logx.Logger
}

type Options struct {
	Fetcher     Fetcher
	Stamper     Stamper
	Store       Subscribers
	Broadcaster Broadcaster
	Images      content.Images
	AdminChatID int64
	Adapter     transport.Adapter
	Log         logx.Logger
}

func New(opt Options) *Pipeline {
	return &Pipeline{
		fetcher:     opt.Fetcher,
		stamper:     opt.Stamper,
		store:       opt.Store,
		bc:          opt.Broadcaster,
		images:      opt.Images,
		adminChatID: opt.AdminChatID,
		adapter:     opt.Adapter,
		log:         opt.Log,
	}
}

// Run executes one mailing for the category: fetch today's item, prepare the
// picture, render the message and enqueue the broadcast to subscribers.
// Failures are reported to the operator chat and returned.
func (p *Pipeline) Run(ctx context.Context, cat content.Category) error {
	if err := p.run(ctx, cat); err != nil {
		p.log.Error("mailing run failed", logx.String("category", string(cat)), logx.Err(err))
		p.notifyOperator(ctx, cat, err)
		return err
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, cat content.Category) error {
	item, err := p.fetcher.Fetch(ctx, cat, p.store)
	if err != nil {
		return err
	}
	p.log.Info("content fetched", logx.String("category", string(cat)), logx.String("url", item.URL))

	if cat == content.Ayah {
		if err := p.stamper.Stamp(p.images.AyahBase, p.images.AyahAnnotated, item.Locator); err != nil {
			return err
		}
	}

	targets, err := p.subscribedTargets(ctx)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		p.log.Info("no subscribers; skipping broadcast", logx.String("category", string(cat)))
		return nil
	}

	text := content.Render(item, cat)
	jobID := p.bc.SendContent("daily:"+string(cat), targets, text, p.images.For(cat, item))
	p.log.Info("mailing enqueued", logx.String("category", string(cat)), logx.String("job", jobID), logx.Int("subscribers", len(targets)))
	return nil
}

func (p *Pipeline) subscribedTargets(ctx context.Context) ([]transport.ChatTarget, error) {
	ids, err := p.store.ListSubscribed(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: list subscribers: %w", err)
	}
	targets := make([]transport.ChatTarget, 0, len(ids))
	for _, id := range ids {
		targets = append(targets, transport.ChatTarget{ChatID: id})
	}
	return targets, nil
}

// notifyOperator is best-effort; a dead operator chat must not mask the
// original failure.
func (p *Pipeline) notifyOperator(ctx context.Context, cat content.Category, runErr error) {
	if p.adapter == nil || p.adminChatID == 0 {
		return
	}
	text := fmt.Sprintf("Рассылка %q не выполнена: %v", cat, runErr)
	if _, err := p.adapter.SendText(ctx, transport.ChatTarget{ChatID: p.adminChatID}, text, nil); err != nil {
		p.log.Warn("operator notification failed", logx.Err(err))
	}
}
