package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ummabot/internal/content"
	"ummabot/internal/transport"
	"ummabot/pkg/logx"
)

type stubFetcher struct {
	item content.Item
	err  error
}

func (f *stubFetcher) Fetch(context.Context, content.Category, content.Dedup) (content.Item, error) {
	return f.item, f.err
}

type stubStamper struct {
	stamped []string
	err     error
}

func (s *stubStamper) Stamp(_, _, locator string) error {
	s.stamped = append(s.stamped, locator)
	return s.err
}

type stubStore struct {
	subscribed []int64
}

func (s *stubStore) ListSubscribed(context.Context) ([]int64, error) { return s.subscribed, nil }
func (s *stubStore) PostedDuas(context.Context) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}
func (s *stubStore) RecordPostedDua(context.Context, string) error { return nil }

type stubBroadcaster struct {
	name      string
	targets   []transport.ChatTarget
	text      string
	imagePath string
	calls     int
}

func (b *stubBroadcaster) SendContent(name string, targets []transport.ChatTarget, text, imagePath string) string {
	b.calls++
	b.name, b.targets, b.text, b.imagePath = name, targets, text, imagePath
	return "bc:test"
}

type stubAdapter struct {
	transport.Adapter
	sent []string
}

func (a *stubAdapter) SendText(_ context.Context, _ transport.ChatTarget, text string, _ *transport.SendOptions) (transport.MessageRef, error) {
	a.sent = append(a.sent, text)
	return transport.MessageRef{}, nil
}

func newTestPipeline(f Fetcher, st *stubStore, bc *stubBroadcaster, ad transport.Adapter) (*Pipeline, *stubStamper) {
	stamper := &stubStamper{}
	p := New(Options{
		Fetcher:     f,
		Stamper:     stamper,
		Store:       st,
		Broadcaster: bc,
		Images:      content.DefaultImages("assets"),
		AdminChatID: 42,
		Adapter:     ad,
		Log:         logx.Nop(),
	})
	return p, stamper
}

func TestRunAyahStampsAndBroadcasts(t *testing.T) {
	f := &stubFetcher{item: content.Item{Locator: "3:7", Body: "текст аята"}}
	st := &stubStore{subscribed: []int64{1, 2}}
	bc := &stubBroadcaster{}
	p, stamper := newTestPipeline(f, st, bc, nil)

	require.NoError(t, p.Run(context.Background(), content.Ayah))

	assert.Equal(t, []string{"3:7"}, stamper.stamped)
	assert.Equal(t, "daily:ayah", bc.name)
	assert.Equal(t, []transport.ChatTarget{{ChatID: 1}, {ChatID: 2}}, bc.targets)
	assert.Contains(t, bc.text, "Аят дня. 3:7")
	assert.Equal(t, p.images.AyahAnnotated, bc.imagePath)
}

func TestRunHadithSkipsStamping(t *testing.T) {
	f := &stubFetcher{item: content.Item{Body: "хадис", Source: "Свод хадисов аль-Бухари"}}
	st := &stubStore{subscribed: []int64{1}}
	bc := &stubBroadcaster{}
	p, stamper := newTestPipeline(f, st, bc, nil)

	require.NoError(t, p.Run(context.Background(), content.Hadith))
	assert.Empty(t, stamper.stamped)
	assert.Equal(t, p.images.Hadith, bc.imagePath)
}

func TestRunNoSubscribersSkipsBroadcast(t *testing.T) {
	f := &stubFetcher{item: content.Item{Body: "хадис", Source: "источник"}}
	st := &stubStore{}
	bc := &stubBroadcaster{}
	p, _ := newTestPipeline(f, st, bc, nil)

	require.NoError(t, p.Run(context.Background(), content.Hadith))
	assert.Zero(t, bc.calls)
}

func TestRunFetchFailureNotifiesOperator(t *testing.T) {
	f := &stubFetcher{err: content.ErrExhausted}
	st := &stubStore{subscribed: []int64{1}}
	bc := &stubBroadcaster{}
	ad := &stubAdapter{}
	p, _ := newTestPipeline(f, st, bc, ad)

	err := p.Run(context.Background(), content.Dua)
	assert.ErrorIs(t, err, content.ErrExhausted)
	assert.Zero(t, bc.calls)
	require.Len(t, ad.sent, 1)
	assert.Contains(t, ad.sent[0], "dua")
}
