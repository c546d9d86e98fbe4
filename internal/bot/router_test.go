package bot

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ummabot/internal/transport"
	"ummabot/pkg/logx"
)

type memStore struct {
	mu      sync.Mutex
	users   map[int64]bool // id -> mailing flag
	posted  map[string]struct{}
	ordered []int64
}

func newMemStore() *memStore {
	return &memStore{users: map[int64]bool{}, posted: map[string]struct{}{}}
}

func (s *memStore) ListUsers(context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.ordered...), nil
}

func (s *memStore) ListSubscribed(context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int64
	for _, id := range s.ordered {
		if s.users[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *memStore) IsKnown(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return ok, nil
}

func (s *memStore) AddUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		s.users[id] = false
		s.ordered = append(s.ordered, id)
	}
	return nil
}

func (s *memStore) MailingStatus(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *memStore) ToggleMailing(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = !s.users[id]
	return s.users[id], nil
}

func (s *memStore) RecordPostedDua(_ context.Context, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posted[link] = struct{}{}
	return nil
}

func (s *memStore) PostedDuas(context.Context) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{}, len(s.posted))
	for k := range s.posted {
		out[k] = struct{}{}
	}
	return out, nil
}

func (s *memStore) Close() error { return nil }

type recAdapter struct {
	mu       sync.Mutex
	sent     []string
	edits    []transport.MessageRef
	answered []string
	markups  []*transport.SendOptions
}

func (a *recAdapter) Start(context.Context, chan<- transport.Update) error { return nil }
func (a *recAdapter) Stop(context.Context) error                           { return nil }

func (a *recAdapter) SendText(_ context.Context, _ transport.ChatTarget, text string, opt *transport.SendOptions) (transport.MessageRef, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sent = append(a.sent, text)
	a.markups = append(a.markups, opt)
	return transport.MessageRef{}, nil
}

func (a *recAdapter) SendPhoto(context.Context, transport.ChatTarget, string, string, *transport.SendOptions) (transport.MessageRef, error) {
	return transport.MessageRef{}, nil
}

func (a *recAdapter) CopyMessage(context.Context, transport.ChatTarget, transport.MessageRef) error {
	return nil
}

func (a *recAdapter) EditText(_ context.Context, ref transport.MessageRef, _ string, _ *transport.SendOptions) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.edits = append(a.edits, ref)
	return nil
}

func (a *recAdapter) AnswerCallback(_ context.Context, id string, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.answered = append(a.answered, id)
	return nil
}

type recBroadcaster struct {
	targets []transport.ChatTarget
	ref     transport.MessageRef
	calls   int
}

func (b *recBroadcaster) SendPassthrough(_ string, targets []transport.ChatTarget, ref transport.MessageRef) string {
	b.calls++
	b.targets = targets
	b.ref = ref
	return "bc:test"
}

func newTestRouter() (*Router, *memStore, *recAdapter, *recBroadcaster) {
	store := newMemStore()
	adapter := &recAdapter{}
	bc := &recBroadcaster{}
	r := New(Config{AdminID: 99, ContactURL: "https://t.me/feedbackbott"}, adapter, store, bc, logx.Nop())
	return r, store, adapter, bc
}

func TestStartRegistersAndGreets(t *testing.T) {
	r, store, adapter, _ := newTestRouter()
	cfg := r.config()

	msg := &transport.Message{ID: 1, ChatID: 7, FromID: 7, FromName: "Иван", Text: "/start"}
	require.NoError(t, r.handleMessage(context.Background(), cfg, msg))

	known, _ := store.IsKnown(context.Background(), 7)
	assert.True(t, known)
	require.Len(t, adapter.sent, 1)
	assert.Contains(t, adapter.sent[0], "Ас-саляму алейкум")
	assert.Contains(t, adapter.sent[0], "Иван")
	require.NotNil(t, adapter.markups[0])
	assert.NotNil(t, adapter.markups[0].ReplyMarkupAdapter)

	// second /start must not duplicate the user
	require.NoError(t, r.handleMessage(context.Background(), cfg, msg))
	ids, _ := store.ListUsers(context.Background())
	assert.Equal(t, []int64{7}, ids)
}

func TestToggleCommand(t *testing.T) {
	r, store, adapter, _ := newTestRouter()
	cfg := r.config()
	require.NoError(t, store.AddUser(context.Background(), 7))

	msg := &transport.Message{ChatID: 7, FromID: 7, Text: "/change_mailing_status"}
	require.NoError(t, r.handleMessage(context.Background(), cfg, msg))
	subscribed, _ := store.MailingStatus(context.Background(), 7)
	assert.True(t, subscribed)
	require.Len(t, adapter.sent, 1)
	assert.Equal(t, "Вы подписались на рассылку", adapter.sent[0])

	require.NoError(t, r.handleMessage(context.Background(), cfg, msg))
	subscribed, _ = store.MailingStatus(context.Background(), 7)
	assert.False(t, subscribed)
	assert.Equal(t, "Вы отписались от рассылки", adapter.sent[1])
}

func TestToggleCallbackEditsKeyboard(t *testing.T) {
	r, store, adapter, _ := newTestRouter()
	cfg := r.config()
	require.NoError(t, store.AddUser(context.Background(), 7))

	cb := &transport.Callback{ID: "cb1", FromID: 7, ChatID: 7, MessageID: 5, Data: "mailing", MessageText: "приветствие"}
	require.NoError(t, r.handleCallback(context.Background(), cfg, cb))

	assert.Equal(t, []string{"cb1"}, adapter.answered)
	require.Len(t, adapter.edits, 1)
	assert.Equal(t, transport.MessageRef{ChatID: 7, MessageID: 5}, adapter.edits[0])
	require.Len(t, adapter.sent, 1)
	assert.Equal(t, "Вы подписались на рассылку", adapter.sent[0])
}

func TestAdminPassthroughTargetsEveryone(t *testing.T) {
	r, store, _, bc := newTestRouter()
	cfg := r.config()
	require.NoError(t, store.AddUser(context.Background(), 1))
	require.NoError(t, store.AddUser(context.Background(), 2))
	_, err := store.ToggleMailing(context.Background(), 1) // only user 1 subscribed
	require.NoError(t, err)

	msg := &transport.Message{ID: 42, ChatID: 99, FromID: 99, Text: "Объявление", HasMedia: false}
	require.NoError(t, r.handleMessage(context.Background(), cfg, msg))

	require.Equal(t, 1, bc.calls)
	assert.Equal(t, []transport.ChatTarget{{ChatID: 1}, {ChatID: 2}}, bc.targets)
	assert.Equal(t, transport.MessageRef{ChatID: 99, MessageID: 42}, bc.ref)
}

func TestNonAdminTextIgnored(t *testing.T) {
	r, store, adapter, bc := newTestRouter()
	cfg := r.config()
	require.NoError(t, store.AddUser(context.Background(), 7))

	msg := &transport.Message{ChatID: 7, FromID: 7, Text: "просто сообщение"}
	require.NoError(t, r.handleMessage(context.Background(), cfg, msg))
	assert.Zero(t, bc.calls)
	assert.Empty(t, adapter.sent)
}

func TestCommandParsing(t *testing.T) {
	assert.Equal(t, "start", command("/start"))
	assert.Equal(t, "start", command("/start@ummabot"))
	assert.Equal(t, "change_mailing_status", command("/change_mailing_status"))
	assert.Equal(t, "", command("start"))
	assert.Equal(t, "", command(""))
}
