package transport

import "context"

type UpdateKind string

const (
	UpdateMessage  UpdateKind = "message"
	UpdateCallback UpdateKind = "callback"
)

// Update is the tagged variant handed to the command router: either an
// incoming message or an inline-button press.
type Update struct {
	Kind     UpdateKind
	Message  *Message
	Callback *Callback
}

type Message struct {
	ID       int
	ChatID   int64
	FromID   int64
	FromName string // sender's display name (for greetings)
	Text     string

	// HasMedia is set for non-text content (photo, video, document, sticker,
	// voice). The payload itself stays on the platform; such messages are only
	// ever re-delivered via CopyMessage.
	HasMedia bool
}

type Callback struct {
	ID        string
	FromID    int64
	ChatID    int64
	MessageID int
	Data      string

	// MessageText is the text of the message the button is attached to,
	// needed to re-render its inline keyboard in place.
	MessageText string
}

type ChatTarget struct {
	ChatID int64
}

type MessageRef struct {
	ChatID    int64
	MessageID int
}

type SendOptions struct {
	ParseMode          string
	DisablePreview     bool
	ReplyMarkupAdapter any // adapter-specific markup (Telegram: *telebot.ReplyMarkup)
}

// Adapter is the messaging-platform client consumed by the rest of the bot.
type Adapter interface {
	Start(ctx context.Context, out chan<- Update) error
	Stop(ctx context.Context) error

	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error)

	// SendPhoto uploads the image at path. A non-empty caption is subject to
	// the platform's caption length limit; callers split oversized captions
	// into a separate SendText.
	SendPhoto(ctx context.Context, to ChatTarget, path, caption string, opt *SendOptions) (MessageRef, error)

	// CopyMessage re-sends an existing message verbatim (platform-side copy,
	// any content type) without a forward header.
	CopyMessage(ctx context.Context, to ChatTarget, ref MessageRef) error

	EditText(ctx context.Context, ref MessageRef, text string, opt *SendOptions) error
	AnswerCallback(ctx context.Context, callbackID string, text string) error
}
