package bot

import (
	"context"
	"fmt"

	"ummabot/internal/transport"
	"ummabot/pkg/logx"
	"ummabot/pkg/tgui"
)

const mailingCallback = "mailing"

const (
	subscribeLabel   = "Подписаться на рассылку"
	unsubscribeLabel = "Отписаться от рассылки"
	contactLabel     = "Связаться с администратором"

	subscribedReply   = "Вы подписались на рассылку"
	unsubscribedReply = "Вы отписались от рассылки"
)

const greetingTmpl = `Ас-саляму алейкум (اَلسَّلَامُ عَلَيْكُمُ), %s

Данный бот поможет вам:
▫️ укрепить иман
▫️ узнать подробнее про религию
▫️ не сходить с верного пути

С помощью этого бота вы сможете получать ежедневную рассылку с хадисами и дуа`

/// greetingKeyboard builds the two-button inline keyboard: contact link plus
// the mailing toggle matching the user's current status.
func greetingKeyboard(cfg Config, subscribed bool) *tgui.Inline {
	mailingLabel := subscribeLabel
	if subscribed {
		mailingLabel = unsubscribeLabel
	}
	return tgui.NewInline().Row(
		tgui.URLBtn(contactLabel, cfg.ContactURL),
		tgui.Btn(mailingLabel, mailingCallback),
	)
}

func (r *Router) handleStart(ctx context.Context, cfg Config, msg *transport.Message) error {
	known, err := r.store.IsKnown(ctx, msg.FromID)
	if err != nil {
		return fmt.Errorf("bot: lookup user: %w", err)
	}
	if !known {
		if err := r.store.AddUser(ctx, msg.FromID); err != nil {
			return fmt.Errorf("bot: add user: %w", err)
		}
		r.log.Info("new user registered", logx.Int64("user_id", msg.FromID))
	}
	subscribed, err := r.store.MailingStatus(ctx, msg.FromID)
	if err != nil {
		return fmt.Errorf("bot: mailing status: %w", err)
	}

	name := tgui.TruncRunes(msg.FromName, 64)
	text := fmt.Sprintf(greetingTmpl, name)
	opt := &transport.SendOptions{ReplyMarkupAdapter: greetingKeyboard(cfg, subscribed).Markup()}
	_, err = r.adapter.SendText(ctx, transport.ChatTarget{ChatID: msg.ChatID}, text, opt)
	return err
}

// toggleMailing flips the user's subscription. cb is non-nil when triggered
// from the inline button; the original greeting keyboard is then re-rendered
// in place.
func (r *Router) toggleMailing(ctx context.Context, cfg Config, userID int64, cb *transport.Callback) error {
	subscribed, err := r.store.ToggleMailing(ctx, userID)
	if err != nil {
		return fmt.Errorf("bot: toggle mailing: %w", err)
	}
	reply := unsubscribedReply
	if subscribed {
		reply = subscribedReply
	}

	if cb != nil {
		if err := r.adapter.AnswerCallback(ctx, cb.ID, ""); err != nil {
			r.log.Warn("callback answer failed", logx.Err(err))
		}
		ref := transport.MessageRef{ChatID: cb.ChatID, MessageID: cb.MessageID}
		opt := &transport.SendOptions{ReplyMarkupAdapter: greetingKeyboard(cfg, subscribed).Markup()}
		if err := r.adapter.EditText(ctx, ref, cb.MessageText, opt); err != nil {
			r.log.Warn("keyboard refresh failed", logx.Err(err))
		}
	}

	_, err = r.adapter.SendText(ctx, transport.ChatTarget{ChatID: userID}, reply, nil)
	return err
}
