package tgui

import (
	tele "gopkg.in/telebot.v4"
)

// Inline accumulates rows of inline-keyboard buttons and produces the
// telebot reply markup for them.
type Inline struct {
	rm   *tele.ReplyMarkup
	rows []tele.Row
}

func NewInline() *Inline {
	return &Inline{rm: &tele.ReplyMarkup{}}
}

// Row appends one keyboard row.
func (i *Inline) Row(btns ...tele.Btn) *Inline {
	i.rows = append(i.rows, i.rm.Row(btns...))
	return i
}

// Markup lays out the accumulated rows and returns the reply markup.
func (i *Inline) Markup() *tele.ReplyMarkup {
	i.rm.Inline(i.rows...)
	return i.rm
}

// Btn is a callback button carrying raw callback_data.
func Btn(text, data string) tele.Btn {
	return tele.Btn{Text: text, Data: data}
}

// URLBtn is a link button.
func URLBtn(text, url string) tele.Btn {
	return tele.Btn{Text: text, URL: url}
}
