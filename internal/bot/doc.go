// Package bot routes incoming Telegram updates: the /start greeting, the
// mailing subscription toggle (command and inline button) and the operator's
// passthrough broadcasts.
package bot
