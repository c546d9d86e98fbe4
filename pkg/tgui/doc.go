// Package tgui provides small Telegram UI helpers: inline keyboard builders
// and text utilities shared by command handlers.
package tgui
