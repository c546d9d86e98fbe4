// Package storage persists the bot's two durable sets:
//
//   - known users and their mailing opt-in flag
//   - dua links that have already been mailed out (never repeated)
package storage
