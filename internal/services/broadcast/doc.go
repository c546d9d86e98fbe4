// Package broadcast provides a fan-out message broadcaster.
//
// The broadcaster is used when the same content needs to be delivered to many
// chat targets with bounded concurrency and rate limiting.
//
// Two job kinds exist. A content job carries rendered text plus an optional
// picture; when the text exceeds Telegram's caption limit the picture is sent
// bare and the text follows as a separate message. A passthrough job forwards
// an existing message verbatim via copy, so media, formatting and captions
// survive untouched.
//
// Delivery is best-effort. A failed send is logged and counted against the
// job, and the remaining targets are still attempted.
package broadcast
