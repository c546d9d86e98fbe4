package content

import "errors"

var (
	// ErrNoCitation means a hadith document's citation paragraph normalized
	// to an empty string. Such an item is not deliverable; the run is skipped.
	ErrNoCitation = errors.New("hadith citation missing")

	// ErrExhausted means every dua candidate has already been mailed out.
	// Fatal for the run; there is nothing left to select.
	ErrExhausted = errors.New("no unposted dua links remain")

	// ErrMismatch means an expected element or text marker was absent from a
	// fetched document (upstream layout change).
	ErrMismatch = errors.New("document structure mismatch")
)
