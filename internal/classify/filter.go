package classify

import (
	"interview-engine/internal/lexicon"
)

// Reject reports whether a message is known non-recruiting mail and why.
// Hard-negative terms are checked in subject and sender, bulk-sender
// patterns in the sender, and multi-word financial-statement phrases in the
// body.
// Nothing downstream can override a rejection.
func Reject(lx *lexicon.Lexicon, sender, subject, body string) (reject bool, reason string) {
	if term, ok := lx.HardNegative.First(subject); ok {
		return true, "subject:" + term
	}
	if term, ok := lx.HardNegative.First(sender); ok {
		return true, "sender:" + term
	}
	if term, ok := lx.BulkSenders.First(sender); ok {
		return true, "bulk_sender:" + term
	}
	if term, ok := lx.BodyNegative.First(body); ok {
		return true, "body:" + term
	}
	return false, ""
}
