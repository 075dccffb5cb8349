// Package request classifies inbound messages into flair requests.
package request

import (
	"strings"
)

// Subjects the bot answers to, compared after trimming and case-folding.
const (
	subjectScoreBased = "flair me"
	subjectTextOnly   = "change flair text"
)

// Message is one unread inbound message. Author is empty for messages with
// no resolvable author, e.g. system or mod-invite mail.
type Message struct {
	ID      string
	Author  string
	Subject string
	Body    string
}

// Kind is the declared intent of a request.
type Kind string

// Request kinds.
const (
	KindScoreBased Kind = "score_based"
	KindTextOnly   Kind = "text_only"
)

// Request is an accepted message with its classified intent.
type Request struct {
	Kind    Kind
	Message Message
}

// Batch is the result of classifying one inbox fetch. TextOnly requests are
// processed before ScoreBased ones; Discarded holds the ids of messages to
// mark read up front with no reply.
type Batch struct {
	TextOnly   []Request
	ScoreBased []Request
	Discarded  []string
}

// Classify splits messages into accepted requests and discards. At most one
// request of each kind is honored per author; the first occurrence in the
// batch wins and later duplicates are discarded. Messages without an author
// or with an unrecognized subject are discarded too.
func Classify(msgs []Message) Batch {
	var b Batch
	seenScore := make(map[string]bool)
	seenText := make(map[string]bool)

	for _, m := range msgs {
		if m.Author == "" {
			b.Discarded = append(b.Discarded, m.ID)
			continue
		}
		switch strings.ToLower(strings.TrimSpace(m.Subject)) {
		case subjectScoreBased:
			if seenScore[m.Author] {
				b.Discarded = append(b.Discarded, m.ID)
				continue
			}
			seenScore[m.Author] = true
			b.ScoreBased = append(b.ScoreBased, Request{Kind: KindScoreBased, Message: m})
		case subjectTextOnly:
			if seenText[m.Author] {
				b.Discarded = append(b.Discarded, m.ID)
				continue
			}
			seenText[m.Author] = true
			b.TextOnly = append(b.TextOnly, Request{Kind: KindTextOnly, Message: m})
		default:
			b.Discarded = append(b.Discarded, m.ID)
		}
	}
	return b
}

// FirstLine extracts the display text from a text-only request body: the
// first line, trimmed of surrounding whitespace. Later lines are ignored.
func FirstLine(body string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(body), "\n")
	return strings.TrimSpace(line)
}
