package answer

import (
	"strings"
	"time"
)

// greetingLexicon holds the conversational openers that short-circuit
// retrieval. Matching is case-insensitive against the trimmed query and
// against its leading one or two words, so "hello" and "hi there" both
// match while "what is INC0010023" never does.
var greetingLexicon = map[string]bool{
	"hi":             true,
	"hello":          true,
	"hey":            true,
	"howdy":          true,
	"greetings":      true,
	"good morning":   true,
	"good afternoon": true,
	"good evening":   true,
	"good day":       true,
}

func isGreeting(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	q = strings.TrimRight(q, "!.,?")
	if q == "" {
		return false
	}
	if greetingLexicon[q] {
		return true
	}
	words := strings.Fields(q)
	first := strings.TrimRight(words[0], "!.,?")
	if greetingLexicon[first] {
		return true
	}
	if len(words) >= 2 {
		second := strings.TrimRight(words[1], "!.,?")
		if greetingLexicon[first+" "+second] {
			return true
		}
	}
	return false
}

// greetingAnswer returns the canned reply for small talk. The
// salutation follows the local time of day so the bot does not say
// "good morning" at night.
func greetingAnswer(now time.Time) string {
	var salutation string
	switch h := now.Hour(); {
	case h < 12:
		salutation = "Good morning!"
	case h < 18:
		salutation = "Good afternoon!"
	default:
		salutation = "Good evening!"
	}
	return salutation + " I'm your incident assistant. How can I help you with incident management today?"
}
