// Package intent maps normalized utterance text to exactly one handler.
//
// The rule table is an explicit ordered list: first rule whose predicate
// matches and whose slot extractor succeeds wins. The table is append-only
// during initialization and read-only afterwards.
package intent

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Utterance is one piece of user input, immutable once created.
type Utterance struct {
	Raw  string
	Norm string
	At   time.Time
}

// NewUtterance normalizes raw input: trim, lower-case, then a single
// whole-word alias substitution pass.
func NewUtterance(raw string, aliases map[string]string) Utterance {
	return Utterance{Raw: raw, Norm: Normalize(raw, aliases), At: time.Now()}
}

// Normalize lower-cases and trims text and substitutes aliases for their
// canonical phrases. Aliases match whole words only.
func Normalize(raw string, aliases map[string]string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if len(aliases) == 0 {
		return s
	}
	words := strings.Fields(s)
	for i, w := range words {
		if canon, ok := aliases[w]; ok {
			words[i] = canon
		}
	}
	return strings.Join(words, " ")
}

// Request carries one utterance plus the slots its rule extracted.
type Request struct {
	Raw   string
	Norm  string
	Slots any
}

// Response is what a handler hands back to the dispatch loop.
type Response struct {
	Text string
	Exit bool
}

// Handler executes one classified intent.
type Handler func(ctx context.Context, req Request) (Response, error)

// Predicate decides whether a rule applies to normalized text.
type Predicate func(norm string) bool

// Extractor pulls the rule's slots out of normalized text. Returning
// ok=false means the predicate matched but the arguments did not parse.
type Extractor func(norm string) (any, bool)

// MissPolicy declares what a rule does when its predicate matches but
// slot extraction fails.
type MissPolicy int

const (
	// FallThrough lets later rules (or the fallback) try the utterance.
	FallThrough MissPolicy = iota
	// Hint stops routing and answers with the rule's usage hint.
	Hint
)

// Rule is one entry of the ordered intent table.
type Rule struct {
	Name    string
	Match   Predicate
	Extract Extractor // nil when the rule takes no slots
	OnMiss  MissPolicy
	Hint    string
	Handle  Handler
}

// ContainsAny reports whether any of the given phrases occurs in the text.
func ContainsAny(phrases ...string) Predicate {
	return func(norm string) bool {
		for _, p := range phrases {
			if strings.Contains(norm, p) {
				return true
			}
		}
		return false
	}
}

// Contains matches a single substring.
func Contains(phrase string) Predicate {
	return func(norm string) bool { return strings.Contains(norm, phrase) }
}

// HasPrefix matches text starting with the given phrase.
func HasPrefix(phrase string) Predicate {
	return func(norm string) bool { return strings.HasPrefix(norm, phrase) }
}

// Equals matches the exact normalized text.
func Equals(phrase string) Predicate {
	return func(norm string) bool { return norm == phrase }
}

// HasWord matches any of the given tokens as whole words, so short
// greetings like "hi" do not fire inside longer words.
func HasWord(words ...string) Predicate {
	return func(norm string) bool {
		for _, f := range strings.Fields(norm) {
			f = strings.Trim(f, ".,!?")
			for _, w := range words {
				if f == w {
					return true
				}
			}
		}
		return false
	}
}

// Matches applies a regular expression to the normalized text.
func Matches(pattern string) Predicate {
	re := regexp.MustCompile(pattern)
	return func(norm string) bool { return re.MatchString(norm) }
}
