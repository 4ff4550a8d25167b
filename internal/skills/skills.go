// Package skills holds the content handlers and outbound collaborators.
// Every collaborator takes validated slot-extractor output and returns a
// display string or an error; retry and timeout policy live inside each
// collaborator, never in the dispatch engine.
package skills

import "context"

// Encyclopedia answers topic lookups.
type Encyclopedia interface {
	Summary(ctx context.Context, topic string) (string, error)
}

// Forecaster reports current weather for a place name.
type Forecaster interface {
	Current(ctx context.Context, place string) (string, error)
}

// Converter converts an amount between two currency codes.
type Converter interface {
	Convert(ctx context.Context, amount float64, from, to string) (string, error)
}

// Dictionary defines a single word.
type Dictionary interface {
	Define(ctx context.Context, word string) (string, error)
}

// Translator translates a phrase into a target language.
type Translator interface {
	Translate(ctx context.Context, phrase, language string) (string, error)
}

// Headlines fetches current news headlines.
type Headlines interface {
	Top(ctx context.Context) (string, error)
}

// Responder answers free-form prompts no rule claimed.
type Responder interface {
	Reply(ctx context.Context, prompt string) (string, error)
}

// Set bundles every skill the rule table can reach. Nil collaborators
// disable their intent gracefully.
type Set struct {
	Jokes    *Jokes
	Facts    *Facts
	Notes    *Notes
	Wiki     Encyclopedia
	Weather  Forecaster
	Currency Converter
	Dict     Dictionary
	Trans    Translator
	News     Headlines
	AI       Responder
}
