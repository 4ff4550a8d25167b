package skills

import "math/rand/v2"

// Facts serves a random computing fact.
type Facts struct {
	items []string
}

func NewFacts() *Facts {
	return &Facts{items: []string{
		"The first computer mouse was made of wood!",
		"The first computer virus was created in 1983!",
		"The first computer programmer was Ada Lovelace!",
	}}
}

func (f *Facts) Random() string {
	return f.items[rand.IntN(len(f.items))]
}
