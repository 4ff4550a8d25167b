package skills

import "math/rand/v2"

// Jokes serves a random programmer joke.
type Jokes struct {
	items []string
}

func NewJokes() *Jokes {
	return &Jokes{items: []string{
		"Why don't programmers like nature? It has too many bugs.",
		"Why don't Python programmers like to play hide and seek? Because good luck hiding when they can just import os and find you.",
		"I've heard AI is going to take over the world. Just what I need, more work.",
	}}
}

func (j *Jokes) Random() string {
	return j.items[rand.IntN(len(j.items))]
}
