// Package tts renders text audibly through espeak-ng.
package tts

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Espeak shells out to the espeak-ng binary for each message.
type Espeak struct {
	Binary string
	Voice  string
	Speed  int // words per minute
}

// New creates a renderer with sensible defaults.
func New(voice string) *Espeak {
	if voice == "" {
		voice = "en"
	}
	return &Espeak{Binary: "espeak-ng", Voice: voice, Speed: 165}
}

// Render speaks one message and blocks until playback finishes.
func (e *Espeak) Render(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	cmd := exec.Command(e.Binary, "-v", e.Voice, "-s", strconv.Itoa(e.Speed), text)
	var errOut bytes.Buffer
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(errOut.String())
		if detail != "" {
			return fmt.Errorf("%s: %s: %w", e.Binary, detail, err)
		}
		return fmt.Errorf("%s: %w", e.Binary, err)
	}
	return nil
}
