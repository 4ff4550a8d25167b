// Package listen provides the capture collaborators: sources that turn
// typed lines, microphone speech or audio files into utterance text.
package listen

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	log "log/slog"

	"github.com/PianoMan0/Forte/internal/audio"
	"github.com/PianoMan0/Forte/internal/notify"
	"github.com/PianoMan0/Forte/internal/voice"
	"github.com/PianoMan0/Forte/pkg/audioconv"
	"github.com/PianoMan0/Forte/pkg/stt"
)

// Capture outcomes the dispatch loop recovers from locally.
var (
	// ErrNoSpeech means the microphone heard nothing before the phrase cap.
	ErrNoSpeech = errors.New("no speech detected")
	// ErrUnintelligible means audio arrived but produced no text.
	ErrUnintelligible = errors.New("speech not recognized")
)

// Captor acquires the next utterance. io.EOF ends the input stream.
type Captor interface {
	Capture(ctx context.Context) (string, error)
}

// TextCaptor reads utterances line by line.
type TextCaptor struct {
	sc     *bufio.Scanner
	prompt io.Writer
}

// NewTextCaptor reads from r, printing a prompt to w before each line.
// w may be nil.
func NewTextCaptor(r io.Reader, w io.Writer) *TextCaptor {
	return &TextCaptor{sc: bufio.NewScanner(r), prompt: w}
}

func (t *TextCaptor) Capture(ctx context.Context) (string, error) {
	if t.prompt != nil {
		fmt.Fprint(t.prompt, "> ")
	}
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return t.sc.Text(), nil
}

// VoiceCaptor records a phrase from the microphone and transcribes it.
// It never opens the microphone while the turn-taking gate is set.
type VoiceCaptor struct {
	rec   *audio.Recorder
	tr    *stt.Transcriber
	gate  *voice.Gate
	chime *notify.Chime
	lang  string
}

// NewVoiceCaptor wires the voice capture path. chime may be nil.
func NewVoiceCaptor(rec *audio.Recorder, tr *stt.Transcriber, gate *voice.Gate, chime *notify.Chime, lang string) *VoiceCaptor {
	return &VoiceCaptor{rec: rec, tr: tr, gate: gate, chime: chime, lang: lang}
}

func (v *VoiceCaptor) Capture(ctx context.Context) (string, error) {
	if err := v.gate.AwaitQuiet(ctx); err != nil {
		return "", err
	}

	if v.chime != nil {
		if err := v.chime.Play(); err != nil {
			log.Debug("chime failed", "err", err)
		}
	}

	log.Debug("listening")
	pcm, err := v.rec.Record(ctx)
	if err != nil {
		return "", fmt.Errorf("record: %w", err)
	}
	if len(pcm) < audio.SampleRate/4 { // under 250ms of speech
		return "", ErrNoSpeech
	}

	tctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	res, err := v.tr.Transcribe(tctx, pcm, stt.Options{Language: v.lang})
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		return "", ErrUnintelligible
	}

	log.Debug("transcribed", "text", text, "lang", res.Language)
	return text, nil
}

// FileCaptor yields a single utterance transcribed from an audio file,
// then reports end of input.
type FileCaptor struct {
	path string
	tr   *stt.Transcriber
	lang string
	done bool
}

// NewFileCaptor transcribes one wav/mp3/ogg file as the only utterance.
func NewFileCaptor(path string, tr *stt.Transcriber, lang string) *FileCaptor {
	return &FileCaptor{path: path, tr: tr, lang: lang}
}

func (f *FileCaptor) Capture(ctx context.Context) (string, error) {
	if f.done {
		return "", io.EOF
	}
	f.done = true

	pcm, err := audioconv.DecodeFile(f.path)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", f.path, err)
	}

	res, err := f.tr.Transcribe(ctx, pcm, stt.Options{Language: f.lang})
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", f.path, err)
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}
