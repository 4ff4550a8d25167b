// Package audio captures microphone input and manages playback volume of
// other applications while the assistant is busy.
package audio

import (
	"context"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

// SampleRate is what the speech-to-text model expects: 16 kHz mono.
const SampleRate = 16000

const (
	frameSize        = 320 // 20ms at 16 kHz
	frameMillis      = 20
	silenceThreshRMS = 0.015
	silenceCutoff    = 600 * time.Millisecond
)

// Recorder reads voice-activity-delimited phrases from the default input
// device.
type Recorder struct {
	// MaxPhrase caps a single capture; zero means 10 seconds.
	MaxPhrase time.Duration
}

// NewRecorder creates a recorder. Init must be called before recording.
func NewRecorder() *Recorder { return &Recorder{} }

// Init initializes the audio backend.
func (r *Recorder) Init() error { return portaudio.Initialize() }

// Close releases the audio backend.
func (r *Recorder) Close() { portaudio.Terminate() }

// Record waits for speech, records until the speaker falls silent, and
// returns mono 16 kHz samples. An empty slice means no speech arrived
// before the phrase cap.
func (r *Recorder) Record(ctx context.Context) ([]float32, error) {
	maxPhrase := r.MaxPhrase
	if maxPhrase <= 0 {
		maxPhrase = 10 * time.Second
	}

	buf := make([]float32, frameSize)
	out := make([]float32, 0, SampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking      bool
		silenceFrames int
	)
	maxFrames := int(maxPhrase.Milliseconds()) / frameMillis

	for i := 0; i < maxFrames; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}

		if frameRMS(buf) > silenceThreshRMS {
			speaking = true
			silenceFrames = 0
			out = append(out, buf...)
			continue
		}
		if !speaking {
			continue
		}
		silenceFrames++
		if time.Duration(silenceFrames*frameMillis)*time.Millisecond >= silenceCutoff {
			break
		}
		out = append(out, buf...)
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
