package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"github.com/PianoMan0/Forte/internal/assistant"
	"github.com/PianoMan0/Forte/internal/audio"
	"github.com/PianoMan0/Forte/internal/ipc"
	"github.com/PianoMan0/Forte/internal/listen"
	"github.com/PianoMan0/Forte/internal/notify"
	"github.com/PianoMan0/Forte/internal/proxy"
	"github.com/PianoMan0/Forte/internal/remote"
	"github.com/PianoMan0/Forte/internal/session"
	"github.com/PianoMan0/Forte/internal/skills"
	"github.com/PianoMan0/Forte/internal/store"
	"github.com/PianoMan0/Forte/internal/tasks"
	"github.com/PianoMan0/Forte/internal/tts"
	"github.com/PianoMan0/Forte/internal/voice"
	"github.com/PianoMan0/Forte/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

const (
	defaultAIBaseURL = "https://ai.hackclub.com/proxy/v1"
	defaultAIModel   = "qwen/qwen3-32b"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	textMode := cli.BoolP("text", "t", false, "Read commands from stdin instead of the microphone")
	audioFile := cli.StringP("audio", "a", "", "Transcribe one audio file (wav/mp3/ogg) as the only command")
	noTTS := cli.Bool("no-tts", false, "Disable spoken responses")
	voiceName := cli.String("voice", "en", "espeak-ng voice")
	proxyAddr := cli.StringP("proxy", "p", "", "SOCKS proxy address for outbound HTTP")
	dataDir := cli.StringP("data", "d", defaultDataDir(), "Directory for reminders, notes and the transcript")
	listenAddr := cli.String("listen", "", "Serve the remote text gateway on this address (e.g. :8092)")
	modelPath := cli.StringP("model", "m", "third_party/whisper.cpp/models/ggml-base.en.bin", "Whisper model path")
	lang := cli.String("lang", "en", "Speech recognition language")
	chimePath := cli.String("chime", "", "Chime mp3 played before listening")
	duck := cli.Bool("duck", false, "Duck other audio streams while speaking")
	privileged := cli.Bool("privileged", false, "Allow privileged meta-commands like !export")
	cli.Parse()

	level := new(log.LevelVar)
	level.Set(logLevelMap[*logLevel])
	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: level,
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)

	httpClient, err := proxy.NewClient(*proxyAddr)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
		os.Exit(1)
	}

	st, err := store.Open(*dataDir)
	if err != nil {
		log.Error("Failed to open data dir", "dir", *dataDir, "err", err)
		os.Exit(1)
	}

	log.Debug("Loaded store", "dir", *dataDir)

	sess := session.New(level)
	sess.TTS = !*noTTS
	sess.Privileged = *privileged

	gate := voice.NewGate()
	var renderer voice.Renderer
	if !*noTTS {
		renderer = tts.New(*voiceName)
	}
	speaker := voice.NewSpeaker(gate, os.Stdout, renderer, st)
	if *duck {
		speaker.SetDucker(audio.NewDucker([]string{"espeak", "espeak-ng", "forte"}, 20))
	}

	set := buildSkills(st, httpClient)
	if err := set.Notes.Load(); err != nil {
		log.Warn("Failed to load notes", "err", err)
	}

	// The assistant does not exist yet when the background tasks are
	// built, so announcements go through a late-bound closure.
	var asst *assistant.Assistant
	announce := func(msg string) { asst.Emit(msg) }

	rm := tasks.NewReminders(st, announce)
	tm := tasks.NewTimers(tasks.DefaultTimerLimit, announce)

	asst = assistant.New(assistant.Deps{
		Session:    sess,
		Speaker:    speaker,
		Transcript: st,
		Skills:     set,
		Reminders:  rm,
		Timers:     tm,
	})

	if err := rm.Load(); err != nil {
		log.Warn("Failed to load reminders", "err", err)
	}

	if err := ipc.StartServer(func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case "say":
			asst.Submit(msg.Arg)
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	}); err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	if *listenAddr != "" {
		gw := remote.NewGateway(asst.Submit)
		asst.Notify(gw.Reply)
		go func() {
			if err := gw.ListenAndServe(*listenAddr); err != nil {
				log.Error("Remote gateway failed", "err", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	captor, cleanup, err := buildCaptor(*textMode, *audioFile, *modelPath, *lang, *chimePath, gate)
	if err != nil {
		log.Error("Failed to set up input", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	log.Info("Boot up - successful")

	asst.Emit("Hello! How can I help you today?")
	asst.AttachCaptor(ctx, captor)

	if err := asst.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Assistant stopped", "err", err)
		os.Exit(1)
	}
	log.Info("Shutting down")
}

func buildSkills(st *store.Store, httpClient *http.Client) *skills.Set {
	set := &skills.Set{
		Jokes:    skills.NewJokes(),
		Facts:    skills.NewFacts(),
		Notes:    skills.NewNotes(st),
		Wiki:     skills.NewWikipedia(httpClient),
		Weather:  skills.NewOpenMeteo(httpClient),
		Currency: skills.NewFrankfurter(httpClient),
		Dict:     skills.NewDictionaryAPI(httpClient),
		Trans:    skills.NewMyMemory(httpClient),
		News:     skills.NewHackerNews(httpClient),
	}

	if apiKey := os.Getenv("OPENROUTER_API_KEY"); apiKey != "" {
		baseURL := os.Getenv("OPENROUTER_URL")
		if baseURL == "" {
			baseURL = defaultAIBaseURL
		}
		model := os.Getenv("OPENROUTER_MODEL")
		if model == "" {
			model = defaultAIModel
		}
		set.AI = skills.NewAI(apiKey, baseURL, model, httpClient)
		log.Debug("AI fallback enabled", "model", model)
	} else {
		log.Debug("OPENROUTER_API_KEY not set, AI fallback disabled")
	}
	return set
}

// buildCaptor picks the input source. Voice capture needs the whisper
// model and a working microphone; both failures are fatal rather than
// silently degrading to text.
func buildCaptor(textMode bool, audioFile, modelPath, lang, chimePath string, gate *voice.Gate) (listen.Captor, func(), error) {
	noop := func() {}

	if textMode {
		return listen.NewTextCaptor(os.Stdin, os.Stdout), noop, nil
	}

	whisper, err := stt.NewTranscriber(modelPath)
	if err != nil {
		return nil, noop, err
	}

	if audioFile != "" {
		return listen.NewFileCaptor(audioFile, whisper, lang), func() { whisper.Close() }, nil
	}

	rec := audio.NewRecorder()
	if err := rec.Init(); err != nil {
		whisper.Close()
		return nil, noop, err
	}
	cleanup := func() {
		rec.Close()
		whisper.Close()
	}

	var chime *notify.Chime
	if chimePath != "" {
		chime = notify.NewChime(chimePath)
	}
	return listen.NewVoiceCaptor(rec, whisper, gate, chime, lang), cleanup, nil
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "forte")
	}
	return "forte-data"
}
