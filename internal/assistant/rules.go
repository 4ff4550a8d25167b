package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "log/slog"

	"github.com/PianoMan0/Forte/internal/intent"
	"github.com/PianoMan0/Forte/internal/session"
	"github.com/PianoMan0/Forte/internal/skills"
	"github.com/PianoMan0/Forte/internal/slots"
	"github.com/PianoMan0/Forte/internal/tasks"
)

// defaultAliases maps short phrases to their canonical form before the
// rule table sees the text.
var defaultAliases = map[string]string{
	"hullo": "hello",
	"yo":    "hey",
	"thx":   "thanks",
	"ty":    "thanks",
	"bye":   "goodbye",
	"cya":   "goodbye",
	"wiki":  "wikipedia",
}

const helpText = "Available commands: hello, how are you, time, calculate <expr>, " +
	"tell me a joke, tell me a fact, remind me in <n> minutes to <task>, list reminders, " +
	"set a timer for <n> seconds, search wikipedia for <query>, convert <amount> <ccy> to <ccy>, " +
	"weather in <place>, translate <phrase> to <language>, define <word>, news, " +
	"take a note <text>, list notes, delete note <id>, goodbye. " +
	"Meta: !history, !clear, !export, !verbose."

// buildRouter assembles the ordered rule table. Registration order is
// the priority order and is part of the contract: the greeting check
// precedes the generic thanks check, the timer rule precedes the
// time-of-day rule, and so on.
func buildRouter(d Deps) *intent.Router {
	r := intent.NewRouter(fallbackHandler(d.Skills))
	r.AddMeta(metaRules(d.Session)...)

	say := func(text string) intent.Handler {
		return func(context.Context, intent.Request) (intent.Response, error) {
			return intent.Response{Text: text}, nil
		}
	}

	r.Add(
		intent.Rule{
			Name:   "help",
			Match:  intent.Equals("help"),
			Handle: say(helpText),
		},
		intent.Rule{
			Name:   "greeting",
			Match:  intent.HasWord("hello", "hi", "hey", "sup", "greetings"),
			Handle: say("Hello!"),
		},
		intent.Rule{
			Name:   "how-are-you",
			Match:  intent.Contains("how are you"),
			Handle: say("I'm doing well, thank you for asking!"),
		},
		intent.Rule{
			Name:   "meow",
			Match:  intent.HasWord("meow"),
			Handle: say("Are you a cat? What the sigma, I like cats."),
		},
		intent.Rule{
			Name:   "name",
			Match:  intent.ContainsAny("what is your name", "who are you"),
			Handle: say("I am Forte"),
		},
		intent.Rule{
			Name:   "thanks",
			Match:  intent.Contains("thanks"),
			Handle: say("You're welcome!"),
		},
		intent.Rule{
			Name:  "goodbye",
			Match: intent.HasWord("goodbye", "exit", "quit"),
			Handle: func(context.Context, intent.Request) (intent.Response, error) {
				return intent.Response{Text: "Goodbye! Have a great day!", Exit: true}, nil
			},
		},
		intent.Rule{
			Name:   "reminder-list",
			Match:  intent.ContainsAny("list reminders", "show reminders"),
			Handle: reminderListHandler(d.Reminders),
		},
		intent.Rule{
			Name:    "reminder-add",
			Match:   intent.Contains("remind me"),
			Extract: func(n string) (any, bool) { return slots.Reminder(n) },
			OnMiss:  intent.Hint,
			Hint:    "Sorry, I couldn't understand that reminder command. Try: remind me in 5 minutes to check the oven.",
			Handle:  reminderAddHandler(d.Reminders),
		},
		intent.Rule{
			Name:    "timer",
			Match:   intent.Contains("timer"),
			Extract: func(n string) (any, bool) { return slots.Timer(n) },
			OnMiss:  intent.Hint,
			Hint:    "Try: set a timer for 30 seconds.",
			Handle:  timerHandler(d.Timers),
		},
		intent.Rule{
			Name:   "time",
			Match:  intent.HasWord("time"),
			Handle: timeHandler(),
		},
		intent.Rule{
			Name:   "calculate",
			Match:  intent.Contains("calculate"),
			Handle: calcHandler(),
		},
		intent.Rule{
			Name:  "joke",
			Match: intent.Contains("joke"),
			Handle: func(context.Context, intent.Request) (intent.Response, error) {
				return intent.Response{Text: d.Skills.Jokes.Random()}, nil
			},
		},
		intent.Rule{
			Name:  "fact",
			Match: intent.Contains("fact"),
			Handle: func(context.Context, intent.Request) (intent.Response, error) {
				return intent.Response{Text: d.Skills.Facts.Random()}, nil
			},
		},
		intent.Rule{
			Name:    "wikipedia",
			Match:   intent.Contains("wikipedia"),
			Extract: wikipediaExtract,
			OnMiss:  intent.Hint,
			Hint:    "What should I search for? Try: search wikipedia for Ada Lovelace.",
			Handle:  wikipediaHandler(d.Skills.Wiki),
		},
		intent.Rule{
			Name:    "currency-convert",
			Match:   intent.Contains("convert"),
			Extract: func(n string) (any, bool) { return slots.Conversion(n) },
			OnMiss:  intent.Hint,
			Hint:    "Try: convert 10 USD to EUR.",
			Handle:  currencyHandler(d.Skills.Currency),
		},
		intent.Rule{
			Name:    "currency-inline",
			Match:   intent.Matches(`\d+(\.\d+)? [a-z]{3} to [a-z]{3}\b`),
			Extract: func(n string) (any, bool) { return slots.Conversion(n) },
			Handle:  currencyHandler(d.Skills.Currency),
		},
		intent.Rule{
			Name:    "weather",
			Match:   intent.Contains("weather"),
			Extract: weatherExtract,
			OnMiss:  intent.Hint,
			Hint:    "Try: what's the weather in Paris?",
			Handle:  weatherHandler(d.Skills.Weather),
		},
		intent.Rule{
			Name:    "translate",
			Match:   intent.Contains("translate"),
			Extract: func(n string) (any, bool) { return slots.Translation(n) },
			OnMiss:  intent.Hint,
			Hint:    "Try: translate good morning to french.",
			Handle:  translateHandler(d.Skills.Trans),
		},
		intent.Rule{
			Name:    "define",
			Match:   intent.ContainsAny("define", "what does"),
			Extract: defineExtract,
			OnMiss:  intent.Hint,
			Hint:    "Try: define serendipity.",
			Handle:  defineHandler(d.Skills.Dict),
		},
		intent.Rule{
			Name:   "news",
			Match:  intent.ContainsAny("news", "headlines"),
			Handle: newsHandler(d.Skills.News),
		},
		intent.Rule{
			Name:    "note-delete",
			Match:   intent.ContainsAny("delete note", "remove note"),
			Extract: func(n string) (any, bool) { return slots.NoteID(n) },
			OnMiss:  intent.Hint,
			Hint:    "Which note? Try: delete note 2.",
			Handle:  noteDeleteHandler(d.Skills.Notes),
		},
		intent.Rule{
			Name:   "note-list",
			Match:  intent.ContainsAny("list notes", "show notes", "my notes"),
			Handle: noteListHandler(d.Skills.Notes),
		},
		intent.Rule{
			Name:    "note-add",
			Match:   intent.ContainsAny("take a note", "note that"),
			Extract: noteAddExtract,
			OnMiss:  intent.Hint,
			Hint:    "What should the note say? Try: note that the wifi password changed.",
			Handle:  noteAddHandler(d.Skills.Notes),
		},
	)
	return r
}

func metaRules(sess *session.State) []intent.Rule {
	return []intent.Rule{
		{
			Name:  "meta-history",
			Match: intent.Equals("history"),
			Handle: func(context.Context, intent.Request) (intent.Response, error) {
				return intent.Response{Text: sess.History()}, nil
			},
		},
		{
			Name:  "meta-clear",
			Match: intent.Equals("clear"),
			Handle: func(context.Context, intent.Request) (intent.Response, error) {
				sess.Clear()
				return intent.Response{Text: "History cleared."}, nil
			},
		},
		{
			Name:  "meta-export",
			Match: intent.HasPrefix("export"),
			Handle: func(_ context.Context, req intent.Request) (intent.Response, error) {
				if !sess.Privileged {
					return intent.Response{Text: "Exporting the history is not allowed."}, nil
				}
				// Take the path from the raw text; normalization
				// lower-cases it and filenames are case-sensitive.
				path := ""
				if _, rest, ok := strings.Cut(strings.TrimSpace(req.Raw), " "); ok {
					path = strings.TrimSpace(rest)
				}
				if path == "" {
					path = "forte-history.txt"
				}
				if err := sess.Export(path); err != nil {
					return intent.Response{}, err
				}
				return intent.Response{Text: "History exported to " + path + "."}, nil
			},
		},
		{
			Name:  "meta-verbose",
			Match: intent.Equals("verbose"),
			Handle: func(context.Context, intent.Request) (intent.Response, error) {
				sess.SetVerbose(!sess.Verbose())
				if sess.Verbose() {
					return intent.Response{Text: "Verbose logging on."}, nil
				}
				return intent.Response{Text: "Verbose logging off."}, nil
			},
		},
	}
}

func fallbackHandler(set *skills.Set) intent.Handler {
	return func(ctx context.Context, req intent.Request) (intent.Response, error) {
		if set.AI == nil {
			return intent.Response{Text: unrecognizedMsg}, nil
		}
		reply, err := set.AI.Reply(ctx, req.Raw)
		if err != nil {
			log.Warn("ai fallback failed", "err", err)
			return intent.Response{Text: unrecognizedMsg}, nil
		}
		return intent.Response{Text: reply}, nil
	}
}

func timeHandler() intent.Handler {
	return func(context.Context, intent.Request) (intent.Response, error) {
		return intent.Response{Text: "The time is " + time.Now().Format("3:04 PM")}, nil
	}
}

func calcHandler() intent.Handler {
	return func(_ context.Context, req intent.Request) (intent.Response, error) {
		result, err := skills.Calculate(req.Norm)
		if err != nil {
			log.Debug("calculation failed", "expr", req.Norm, "err", err)
			return intent.Response{Text: "Sorry, I couldn't perform that calculation."}, nil
		}
		return intent.Response{Text: result}, nil
	}
}

func reminderAddHandler(rm *tasks.Reminders) intent.Handler {
	return func(_ context.Context, req intent.Request) (intent.Response, error) {
		spec := req.Slots.(slots.ReminderSpec)
		rm.Add(time.Duration(spec.Minutes)*time.Minute, spec.Message)
		text := fmt.Sprintf("I'll remind you to %s in %d minutes", spec.Message, spec.Minutes)
		return intent.Response{Text: text}, nil
	}
}

func reminderListHandler(rm *tasks.Reminders) intent.Handler {
	return func(context.Context, intent.Request) (intent.Response, error) {
		items := rm.List()
		if len(items) == 0 {
			return intent.Response{Text: "You have no reminders."}, nil
		}
		return intent.Response{Text: strings.Join(items, "\n")}, nil
	}
}

func timerHandler(tm *tasks.Timers) intent.Handler {
	return func(_ context.Context, req intent.Request) (intent.Response, error) {
		spec := req.Slots.(slots.TimerSpec)
		if err := tm.Start(time.Duration(spec.Seconds)*time.Second, spec.Label); err != nil {
			text := fmt.Sprintf("You already have %d timers running. Let one finish first.", tm.Limit())
			return intent.Response{Text: text}, nil
		}
		return intent.Response{Text: fmt.Sprintf("Timer set for %d seconds.", spec.Seconds)}, nil
	}
}

func wikipediaExtract(n string) (any, bool) {
	if topic, ok := slots.After(n, "for"); ok {
		return topic, true
	}
	topic := strings.TrimSpace(strings.ReplaceAll(n, "search wikipedia", ""))
	if topic == "" || topic == "wikipedia" {
		return nil, false
	}
	return topic, true
}

func wikipediaHandler(wiki skills.Encyclopedia) intent.Handler {
	return func(ctx context.Context, req intent.Request) (intent.Response, error) {
		text, err := wiki.Summary(ctx, req.Slots.(string))
		if err != nil {
			return intent.Response{}, err
		}
		return intent.Response{Text: text}, nil
	}
}

func currencyHandler(conv skills.Converter) intent.Handler {
	return func(ctx context.Context, req intent.Request) (intent.Response, error) {
		spec := req.Slots.(slots.ConversionSpec)
		text, err := conv.Convert(ctx, spec.Amount, spec.From, spec.To)
		if err != nil {
			return intent.Response{}, err
		}
		return intent.Response{Text: text}, nil
	}
}

func weatherExtract(n string) (any, bool) {
	place, ok := slots.After(n, "in")
	if !ok {
		return nil, false
	}
	return strings.Trim(place, "?!."), true
}

func weatherHandler(fc skills.Forecaster) intent.Handler {
	return func(ctx context.Context, req intent.Request) (intent.Response, error) {
		text, err := fc.Current(ctx, req.Slots.(string))
		if err != nil {
			return intent.Response{}, err
		}
		return intent.Response{Text: text}, nil
	}
}

func translateHandler(tr skills.Translator) intent.Handler {
	return func(ctx context.Context, req intent.Request) (intent.Response, error) {
		spec := req.Slots.(slots.TranslationSpec)
		text, err := tr.Translate(ctx, spec.Phrase, spec.Language)
		if err != nil {
			return intent.Response{}, err
		}
		return intent.Response{Text: text}, nil
	}
}

func defineExtract(n string) (any, bool) {
	n = strings.TrimRight(n, "?!.")
	if span, ok := slots.After(" "+n, "define"); ok {
		return span, true
	}
	if span, ok := slots.Between(n, "does", "mean"); ok {
		return span, true
	}
	return nil, false
}

func defineHandler(dict skills.Dictionary) intent.Handler {
	return func(ctx context.Context, req intent.Request) (intent.Response, error) {
		text, err := dict.Define(ctx, req.Slots.(string))
		if err != nil {
			return intent.Response{}, err
		}
		return intent.Response{Text: text}, nil
	}
}

func newsHandler(news skills.Headlines) intent.Handler {
	return func(ctx context.Context, req intent.Request) (intent.Response, error) {
		text, err := news.Top(ctx)
		if err != nil {
			return intent.Response{}, err
		}
		return intent.Response{Text: text}, nil
	}
}

func noteAddExtract(n string) (any, bool) {
	for _, marker := range []string{"note that", "take a note"} {
		if idx := strings.Index(n, marker); idx >= 0 {
			text := strings.TrimSpace(n[idx+len(marker):])
			text = strings.TrimPrefix(text, "to ")
			if text != "" {
				return text, true
			}
		}
	}
	return nil, false
}

func noteAddHandler(notes *skills.Notes) intent.Handler {
	return func(_ context.Context, req intent.Request) (intent.Response, error) {
		id := notes.Add(req.Slots.(string))
		return intent.Response{Text: fmt.Sprintf("Noted, that's note %d.", id)}, nil
	}
}

func noteListHandler(notes *skills.Notes) intent.Handler {
	return func(context.Context, intent.Request) (intent.Response, error) {
		items := notes.List()
		if len(items) == 0 {
			return intent.Response{Text: "You have no notes."}, nil
		}
		return intent.Response{Text: strings.Join(items, "\n")}, nil
	}
}

func noteDeleteHandler(notes *skills.Notes) intent.Handler {
	return func(_ context.Context, req intent.Request) (intent.Response, error) {
		id := req.Slots.(int)
		if !notes.Delete(id) {
			return intent.Response{Text: fmt.Sprintf("There is no note %d.", id)}, nil
		}
		return intent.Response{Text: fmt.Sprintf("Deleted note %d.", id)}, nil
	}
}
