// Package slots pulls typed arguments out of free-form utterance text.
//
// Every extractor returns its value together with an ok flag; a failed
// match is the only failure signal, so the router can fall through to the
// next rule without error handling in the control flow.
package slots

import (
	"regexp"
	"strconv"
	"strings"
)

// ReminderSpec is the argument set of a "remind me" command.
type ReminderSpec struct {
	Minutes int
	Message string
}

// TimerSpec is the argument set of a "set a timer" command.
type TimerSpec struct {
	Seconds int
	Label   string
}

// ConversionSpec is the argument set of a currency conversion.
type ConversionSpec struct {
	Amount float64
	From   string
	To     string
}

// TranslationSpec is the argument set of a translation request.
type TranslationSpec struct {
	Phrase   string
	Language string
}

var (
	durationRe  = regexp.MustCompile(`(\d+)\s*(second|minute)s?\b`)
	reminderRe  = regexp.MustCompile(`remind me in (\d+) minutes? to (.+)`)
	timerRe     = regexp.MustCompile(`timer (?:for )?(\d+)\s*(second|minute)s?(?:\s+(?:for|to) (.+))?$`)
	convRe      = regexp.MustCompile(`(?:convert )?(\d+(?:\.\d+)?) ([a-zA-Z]{3}) to ([a-zA-Z]{3})\b`)
	translateRe = regexp.MustCompile(`translate (.+?) (?:in)?to ([a-z]+)$`)
	noteIDRe    = regexp.MustCompile(`\b(\d+)\b`)
)

// Duration finds an integer with a second/minute unit token and
// normalizes it to seconds.
func Duration(text string) (int, bool) {
	m := durationRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if m[2] == "minute" {
		n *= 60
	}
	return n, true
}

// Reminder parses "remind me in N minute(s) to <message>".
func Reminder(text string) (ReminderSpec, bool) {
	m := reminderRe.FindStringSubmatch(text)
	if m == nil {
		return ReminderSpec{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return ReminderSpec{}, false
	}
	msg := strings.TrimSpace(m[2])
	if msg == "" {
		return ReminderSpec{}, false
	}
	return ReminderSpec{Minutes: n, Message: msg}, true
}

// Timer parses "timer for N second(s)/minute(s)" with an optional
// trailing label ("... for the pasta").
func Timer(text string) (TimerSpec, bool) {
	m := timerRe.FindStringSubmatch(text)
	if m == nil {
		return TimerSpec{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return TimerSpec{}, false
	}
	if m[2] == "minute" {
		n *= 60
	}
	return TimerSpec{Seconds: n, Label: strings.TrimSpace(m[3])}, true
}

// Conversion parses "<amount> <CODE> to <CODE>", with or without a
// leading "convert". Currency codes come back upper-cased.
func Conversion(text string) (ConversionSpec, bool) {
	m := convRe.FindStringSubmatch(text)
	if m == nil {
		return ConversionSpec{}, false
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return ConversionSpec{}, false
	}
	return ConversionSpec{
		Amount: amount,
		From:   strings.ToUpper(m[2]),
		To:     strings.ToUpper(m[3]),
	}, true
}

// Translation parses "translate <phrase> to <language>".
func Translation(text string) (TranslationSpec, bool) {
	m := translateRe.FindStringSubmatch(text)
	if m == nil {
		return TranslationSpec{}, false
	}
	phrase := strings.TrimSpace(m[1])
	if phrase == "" {
		return TranslationSpec{}, false
	}
	return TranslationSpec{Phrase: phrase, Language: m[2]}, true
}

// After returns the span following the first occurrence of the anchor
// keyword, e.g. After("search wikipedia for go", "for") == "go".
func After(text, anchor string) (string, bool) {
	idx := strings.Index(text, " "+anchor+" ")
	if idx < 0 {
		return "", false
	}
	span := strings.TrimSpace(text[idx+len(anchor)+2:])
	if span == "" {
		return "", false
	}
	return span, true
}

// Between returns the span bounded by two anchor keywords, e.g.
// Between("from here to there", "from", "to") == "here".
func Between(text, from, to string) (string, bool) {
	span, ok := After(" "+text, from)
	if !ok {
		return "", false
	}
	idx := strings.Index(span+" ", " "+to+" ")
	if idx < 0 {
		return "", false
	}
	span = strings.TrimSpace(span[:idx])
	if span == "" {
		return "", false
	}
	return span, true
}

// NoteID finds the integer identifier in a note deletion command.
func NoteID(text string) (int, bool) {
	m := noteIDRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
