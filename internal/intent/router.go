package intent

import (
	"context"
	"fmt"
	"strings"

	log "log/slog"
)

// MetaPrefix marks local meta-commands that bypass content intents.
const MetaPrefix = "!"

// Router evaluates rules strictly in registration order; the earliest
// matching rule wins. A reserved prefix band routes meta-commands before
// any content intent is considered.
type Router struct {
	prefix   string
	meta     []Rule
	rules    []Rule
	fallback Handler
}

// NewRouter creates a router with the given fallback handler, invoked
// when no rule matches.
func NewRouter(fallback Handler) *Router {
	return &Router{prefix: MetaPrefix, fallback: fallback}
}

// Add appends content rules. Registration order is the priority order.
func (r *Router) Add(rules ...Rule) {
	r.rules = append(r.rules, rules...)
}

// AddMeta appends rules to the reserved meta-command band.
func (r *Router) AddMeta(rules ...Rule) {
	r.meta = append(r.meta, rules...)
}

// Dispatch routes one utterance to exactly one handler and runs it.
func (r *Router) Dispatch(ctx context.Context, utt Utterance) (Response, error) {
	if strings.HasPrefix(utt.Norm, r.prefix) {
		return r.dispatchMeta(ctx, utt)
	}

	for _, rule := range r.rules {
		if !rule.Match(utt.Norm) {
			continue
		}
		req := Request{Raw: utt.Raw, Norm: utt.Norm}
		if rule.Extract == nil {
			return r.run(ctx, rule, req)
		}
		v, ok := rule.Extract(utt.Norm)
		if ok {
			req.Slots = v
			return r.run(ctx, rule, req)
		}
		if rule.OnMiss == Hint {
			log.Debug("slot extraction failed", "rule", rule.Name, "text", utt.Norm)
			return Response{Text: rule.Hint}, nil
		}
	}

	log.Debug("no rule matched", "text", utt.Norm)
	return r.fallback(ctx, Request{Raw: utt.Raw, Norm: utt.Norm})
}

func (r *Router) dispatchMeta(ctx context.Context, utt Utterance) (Response, error) {
	cmd := strings.TrimSpace(strings.TrimPrefix(utt.Norm, r.prefix))
	for _, rule := range r.meta {
		if !rule.Match(cmd) {
			continue
		}
		return r.run(ctx, rule, Request{Raw: utt.Raw, Norm: cmd})
	}
	return Response{Text: "Unknown command. Try !history, !clear, !export or !verbose."}, nil
}

func (r *Router) run(ctx context.Context, rule Rule, req Request) (Response, error) {
	log.Debug("dispatching", "rule", rule.Name)
	resp, err := rule.Handle(ctx, req)
	if err != nil {
		return resp, fmt.Errorf("%s: %w", rule.Name, err)
	}
	return resp, nil
}
