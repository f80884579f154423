// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fallback generates assistant replies locally when the completion
// endpoint cannot. It is the terminal error handler of the completion
// pipeline: Respond never fails, so a user message always gets an answer.
package fallback

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/saikrishnarallabandi/judith-tui/internal/util"
)

// Default artificial latency window. The delay keeps the loading state
// believable when the reply is produced locally.
const (
	DefaultMinDelay = 800 * time.Millisecond
	DefaultMaxDelay = 2000 * time.Millisecond
)

// How much of the user's text is echoed back inside a templated reply.
const echoMaxRunes = 120

var greetingReplies = []string{
	"Hello! How can I help you today?",
	"Hi there! What would you like to talk about?",
	"Hey! I'm here and ready to help.",
}

var programmingReplies = []string{
	"That sounds like a programming question. Could you share the relevant code or the exact error message?",
	"Happy to help with code. What language are you working in, and what have you tried so far?",
	"Let's debug this together. Can you describe what you expected to happen and what actually happened?",
}

// ackTemplates echo the user's text back in a generic acknowledgement.
var ackTemplates = []string{
	"I understand you're asking about \"%s\". Could you tell me a bit more?",
	"Thanks for your message about \"%s\". What would you like to explore first?",
	"That's an interesting point about \"%s\". Let me know how I can help.",
	"Got it — \"%s\". Could you give me some more context?",
	"You mentioned \"%s\". What specifically would you like to know?",
}

var greetingWords = []string{"hello", "hi", "hey", "howdy", "greetings"}

var greetingPhrases = []string{"good morning", "good afternoon", "good evening"}

var programmingKeywords = []string{
	"code", "coding", "program", "debug", "bug", "error", "function",
	"compile", "syntax", "script", "golang", "python", "javascript", "sql",
}

// =============================================================================
// RESPONDER
// =============================================================================

// Responder synthesizes replies from simple keyword cues on the latest user
// message, falling through to a pseudo-randomly chosen acknowledgement that
// echoes the user's text.
type Responder struct {
	minDelay time.Duration
	maxDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a responder with the default latency window.
func New() *Responder {
	return &Responder{
		minDelay: DefaultMinDelay,
		maxDelay: DefaultMaxDelay,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithDelay overrides the latency window. Zero disables the delay entirely,
// which tests rely on.
func (r *Responder) WithDelay(min, max time.Duration) *Responder {
	if max < min {
		max = min
	}
	r.minDelay = min
	r.maxDelay = max
	return r
}

// WithSeed makes template selection deterministic.
func (r *Responder) WithSeed(seed int64) *Responder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng = rand.New(rand.NewSource(seed))
	return r
}

// Respond produces a reply to the given user text. It waits out the
// randomized delay (cut short if ctx is done) and never fails.
func (r *Responder) Respond(ctx context.Context, userText string) string {
	r.sleep(ctx)
	return r.compose(userText)
}

// compose picks the reply without the latency simulation.
func (r *Responder) compose(userText string) string {
	text := strings.ToLower(strings.TrimSpace(userText))

	switch {
	case text == "":
		return r.pick(greetingReplies)
	case isGreeting(text):
		return r.pick(greetingReplies)
	case isProgrammingTopic(text):
		return r.pick(programmingReplies)
	default:
		echo := util.TruncateRunes(strings.TrimSpace(userText), echoMaxRunes)
		return fmt.Sprintf(r.pick(ackTemplates), echo)
	}
}

func (r *Responder) pick(options []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return options[r.rng.Intn(len(options))]
}

func (r *Responder) sleep(ctx context.Context) {
	delay := r.minDelay
	if jitter := r.maxDelay - r.minDelay; jitter > 0 {
		r.mu.Lock()
		delay += time.Duration(r.rng.Int63n(int64(jitter)))
		r.mu.Unlock()
	}
	if delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

// =============================================================================
// KEYWORD CUES
// =============================================================================

// isGreeting reports whether the text opens with or consists of a greeting.
// Single greeting words are matched against whole tokens so that "hi"
// inside "this" does not trigger.
func isGreeting(lower string) bool {
	for _, phrase := range greetingPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	for _, token := range tokens {
		for _, word := range greetingWords {
			if token == word {
				return true
			}
		}
	}
	return false
}

// isProgrammingTopic reports whether the text mentions a programming cue.
func isProgrammingTopic(lower string) bool {
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	for _, token := range tokens {
		for _, keyword := range programmingKeywords {
			if token == keyword {
				return true
			}
		}
	}
	return false
}
