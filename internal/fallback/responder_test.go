// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fallback

import (
	"context"
	"strings"
	"testing"
	"time"
)

func newTestResponder() *Responder {
	return New().WithDelay(0, 0).WithSeed(42)
}

func TestRespond_Greeting(t *testing.T) {
	r := newTestResponder()

	for _, input := range []string{"Hello", "hi there", "Hey!", "good morning everyone"} {
		reply := r.Respond(context.Background(), input)
		found := false
		for _, candidate := range greetingReplies {
			if reply == candidate {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Respond(%q) = %q, want a greeting reply", input, reply)
		}
	}
}

func TestRespond_GreetingNotInsideWords(t *testing.T) {
	r := newTestResponder()

	// "this" contains "hi" but is not a greeting.
	reply := r.Respond(context.Background(), "this chair is broken")
	for _, candidate := range greetingReplies {
		if reply == candidate {
			t.Fatalf("Respond treated %q as a greeting", "this chair is broken")
		}
	}
}

func TestRespond_ProgrammingTopic(t *testing.T) {
	r := newTestResponder()

	for _, input := range []string{
		"my code won't compile",
		"I have a bug in my python script",
		"how do I debug this function",
	} {
		reply := r.Respond(context.Background(), input)
		found := false
		for _, candidate := range programmingReplies {
			if reply == candidate {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Respond(%q) = %q, want a programming reply", input, reply)
		}
	}
}

func TestRespond_EchoesUserText(t *testing.T) {
	r := newTestResponder()

	reply := r.Respond(context.Background(), "the weather in Lisbon")
	if !strings.Contains(reply, "the weather in Lisbon") {
		t.Errorf("Acknowledgement should echo the user text, got %q", reply)
	}
}

func TestRespond_LongTextEchoTruncated(t *testing.T) {
	r := newTestResponder()
	long := strings.Repeat("x", 500)

	reply := r.Respond(context.Background(), long)
	if strings.Contains(reply, long) {
		t.Error("Echo should be truncated for long input")
	}
	if !strings.Contains(reply, "xxx") {
		t.Errorf("Reply should still echo a prefix of the input, got %q", reply)
	}
}

func TestRespond_NeverEmpty(t *testing.T) {
	r := newTestResponder()

	for _, input := range []string{"", "   ", "?", "こんにちは"} {
		if reply := r.Respond(context.Background(), input); reply == "" {
			t.Errorf("Respond(%q) returned empty reply", input)
		}
	}
}

func TestRespond_DeterministicWithSeed(t *testing.T) {
	a := New().WithDelay(0, 0).WithSeed(7)
	b := New().WithDelay(0, 0).WithSeed(7)

	for i := 0; i < 10; i++ {
		ra := a.Respond(context.Background(), "tell me something")
		rb := b.Respond(context.Background(), "tell me something")
		if ra != rb {
			t.Fatalf("Same seed produced different replies: %q vs %q", ra, rb)
		}
	}
}

func TestRespond_DelayWindow(t *testing.T) {
	r := New().WithDelay(20*time.Millisecond, 40*time.Millisecond)

	start := time.Now()
	r.Respond(context.Background(), "hello")
	elapsed := time.Since(start)

	if elapsed < 20*time.Millisecond {
		t.Errorf("Respond returned after %v, want at least 20ms", elapsed)
	}
}

func TestRespond_CancelledContextSkipsDelay(t *testing.T) {
	r := New().WithDelay(5*time.Second, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	reply := r.Respond(ctx, "hello")
	if time.Since(start) > time.Second {
		t.Error("Cancelled context should cut the delay short")
	}
	if reply == "" {
		t.Error("Reply must still be produced on cancelled context")
	}
}
