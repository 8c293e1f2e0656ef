package stream

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"github.com/stevengonsalvez/amazon-q-streaming-client-go/synth"
	"github.com/stevengonsalvez/amazon-q-streaming-client-go/types"
)

// A generated session must decode to exactly its scenario's event
// sequence, however the bytes are chunked on the way in.
func TestEndToEndSyntheticSession(t *testing.T) {
	src, err := synth.NewSource(synth.Config{
		ConversationID:       "c-e2e",
		UtteranceID:          "u-e2e",
		Deltas:               5,
		WordsPerDelta:        7,
		IncludeToolUse:       true,
		IncludeCodeReference: true,
		IncludeFollowup:      true,
	})
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	want := src.Events()
	wire := src.Wire()

	for _, chunk := range []int{1, 3, 256, len(wire)} {
		es := New(context.Background(), bytes.NewReader(wire), Config{ReadChunkLen: chunk})
		var got []types.Event
		for es.Next() {
			got = append(got, es.Current())
		}
		if err := es.Err(); err != nil {
			t.Fatalf("chunk %d: Err() = %v, want nil", chunk, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("chunk %d: decoded sequence diverges from the scenario", chunk)
		}
	}
}

// The Source's own chunking must be as invisible as the reader's.
func TestEndToEndSourceChunking(t *testing.T) {
	control, err := synth.NewSource(synth.Config{ConversationID: "c-1", UtteranceID: "u-1", Deltas: 4})
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	chunked, err := synth.NewSource(synth.Config{ConversationID: "c-1", UtteranceID: "u-1", Deltas: 4, ChunkLen: 2})
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	for name, src := range map[string]*synth.Source{"unchunked": control, "chunked": chunked} {
		es := New(context.Background(), src, Config{})
		n := 0
		for es.Next() {
			n++
		}
		if err := es.Err(); err != nil {
			t.Fatalf("%s: Err() = %v, want nil", name, err)
		}
		if n != 5 {
			t.Errorf("%s: decoded %d events, want 5", name, n)
		}
	}
}

func TestEndToEndExceptionSession(t *testing.T) {
	src, err := synth.NewSource(synth.Config{
		Deltas:           3,
		ExceptionType:    "AccessDeniedException",
		ExceptionMessage: "profile is not authorized",
		ChunkLen:         13,
	})
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	want := src.Events()

	es := New(context.Background(), src, Config{})
	var got []types.Event
	for es.Next() {
		got = append(got, es.Current())
	}
	if err := es.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded sequence diverges from the scenario")
	}
	if _, ok := got[len(got)-1].(types.ExceptionEvent); !ok {
		t.Errorf("last event = %T, want ExceptionEvent", got[len(got)-1])
	}
}
