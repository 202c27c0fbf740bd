package colors

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/logosito/svcs-go/internal/events"
)

func TestConsoleSinkRendersEventKinds(t *testing.T) {
	prev := colorEnabled
	SetColorEnabled(false)
	defer SetColorEnabled(prev)

	var buf bytes.Buffer
	sink := &ConsoleSink{Out: &buf}

	sink.Publish(events.Event{Kind: events.FileStaged, Path: "main.go"})
	sink.Publish(events.Event{Kind: events.ObjectSaved, Identity: "abcd1234"})
	sink.Publish(events.Event{Kind: events.ErrorRaised, Message: "boom"})

	out := buf.String()
	for _, want := range []string{"staged main.go", "saved abcd1234", "boom"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestConsoleSinkDefaultsToStdout(t *testing.T) {
	sink := NewConsoleSink()
	if sink.out() != os.Stdout {
		t.Fatalf("expected the default writer to be os.Stdout")
	}
}
