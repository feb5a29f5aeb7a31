package term

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpinnerWritesFramesAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, SizeDefault, "primary", "loading users")

	s.Start(context.Background())
	time.Sleep(300 * time.Millisecond)
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "loading users")
	// Stop clears the line.
	assert.True(t, strings.HasSuffix(out, "\r"))

	// A second Stop is harmless.
	s.Stop()
}

func TestSpinnerUnknownSizeFallsBack(t *testing.T) {
	s := NewSpinner(&bytes.Buffer{}, "huge", "", "x")
	assert.Equal(t, SizeDefault, s.size)
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewSpinner(&bytes.Buffer{}, SizeSmall, "", "x")
	s.Start(ctx)
	cancel()

	select {
	case <-s.fin:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop on context cancel")
	}
}

func TestFullPageCentersText(t *testing.T) {
	out := FullPage("Loading dashboard", 40)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, strings.Repeat("─", 40), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], strings.Repeat(" ", 11)))
	assert.Contains(t, lines[1], "Loading dashboard")
}

func TestCardShape(t *testing.T) {
	out := Card("Attendance", 30)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.True(t, strings.HasPrefix(lines[3], "└"))
	assert.Contains(t, lines[1], "Attendance")
	assert.Contains(t, lines[2], "loading…")
}

func TestSkeletonLastRowShorter(t *testing.T) {
	out := Skeleton(3, 30)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, strings.Repeat("░", 30), lines[0])
	assert.Equal(t, strings.Repeat("░", 30), lines[1])
	assert.Equal(t, strings.Repeat("░", 20), lines[2])
}
