// Package term renders loading states in the terminal while a fetch is in
// flight. Purely presentational: every variant is a static mapping from
// size and color to frames and styling.
package term

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Variants.
const (
	VariantSpinner  = "spinner"
	VariantFullPage = "fullpage"
	VariantCard     = "card"
	VariantSkeleton = "skeleton"
)

// Sizes.
const (
	SizeSmall   = "sm"
	SizeDefault = "default"
	SizeLarge   = "lg"
)

// ANSI color codes by name; unknown names fall back to the default color.
var colors = map[string]string{
	"primary": "\033[36m",
	"muted":   "\033[90m",
	"white":   "\033[97m",
}

const colorReset = "\033[0m"

var spinnerFrames = map[string][]string{
	SizeSmall:   {".", "o", "O", "o"},
	SizeDefault: {"|", "/", "-", "\\"},
	SizeLarge:   {"◐", "◓", "◑", "◒"},
}

var spinnerInterval = map[string]time.Duration{
	SizeSmall:   150 * time.Millisecond,
	SizeDefault: 120 * time.Millisecond,
	SizeLarge:   100 * time.Millisecond,
}

// Spinner is an animated inline loading indicator.
type Spinner struct {
	out   io.Writer
	size  string
	color string
	text  string
	done  chan struct{}
	fin   chan struct{}
}

// NewSpinner creates a spinner writing to out.
func NewSpinner(out io.Writer, size, color, text string) *Spinner {
	if _, ok := spinnerFrames[size]; !ok {
		size = SizeDefault
	}
	return &Spinner{out: out, size: size, color: color, text: text}
}

// Start animates until Stop is called or ctx ends.
func (s *Spinner) Start(ctx context.Context) {
	s.done = make(chan struct{})
	s.fin = make(chan struct{})
	frames := spinnerFrames[s.size]
	interval := spinnerInterval[s.size]
	c := colors[s.color]

	go func() {
		defer close(s.fin)
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.text)+2))
				return
			case <-ticker.C:
				frame := frames[i%len(frames)]
				if c != "" {
					frame = c + frame + colorReset
				}
				fmt.Fprintf(s.out, "\r%s %s", frame, s.text)
				i++
			}
		}
	}()
}

// Stop stops the animation and clears the line.
func (s *Spinner) Stop() {
	if s.done == nil {
		return
	}
	close(s.done)
	<-s.fin
	s.done = nil
}

// FullPage renders a centered loading banner.
func FullPage(text string, width int) string {
	if width <= 0 {
		width = 60
	}
	pad := (width - len(text)) / 2
	if pad < 0 {
		pad = 0
	}
	line := strings.Repeat("─", width)
	return line + "\n" + strings.Repeat(" ", pad) + text + "\n" + line + "\n"
}

// Card renders a bordered placeholder box.
func Card(title string, width int) string {
	if width <= 0 {
		width = 40
	}
	inner := width - 2
	var b strings.Builder
	b.WriteString("┌" + strings.Repeat("─", inner) + "┐\n")
	b.WriteString("│ " + pad(title, inner-2) + " │\n")
	b.WriteString("│ " + pad("loading…", inner-2) + " │\n")
	b.WriteString("└" + strings.Repeat("─", inner) + "┘\n")
	return b.String()
}

// Skeleton renders n placeholder rows of shaded blocks.
func Skeleton(rows, width int) string {
	if width <= 0 {
		width = 40
	}
	var b strings.Builder
	for i := 0; i < rows; i++ {
		w := width
		if i == rows-1 {
			w = width * 2 / 3 // last row shorter, like the UI skeleton
		}
		b.WriteString(strings.Repeat("░", w) + "\n")
	}
	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
