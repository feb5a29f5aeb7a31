package notify

import (
	"log"
	"sync"
)

// Notification variants, mirroring the toast surface the UI renders.
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
	VariantSuccess     = "success"
)

// Notification is a transient user-visible message.
type Notification struct {
	Title       string
	Description string
	Variant     string
}

// Notifier accepts notifications for display.
type Notifier interface {
	Notify(n Notification)
}

// Log writes notifications to the standard logger, one line each.
type Log struct{}

// Notify implements Notifier.
func (Log) Notify(n Notification) {
	if n.Description != "" {
		log.Printf("[%s] %s: %s", n.Variant, n.Title, n.Description)
		return
	}
	log.Printf("[%s] %s", n.Variant, n.Title)
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu   sync.Mutex
	seen []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
}

// All returns a copy of everything recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.seen))
	copy(out, r.seen)
	return out
}

// Reset clears the recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = nil
}
