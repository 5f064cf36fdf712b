package workflow

import (
	"fmt"
	"time"
)

// TimestampLayout formats event times as dd.MM.yyyy hh:mm:ss.zzz.
const TimestampLayout = "02.01.2006 15:04:05.000"

// Event categories.
const (
	CategoryError = "ERROR"
	CategoryCopy  = "COPY"
)

// Event is a timestamped message delivered to a Listener.
type Event struct {
	Time     time.Time
	Category string
	Kind     Kind
	Message  string
}

// Timestamp returns Time formatted with TimestampLayout.
func (e Event) Timestamp() string {
	return e.Time.Format(TimestampLayout)
}

func (e Event) String() string {
	return fmt.Sprintf("%s - %s: %s", e.Timestamp(), e.Category, e.Message)
}

// Listener receives the progress of a generation run. OnError and OnReady
// are terminal; exactly one of them is called per run.
type Listener interface {
	OnError(Event)
	OnFileCopied(Event)
	OnReady(*Result)
}

// NopListener ignores every event.
type NopListener struct{}

func (NopListener) OnError(Event)      {}
func (NopListener) OnFileCopied(Event) {}
func (NopListener) OnReady(*Result)    {}

// ListenerFuncs adapts optional callbacks to Listener.
type ListenerFuncs struct {
	Error      func(Event)
	FileCopied func(Event)
	Ready      func(*Result)
}

func (l ListenerFuncs) OnError(e Event) {
	if l.Error != nil {
		l.Error(e)
	}
}

func (l ListenerFuncs) OnFileCopied(e Event) {
	if l.FileCopied != nil {
		l.FileCopied(e)
	}
}

func (l ListenerFuncs) OnReady(r *Result) {
	if l.Ready != nil {
		l.Ready(r)
	}
}
