package source

import "fmt"

// MsgKind mirrors a bundler-style logger.MsgKind (error/warning/note),
// trimmed to what a parsing library needs to report: it never escalates
// to process exit codes or terminal coloring, which belong to a
// consumer's CLI, not the core.
type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Note
)

func (k MsgKind) String() string {
	switch k {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// MsgData is one line of a diagnostic: free text plus an optional location.
type MsgData struct {
	Text     string
	Location *Position
}

// Msg is a single diagnostic, with optional supporting notes, following
// the Msg{Kind, Data, Notes} shape a bundler's logger package typically
// uses.
type Msg struct {
	Kind  MsgKind
	Data  MsgData
	Notes []MsgData
}

func (m Msg) String() string {
	if m.Data.Location == nil {
		return fmt.Sprintf("%s: %s", m.Kind, m.Data.Text)
	}
	loc := m.Data.Location
	if loc.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s: %s", loc.File, loc.Line, loc.Column, m.Kind, m.Data.Text)
	}
	return fmt.Sprintf("%d:%d: %s: %s", loc.Line, loc.Column, m.Kind, m.Data.Text)
}

// Log collects diagnostics produced while tokenizing or parsing. It is a
// library-sized analog of a bundler's logger.Log: no asynchronous
// streaming, no terminal formatting, just append-and-collect.
type Log struct {
	msgs *[]Msg
}

func NewLog() Log {
	msgs := make([]Msg, 0, 4)
	return Log{msgs: &msgs}
}

func (l Log) AddError(tracker *LineColumnTracker, r Range, text string) {
	l.add(Error, tracker, r, text, nil)
}

func (l Log) AddWarning(tracker *LineColumnTracker, r Range, text string) {
	l.add(Warning, tracker, r, text, nil)
}

func (l Log) AddErrorWithNotes(tracker *LineColumnTracker, r Range, text string, notes []MsgData) {
	l.add(Error, tracker, r, text, notes)
}

func (l Log) add(kind MsgKind, tracker *LineColumnTracker, r Range, text string, notes []MsgData) {
	if l.msgs == nil {
		return
	}
	var loc *Position
	if tracker != nil {
		p := tracker.Position(r.Loc.Start)
		loc = &p
	}
	*l.msgs = append(*l.msgs, Msg{Kind: kind, Data: MsgData{Text: text, Location: loc}, Notes: notes})
}

// Done returns every diagnostic recorded so far. Calling Done does not
// reset the log; it is meant to be called once parsing has finished.
func (l Log) Done() []Msg {
	if l.msgs == nil {
		return nil
	}
	return *l.msgs
}

func (l Log) HasErrors() bool {
	if l.msgs == nil {
		return false
	}
	for _, m := range *l.msgs {
		if m.Kind == Error {
			return true
		}
	}
	return false
}
