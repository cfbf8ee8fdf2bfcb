// ABOUTME: AI assist orchestrator tracking one request lifecycle per kind
// ABOUTME: Sequence numbers discard stale responses so last-issued wins

package assist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quillnet/quill-cli/internal/markup"
)

// ErrEmptyInput is the local validation error returned when the document
// holds no text. It is raised before any network call and is distinct from
// a network failure.
var ErrEmptyInput = errors.New("write some content first")

// Kind identifies one of the four assist request types.
type Kind int

const (
	KindImprove Kind = iota
	KindSummary
	KindTitles
	KindTags
)

func (k Kind) String() string {
	switch k {
	case KindImprove:
		return "improve"
	case KindSummary:
		return "summary"
	case KindTitles:
		return "titles"
	case KindTags:
		return "tags"
	default:
		return "unknown"
	}
}

// Mode selects the improve rewrite style.
type Mode string

const (
	ModeClarity Mode = "clarity"
	ModeGrammar Mode = "grammar"
	ModeConcise Mode = "concise"
)

// ValidMode reports whether m is one of the supported improve modes.
func ValidMode(m Mode) bool {
	return m == ModeClarity || m == ModeGrammar || m == ModeConcise
}

// Phase is the lifecycle of a request kind.
type Phase int

const (
	Idle Phase = iota
	Pending
	Succeeded
	Failed
)

// Result holds whichever payload the request kind produces.
type Result struct {
	Text   string   // improve, summary
	Titles []string // titles
	Tags   []string // tags
}

// State is the externally visible state of one request kind.
type State struct {
	Phase  Phase
	Result Result
	Err    error
}

type kindState struct {
	State
	seq uint64
}

// Orchestrator tracks the four request kinds independently. All methods
// must be called from the UI goroutine; network calls happen outside and
// report back through Resolve.
type Orchestrator struct {
	kinds map[Kind]*kindState
}

// New creates an Orchestrator with all kinds idle.
func New() *Orchestrator {
	return &Orchestrator{
		kinds: map[Kind]*kindState{
			KindImprove: {},
			KindSummary: {},
			KindTitles:  {},
			KindTags:    {},
		},
	}
}

// Begin validates the document and moves kind to Pending, superseding any
// previous result. It returns the stripped plain text to send and the
// sequence number the eventual Resolve call must present. An empty document
// fails locally with ErrEmptyInput and no state change.
func (o *Orchestrator) Begin(kind Kind, doc string) (plain string, seq uint64, err error) {
	plain = strings.TrimSpace(markup.PlainText(doc))
	if plain == "" {
		return "", 0, ErrEmptyInput
	}

	ks := o.kinds[kind]
	ks.seq++
	ks.State = State{Phase: Pending}
	return plain, ks.seq, nil
}

// Resolve records the outcome of the request identified by seq. A response
// carrying a superseded sequence number is discarded and Resolve reports
// false; the newest request's state is left untouched.
func (o *Orchestrator) Resolve(kind Kind, seq uint64, res Result, err error) bool {
	ks := o.kinds[kind]
	if seq != ks.seq {
		return false
	}
	if err != nil {
		ks.State = State{Phase: Failed, Err: err}
	} else {
		ks.State = State{Phase: Succeeded, Result: res}
	}
	return true
}

// State returns the current state of the given kind.
func (o *Orchestrator) State(kind Kind) State {
	return o.kinds[kind].State
}

// Dismiss discards kind's result and returns it to Idle. Used both for an
// explicit dismiss and after a result is applied to the draft.
func (o *Orchestrator) Dismiss(kind Kind) {
	o.kinds[kind].State = State{}
}

// Busy reports whether any kind has a request in flight.
func (o *Orchestrator) Busy() bool {
	for _, ks := range o.kinds {
		if ks.Phase == Pending {
			return true
		}
	}
	return false
}

// ApplyImprove converts an improve result's plain text back into block
// markup for the draft: blank lines separate paragraphs, single newlines
// stay as in-paragraph breaks.
func ApplyImprove(text string) string {
	return markup.FromPlainText(text)
}

// AddTag appends tag to tags unless it is already present; tag order is
// preserved and comparison is case-sensitive.
func AddTag(tags []string, tag string) []string {
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(append([]string(nil), tags...), tag)
}

// ReplaceTags implements the "use all" action: the suggestion set replaces
// the current list outright.
func ReplaceTags(suggested []string) []string {
	return append([]string(nil), suggested...)
}

// ValidateDraftContent is the pre-submit check shared by the form view and
// the publish command: content must be present and not the empty-document
// sentinel.
func ValidateDraftContent(content string) error {
	if markup.IsEmpty(content) {
		return fmt.Errorf("please add some content")
	}
	return nil
}
