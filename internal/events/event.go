package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/attend/internal/service"
)

// Kind names an event type in the NDJSON stream.
type Kind string

const (
	KindVoice    Kind = "voice"
	KindCheckIn  Kind = "checkin"
	KindCheckOut Kind = "checkout"
)

var validKinds = map[Kind]bool{KindVoice: true, KindCheckIn: true, KindCheckOut: true}

// Event is one line of the watch stream.
type Event struct {
	Kind       Kind   `json:"kind"`
	Group      string `json:"group"`
	User       string `json:"user"`
	OldChannel string `json:"old_channel,omitempty"`
	NewChannel string `json:"new_channel,omitempty"`
	Channel    string `json:"channel,omitempty"`
	At         string `json:"at,omitempty"`
}

// Decode parses and validates a single line. Group and user fall back to
// the given defaults when the line omits them.
func Decode(line []byte, defaultGroup, defaultUser string) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	ev.Kind = Kind(strings.ToLower(strings.TrimSpace(string(ev.Kind))))
	if ev.Group == "" {
		ev.Group = defaultGroup
	}
	if ev.User == "" {
		ev.User = defaultUser
	}
	if errs := Validate(&ev); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &ev, nil
}

// Validate returns every problem found in ev.
func Validate(ev *Event) []error {
	var errs []error

	if !validKinds[ev.Kind] {
		errs = append(errs, fmt.Errorf("kind: invalid value %q (expected voice, checkin or checkout)", ev.Kind))
	}
	if ev.Group == "" {
		errs = append(errs, fmt.Errorf("group is required"))
	}
	if ev.User == "" {
		errs = append(errs, fmt.Errorf("user is required"))
	}
	if ev.At != "" {
		if _, err := time.Parse(time.RFC3339, ev.At); err != nil {
			errs = append(errs, fmt.Errorf("at: invalid timestamp %q (expected RFC3339)", ev.At))
		}
	}
	if ev.Kind != KindVoice && (ev.OldChannel != "" || ev.NewChannel != "") {
		errs = append(errs, fmt.Errorf("old_channel/new_channel only apply to voice events"))
	}
	return errs
}

// Time returns the event timestamp. A missing timestamp stays zero so the
// presence service stamps it with its own clock.
func (ev *Event) Time() time.Time {
	if ev.At == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339, ev.At)
	return t
}

// Transition converts a voice event.
func (ev *Event) Transition() service.VoiceTransition {
	return service.VoiceTransition{
		Group:      ev.Group,
		User:       ev.User,
		OldChannel: ev.OldChannel,
		NewChannel: ev.NewChannel,
		At:         ev.Time(),
	}
}
