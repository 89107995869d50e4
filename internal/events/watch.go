package events

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/attend/internal/logging"
	"github.com/alexanderramin/attend/internal/service"
	"github.com/rs/zerolog"
)

const maxLineBytes = 64 * 1024

// Stats counts what a watch run did with its input.
type Stats struct {
	Lines   int
	Applied int
	Skipped int
	Failed  int
}

// Watcher feeds decoded events into the presence service.
type Watcher struct {
	presence     service.PresenceService
	logger       zerolog.Logger
	defaultGroup string
	defaultUser  string
}

// NewWatcher builds a Watcher. defaultGroup and defaultUser fill in events
// that omit them.
func NewWatcher(presence service.PresenceService, logger zerolog.Logger, defaultGroup, defaultUser string) *Watcher {
	return &Watcher{
		presence:     presence,
		logger:       logging.Component(logger, "watch"),
		defaultGroup: defaultGroup,
		defaultUser:  defaultUser,
	}
}

// Run consumes r until EOF or ctx is cancelled. Bad lines, oversized lines
// and failed events are logged and counted; only a read error or
// cancellation ends the run early.
func (w *Watcher) Run(ctx context.Context, r io.Reader) (Stats, error) {
	var stats Stats

	reader := bufio.NewReader(r)
	for {
		raw, tooLong, readErr := readLine(reader, maxLineBytes)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return stats, fmt.Errorf("reading events: %w", readErr)
		}
		if readErr != nil && len(raw) == 0 && !tooLong {
			return stats, nil
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Lines++

		if tooLong {
			stats.Skipped++
			w.logger.Warn().Int("line", stats.Lines).Int("max_bytes", maxLineBytes).Msg("skipping oversized line")
		} else {
			w.handleLine(ctx, bytes.TrimSpace(raw), &stats)
		}

		if readErr != nil {
			return stats, nil
		}
	}
}

func (w *Watcher) handleLine(ctx context.Context, line []byte, stats *Stats) {
	if len(line) == 0 || line[0] == '#' {
		stats.Skipped++
		return
	}

	ev, err := Decode(line, w.defaultGroup, w.defaultUser)
	if err != nil {
		stats.Skipped++
		w.logger.Warn().Err(err).Int("line", stats.Lines).Msg("skipping malformed event")
		return
	}

	if err := w.Apply(ctx, ev); err != nil {
		stats.Failed++
		w.logger.Error().Err(err).
			Int("line", stats.Lines).
			Str("kind", string(ev.Kind)).
			Str("group", ev.Group).
			Str("user", ev.User).
			Msg("event failed")
		return
	}
	stats.Applied++
}

// readLine reads up to and including the next newline. A line longer than
// limit is drained and returned empty with tooLong set.
func readLine(r *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		var chunk []byte
		chunk, err = r.ReadSlice('\n')
		if !tooLong {
			line = append(line, chunk...)
			if len(bytes.TrimRight(line, "\r\n")) > limit {
				line, tooLong = nil, true
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return line, tooLong, err
	}
}

// Apply dispatches a single event.
func (w *Watcher) Apply(ctx context.Context, ev *Event) error {
	switch ev.Kind {
	case KindVoice:
		out, err := w.presence.HandleVoice(ctx, ev.Transition())
		if err != nil {
			return err
		}
		w.logger.Debug().Str("action", string(out.Action)).Int64("closed", out.Closed).Msg("voice")
	case KindCheckIn:
		sess, err := w.presence.CheckIn(ctx, ev.Group, ev.User, ev.Channel, ev.Time())
		if err != nil {
			return err
		}
		w.logger.Debug().Str("session", sess.ID).Msg("checkin")
	case KindCheckOut:
		n, err := w.presence.CheckOut(ctx, ev.Group, ev.User, ev.Time())
		if err != nil {
			return err
		}
		w.logger.Debug().Int64("closed", n).Msg("checkout")
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return nil
}
