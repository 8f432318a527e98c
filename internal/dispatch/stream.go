package dispatch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/noti-sh/noti/internal/config"
)

const maxLineSize = 1024 * 1024

// StreamProcessor reads a line source until it closes and fans out each
// qualifying line as a notification. Lines are handled strictly in
// arrival order: the next line is not read until the previous line's
// fan-out has resolved.
type StreamProcessor struct {
	dispatcher *Dispatcher
	dests      []config.Destination
	pattern    *regexp.Regexp
	redirect   *config.Redirect
	log        zerolog.Logger

	// Echo sinks, replaceable in tests.
	Stdout io.Writer
	Stderr io.Writer
}

// NewStreamProcessor compiles the line filter once up front; an invalid
// pattern is a configuration error surfaced before anything is read.
func NewStreamProcessor(dispatcher *Dispatcher, stream config.Stream, dests []config.Destination, log zerolog.Logger) (*StreamProcessor, error) {
	var pattern *regexp.Regexp
	if stream.Matching != "" {
		var err error
		pattern, err = regexp.Compile(stream.Matching)
		if err != nil {
			return nil, fmt.Errorf("invalid matching pattern: %w", err)
		}
	}

	return &StreamProcessor{
		dispatcher: dispatcher,
		dests:      dests,
		pattern:    pattern,
		redirect:   stream.Redirect,
		log:        log,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}, nil
}

// Run processes input until end-of-input (nil) or the first failed
// fan-out (the failure, after which no further lines are read).
func (s *StreamProcessor) Run(ctx context.Context, input io.Reader) error {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		s.echo(line)

		message := line
		if s.pattern != nil {
			loc := s.pattern.FindStringIndex(line)
			if loc == nil {
				s.log.Debug().Msg("line skipped: no match")
				continue
			}
			message = line[loc[0]:loc[1]]
		}

		if err := s.dispatcher.DispatchAll(ctx, message, s.dests); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

// echo writes the raw line back out before any filtering.
func (s *StreamProcessor) echo(line string) {
	if s.redirect == nil {
		return
	}
	switch *s.redirect {
	case config.RedirectStdout:
		fmt.Fprintln(s.Stdout, line)
	case config.RedirectStderr:
		fmt.Fprintln(s.Stderr, line)
	}
}
