// Package dispatch delivers messages to configured destinations, either
// once or per line read from a stream.
package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noti-sh/noti/internal/config"
	"github.com/noti-sh/noti/internal/format"
)

// Notifier displays a desktop notification.
type Notifier interface {
	Show(summary, body string, persistent bool) error
}

// Transport issues one webhook HTTP request.
type Transport interface {
	Send(ctx context.Context, method, url string, header http.Header, body string) error
}

// Dispatcher delivers messages through the injected collaborators. One
// call means one delivery attempt; retries are the caller's business.
type Dispatcher struct {
	notifier  Notifier
	transport Transport
	log       zerolog.Logger
}

func NewDispatcher(notifier Notifier, transport Transport, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier:  notifier,
		transport: transport,
		log:       log,
	}
}

// Dispatch delivers one message to one destination.
func (d *Dispatcher) Dispatch(ctx context.Context, message string, dest config.Destination) error {
	switch dest.Type {
	case config.DestinationDesktop:
		d.log.Debug().Str("summary", dest.Summary).Msg("showing desktop notification")
		if err := d.notifier.Show(dest.Summary, message, dest.Persistent); err != nil {
			return &NotifyError{Err: err}
		}
		return nil

	case config.DestinationWebhook:
		payload, err := format.Render(dest.Format, message)
		if err != nil {
			return err
		}
		d.log.Debug().Str("method", payload.Method).Msg("sending webhook request")
		if err := d.transport.Send(ctx, payload.Method, dest.URL, payload.Header, payload.Body); err != nil {
			return &TransportError{Err: err}
		}
		return nil
	}

	return fmt.Errorf("unknown destination type %q", dest.Type)
}

// DispatchAll delivers one message to every destination concurrently.
// Destinations are independent: a failing sibling is not cancelled and
// partial delivery can happen. When one or more destinations fail, the
// error of the lowest-index failing destination is returned.
func (d *Dispatcher) DispatchAll(ctx context.Context, message string, dests []config.Destination) error {
	if len(dests) == 0 {
		return nil
	}

	errs := make([]error, len(dests))
	var wg sync.WaitGroup
	for i, dest := range dests {
		wg.Add(1)
		go func(i int, dest config.Destination) {
			defer wg.Done()
			errs[i] = d.Dispatch(ctx, message, dest)
		}(i, dest)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			d.log.Debug().Int("destination", i).Err(err).Msg("dispatch failed")
			return err
		}
	}
	return nil
}
