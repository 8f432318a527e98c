package dispatch

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noti-sh/noti/internal/config"
)

type notifyCall struct {
	summary    string
	body       string
	persistent bool
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	err   error
}

func (f *fakeNotifier) Show(summary, body string, persistent bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notifyCall{summary, body, persistent})
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type sendCall struct {
	method string
	url    string
	body   string
}

type fakeTransport struct {
	mu    sync.Mutex
	calls []sendCall
	// fail maps a URL to the error its dispatch should return.
	fail map[string]error
}

func (f *fakeTransport) Send(_ context.Context, method, url string, _ http.Header, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sendCall{method, url, body})
	return f.fail[url]
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeTransport) bodies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	bodies := make([]string, len(f.calls))
	for i, c := range f.calls {
		bodies[i] = c.body
	}
	return bodies
}

func webhookDest(url string) config.Destination {
	return config.Destination{
		Type:   config.DestinationWebhook,
		URL:    url,
		Format: &config.WebhookFormat{Standard: config.FormatPlainText},
	}
}

func desktopDest(summary string) config.Destination {
	return config.Destination{Type: config.DestinationDesktop, Summary: summary}
}

func newTestDispatcher(notifier *fakeNotifier, transport *fakeTransport) *Dispatcher {
	return NewDispatcher(notifier, transport, zerolog.Nop())
}

func TestDispatchDesktop(t *testing.T) {
	notifier := &fakeNotifier{}
	d := newTestDispatcher(notifier, &fakeTransport{})

	err := d.Dispatch(context.Background(), "done", desktopDest("Build"))
	require.NoError(t, err)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, notifyCall{summary: "Build", body: "done", persistent: false}, notifier.calls[0])
}

func TestDispatchDesktopFailure(t *testing.T) {
	cause := errors.New("no notification daemon")
	d := newTestDispatcher(&fakeNotifier{err: cause}, &fakeTransport{})

	err := d.Dispatch(context.Background(), "done", desktopDest("Build"))
	require.Error(t, err)

	var notifyErr *NotifyError
	require.ErrorAs(t, err, &notifyErr)
	assert.ErrorIs(t, err, cause)
}

func TestDispatchWebhook(t *testing.T) {
	transport := &fakeTransport{}
	d := newTestDispatcher(&fakeNotifier{}, transport)

	err := d.Dispatch(context.Background(), "done", webhookDest("https://x.example.com"))
	require.NoError(t, err)

	require.Len(t, transport.calls, 1)
	assert.Equal(t, sendCall{method: "POST", url: "https://x.example.com", body: "done"}, transport.calls[0])
}

func TestDispatchWebhookFailureHidesURL(t *testing.T) {
	secretURL := "https://hooks.example.com/secret-token-123"
	transport := &fakeTransport{fail: map[string]error{
		secretURL: errors.New("received non-2xx response: 500"),
	}}
	d := newTestDispatcher(&fakeNotifier{}, transport)

	err := d.Dispatch(context.Background(), "done", webhookDest(secretURL))
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.NotContains(t, err.Error(), "secret-token-123")
}

func TestDispatchUnknownType(t *testing.T) {
	d := newTestDispatcher(&fakeNotifier{}, &fakeTransport{})
	err := d.Dispatch(context.Background(), "done", config.Destination{Type: "pager"})
	assert.Error(t, err)
}

func TestDispatchAllZeroDestinations(t *testing.T) {
	notifier := &fakeNotifier{}
	transport := &fakeTransport{}
	d := newTestDispatcher(notifier, transport)

	require.NoError(t, d.DispatchAll(context.Background(), "done", nil))
	assert.Zero(t, notifier.count())
	assert.Zero(t, transport.count())
}

func TestDispatchAllPartialFailure(t *testing.T) {
	failing := "https://bad.example.com"
	transport := &fakeTransport{fail: map[string]error{
		failing: errors.New("received non-2xx response: 502"),
	}}
	notifier := &fakeNotifier{}
	d := newTestDispatcher(notifier, transport)

	good := desktopDest("Build")
	err := d.DispatchAll(context.Background(), "done", []config.Destination{good, webhookDest(failing)})
	require.Error(t, err)

	// The failing sibling does not prevent the desktop delivery.
	assert.Equal(t, 1, notifier.count())
	assert.Equal(t, 1, transport.count())

	// A later fan-out to the healthy destination alone still succeeds.
	require.NoError(t, d.DispatchAll(context.Background(), "done", []config.Destination{good}))
	assert.Equal(t, 2, notifier.count())
}

func TestDispatchAllReportsLowestFailingIndex(t *testing.T) {
	first := errors.New("first failure")
	second := errors.New("second failure")
	transport := &fakeTransport{fail: map[string]error{
		"https://a.example.com": first,
		"https://b.example.com": second,
	}}
	d := newTestDispatcher(&fakeNotifier{}, transport)

	dests := []config.Destination{
		webhookDest("https://a.example.com"),
		webhookDest("https://b.example.com"),
	}

	// All destinations run; the reported error is always the one from
	// the lowest failing index.
	for i := 0; i < 10; i++ {
		err := d.DispatchAll(context.Background(), "done", dests)
		require.Error(t, err)
		assert.ErrorIs(t, err, first)
		assert.NotErrorIs(t, err, second)
	}
	assert.Equal(t, 20, transport.count())
}

func TestValidateMode(t *testing.T) {
	tests := []struct {
		name          string
		streamEnabled bool
		hasMessage    bool
		wantErr       error
	}{
		{name: "message without streaming", hasMessage: true},
		{name: "streaming without message", streamEnabled: true},
		{name: "no message and no streaming", wantErr: ErrNoMessage},
		{name: "message while streaming", streamEnabled: true, hasMessage: true, wantErr: ErrStreamAndMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMode(tt.streamEnabled, tt.hasMessage)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

// A rejected mode combination must happen before any dispatcher runs,
// so no collaborator may see a call.
func TestValidateModeBlocksDispatch(t *testing.T) {
	notifier := &fakeNotifier{}
	transport := &fakeTransport{}

	err := ValidateMode(true, true)
	require.ErrorIs(t, err, ErrStreamAndMessage)

	assert.Zero(t, notifier.count())
	assert.Zero(t, transport.count())
}
