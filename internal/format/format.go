// Package format renders a message into the payload a webhook
// destination expects.
package format

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/slack-go/slack"

	"github.com/noti-sh/noti/internal/config"
)

// Payload is one fully rendered webhook request: everything except the URL.
type Payload struct {
	Method string
	Header http.Header
	Body   string
}

type discordMessage struct {
	Content string `json:"content"`
}

type googleChatMessage struct {
	Text string `json:"text"`
}

// ContentType resolves the single content type of a format. For custom
// formats it consults the configured Content-Type header and falls back
// to text/plain.
func ContentType(f *config.WebhookFormat) string {
	if f == nil {
		return "text/plain"
	}
	if f.Custom != nil {
		if value, ok := f.Custom.HTTP.Headers.Get("Content-Type"); ok {
			return value
		}
		return "text/plain"
	}

	switch f.Standard {
	case config.FormatPlainText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render produces the request payload for a message. Standard formats
// always POST with a fixed content type; custom formats carry their
// configured method and headers verbatim.
func Render(f *config.WebhookFormat, message string) (Payload, error) {
	if f == nil {
		return Payload{}, fmt.Errorf("webhook destination needs a format")
	}
	if f.Custom != nil {
		return renderCustom(f.Custom, message), nil
	}

	body, err := renderStandard(f.Standard, message)
	if err != nil {
		return Payload{}, err
	}

	header := http.Header{}
	header.Set("Content-Type", ContentType(f))
	return Payload{Method: http.MethodPost, Header: header, Body: body}, nil
}

func renderStandard(kind config.StandardFormat, message string) (string, error) {
	switch kind {
	case config.FormatPlainText:
		return message, nil
	case config.FormatDiscord:
		return marshalBody(discordMessage{Content: message})
	case config.FormatGoogleChat:
		return marshalBody(googleChatMessage{Text: message})
	case config.FormatSlack:
		return marshalBody(&slack.WebhookMessage{Text: message})
	}
	return "", fmt.Errorf("unknown webhook format %q", kind)
}

func renderCustom(custom *config.CustomFormat, message string) Payload {
	if custom.Escape {
		message = escapeMessage(message)
	}

	header := http.Header{}
	for _, h := range custom.HTTP.Headers {
		header.Add(h.Name, h.Value)
	}

	return Payload{
		Method: custom.HTTP.Method,
		Header: header,
		Body:   strings.ReplaceAll(custom.Template, config.MessagePlaceholder, message),
	}
}

func marshalBody(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("error marshaling payload: %w", err)
	}
	return string(data), nil
}

// escapeMessage rewrites control and non-printable characters as their
// backslash-escape form (newline becomes \n, quotes become \") so the
// message can be embedded inside a quoted template.
func escapeMessage(message string) string {
	quoted := strconv.Quote(message)
	return quoted[1 : len(quoted)-1]
}
