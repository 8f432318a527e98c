package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MessagePlaceholder is the literal substring replaced with the
// message when rendering a custom webhook template.
const MessagePlaceholder = "$(message)"

// Redirect selects where stdin lines are echoed back to while streaming.
type Redirect string

const (
	RedirectStdout Redirect = "stdout"
	RedirectStderr Redirect = "stderr"
)

func (r *Redirect) UnmarshalYAML(node *yaml.Node) error {
	var value string
	if err := node.Decode(&value); err != nil {
		return err
	}
	switch Redirect(value) {
	case RedirectStdout, RedirectStderr:
		*r = Redirect(value)
		return nil
	}
	return fmt.Errorf("invalid redirect %q: must be stdout or stderr", value)
}

// Stream configures dispatching notifications from stdin.
type Stream struct {
	Enabled bool `yaml:"enabled"`
	// Matching filters stdin lines by regular expression. Empty means
	// every line is dispatched.
	Matching string `yaml:"matching,omitempty"`
	// Redirect echoes lines read from stdin back out. Nil means no echo.
	Redirect *Redirect `yaml:"redirect,omitempty"`
}

// DefaultStream is the stream configuration used when the document has
// no stream section: disabled, no filter, echo to stdout.
func DefaultStream() Stream {
	stdout := RedirectStdout
	return Stream{Enabled: false, Redirect: &stdout}
}

// StandardFormat is a builtin webhook payload shape for a known provider.
type StandardFormat string

const (
	FormatPlainText  StandardFormat = "plain_text"
	FormatDiscord    StandardFormat = "discord"
	FormatGoogleChat StandardFormat = "google_chat"
	FormatSlack      StandardFormat = "slack"
)

// Header is a single custom webhook header.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered set of custom webhook headers. Names are unique
// and insertion order from the document is preserved through load/save.
type Headers []Header

func (h *Headers) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("headers must be a mapping")
	}
	headers := make(Headers, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name, value string
		if err := node.Content[i].Decode(&name); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&value); err != nil {
			return err
		}
		if _, exists := headers.Get(name); exists {
			return fmt.Errorf("duplicate header %q", name)
		}
		headers = append(headers, Header{Name: name, Value: value})
	}
	*h = headers
	return nil
}

func (h Headers) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, header := range h {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: header.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: header.Value},
		)
	}
	return node, nil
}

// Get returns the value for an exact header name match.
func (h Headers) Get(name string) (string, bool) {
	for _, header := range h {
		if header.Name == name {
			return header.Value, true
		}
	}
	return "", false
}

// HTTPOptions are the request parameters of a custom webhook format.
type HTTPOptions struct {
	Headers Headers `yaml:"headers"`
	Method  string  `yaml:"method"`
}

// CustomFormat is a user-defined webhook format: an HTTP request shape
// plus a body template containing $(message).
type CustomFormat struct {
	HTTP     HTTPOptions `yaml:"http"`
	Template string      `yaml:"template"`
	Escape   bool        `yaml:"escape"`
}

// WebhookFormat is either a standard provider format or a custom one.
// Exactly one of Standard/Custom is set.
type WebhookFormat struct {
	Standard StandardFormat
	Custom   *CustomFormat
}

// In the document a format is either a bare scalar (plain_text, discord,
// google_chat, slack) or a mapping describing a custom format.
func (f *WebhookFormat) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var kind string
		if err := node.Decode(&kind); err != nil {
			return err
		}
		switch StandardFormat(kind) {
		case FormatPlainText, FormatDiscord, FormatGoogleChat, FormatSlack:
			f.Standard = StandardFormat(kind)
			f.Custom = nil
			return nil
		}
		return fmt.Errorf("unknown webhook format %q", kind)
	case yaml.MappingNode:
		var custom CustomFormat
		if err := node.Decode(&custom); err != nil {
			return err
		}
		f.Standard = ""
		f.Custom = &custom
		return nil
	}
	return fmt.Errorf("webhook format must be a string or a mapping")
}

func (f WebhookFormat) MarshalYAML() (interface{}, error) {
	if f.Custom != nil {
		return f.Custom, nil
	}
	return string(f.Standard), nil
}

// DestinationType discriminates destination variants in the document.
type DestinationType string

const (
	DestinationDesktop DestinationType = "desktop"
	DestinationWebhook DestinationType = "webhook"
)

// Destination is a configured notification target. Type selects the
// variant; the remaining fields belong to one variant each.
type Destination struct {
	Type DestinationType `yaml:"type"`

	// webhook
	URL    string         `yaml:"url,omitempty"`
	Format *WebhookFormat `yaml:"format,omitempty"`

	// desktop
	Summary string `yaml:"summary,omitempty"`
	// Persistent suppresses auto-dismiss of the desktop notification.
	Persistent bool `yaml:"persistent,omitempty"`
}

// Config is a loaded noti configuration document.
type Config struct {
	Destination []Destination `yaml:"destination"`
	Stream      Stream        `yaml:"stream"`
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type document struct {
		Destination []Destination `yaml:"destination"`
		Stream      *Stream       `yaml:"stream"`
	}
	var doc document
	if err := node.Decode(&doc); err != nil {
		return err
	}
	c.Destination = doc.Destination
	if doc.Stream != nil {
		c.Stream = *doc.Stream
	} else {
		c.Stream = DefaultStream()
	}
	return nil
}

// Validate checks everything that must fail before any dispatch attempt:
// destination types, webhook URLs, custom methods, templates and headers.
func (c *Config) Validate() error {
	for i := range c.Destination {
		if err := c.Destination[i].Validate(); err != nil {
			return fmt.Errorf("destination %d: %w", i, err)
		}
	}
	return nil
}

func (d *Destination) Validate() error {
	switch d.Type {
	case DestinationDesktop:
		return nil
	case DestinationWebhook:
		if err := validateURL(d.URL); err != nil {
			return err
		}
		if d.Format == nil {
			return fmt.Errorf("webhook destination needs a format")
		}
		return d.Format.Validate()
	}
	return fmt.Errorf("unknown destination type %q", d.Type)
}

func (f *WebhookFormat) Validate() error {
	if f.Custom == nil {
		switch f.Standard {
		case FormatPlainText, FormatDiscord, FormatGoogleChat, FormatSlack:
			return nil
		}
		return fmt.Errorf("unknown webhook format %q", f.Standard)
	}

	switch f.Custom.HTTP.Method {
	case "POST", "PATCH", "PUT":
	default:
		return fmt.Errorf("invalid method %q: must be POST, PATCH or PUT", f.Custom.HTTP.Method)
	}
	if err := validateTemplate(f.Custom.Template); err != nil {
		return err
	}
	for _, header := range f.Custom.HTTP.Headers {
		if err := validateHeaderName(header.Name); err != nil {
			return err
		}
		if err := validateHeaderValue(header.Name, header.Value); err != nil {
			return err
		}
	}
	return nil
}

// Validation functions
func validateNotEmpty(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("value cannot be empty")
	}
	return nil
}

func validateURL(input string) error {
	if err := validateNotEmpty(input); err != nil {
		return fmt.Errorf("webhook url: %w", err)
	}
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return fmt.Errorf("webhook url must start with http:// or https://")
	}
	return nil
}

func validateTemplate(input string) error {
	if !strings.Contains(input, MessagePlaceholder) {
		return fmt.Errorf("template must contain %s", MessagePlaceholder)
	}
	return nil
}

// Header names are restricted to RFC 7230 token characters.
func validateHeaderName(name string) error {
	if name == "" {
		return fmt.Errorf("header name cannot be empty")
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.ContainsRune("!#$%&'*+-.^_`|~", rune(c)):
		default:
			return fmt.Errorf("invalid header name %q", name)
		}
	}
	return nil
}

// Header values must be visible ASCII, space or tab.
func validateHeaderValue(name, value string) error {
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != ' ' && c != '\t' && (c < 0x21 || c > 0x7e) {
			return fmt.Errorf("invalid value for header %q", name)
		}
	}
	return nil
}
