package config

import (
	"fmt"

	"github.com/manifoldco/promptui"
)

type Prompt struct{}

func NewPrompt() *Prompt {
	return &Prompt{}
}

// PromptDestination interactively builds a new destination.
func (p *Prompt) PromptDestination() (Destination, error) {
	typePrompt := promptui.Select{
		Label: "Destination Type",
		Items: []string{"desktop", "webhook"},
	}
	_, destType, err := typePrompt.Run()
	if err != nil {
		return Destination{}, fmt.Errorf("destination type prompt failed: %w", err)
	}

	var dest Destination
	dest.Type = DestinationType(destType)

	switch dest.Type {
	case DestinationDesktop:
		if err := p.promptDesktop(&dest); err != nil {
			return Destination{}, err
		}
	case DestinationWebhook:
		if err := p.promptWebhook(&dest); err != nil {
			return Destination{}, err
		}
	}

	return dest, nil
}

func (p *Prompt) promptDesktop(dest *Destination) error {
	summaryPrompt := promptui.Prompt{
		Label:     "Notification Summary",
		AllowEdit: true,
		Validate:  validateNotEmpty,
	}
	summary, err := summaryPrompt.Run()
	if err != nil {
		return fmt.Errorf("summary prompt failed: %w", err)
	}
	dest.Summary = summary

	persistentPrompt := promptui.Select{
		Label: "Keep notification until dismissed",
		Items: []string{"no", "yes"},
	}
	_, persistent, err := persistentPrompt.Run()
	if err != nil {
		return fmt.Errorf("persistent prompt failed: %w", err)
	}
	dest.Persistent = persistent == "yes"

	return nil
}

func (p *Prompt) promptWebhook(dest *Destination) error {
	urlPrompt := promptui.Prompt{
		Label:     "Webhook URL",
		Validate:  validateURL,
		AllowEdit: true,
	}
	url, err := urlPrompt.Run()
	if err != nil {
		return fmt.Errorf("URL prompt failed: %w", err)
	}
	dest.URL = url

	formatPrompt := promptui.Select{
		Label: "Webhook Format",
		Items: []string{"plain_text", "discord", "google_chat", "slack", "custom"},
	}
	_, formatKind, err := formatPrompt.Run()
	if err != nil {
		return fmt.Errorf("format prompt failed: %w", err)
	}

	if formatKind != "custom" {
		dest.Format = &WebhookFormat{Standard: StandardFormat(formatKind)}
		return nil
	}

	custom, err := p.promptCustomFormat()
	if err != nil {
		return err
	}
	dest.Format = &WebhookFormat{Custom: custom}
	return nil
}

func (p *Prompt) promptCustomFormat() (*CustomFormat, error) {
	methodPrompt := promptui.Select{
		Label: "HTTP Method",
		Items: []string{"POST", "PATCH", "PUT"},
	}
	_, method, err := methodPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("method prompt failed: %w", err)
	}

	templatePrompt := promptui.Prompt{
		Label:     fmt.Sprintf("Body Template (must contain %s)", MessagePlaceholder),
		Validate:  validateTemplate,
		AllowEdit: true,
		Default:   `{"content": "$(message)"}`,
	}
	template, err := templatePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("template prompt failed: %w", err)
	}

	escapePrompt := promptui.Select{
		Label: "Escape control characters in messages",
		Items: []string{"yes", "no"},
	}
	_, escape, err := escapePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("escape prompt failed: %w", err)
	}

	headers, err := p.promptHeaders()
	if err != nil {
		return nil, err
	}

	return &CustomFormat{
		HTTP:     HTTPOptions{Headers: headers, Method: method},
		Template: template,
		Escape:   escape == "yes",
	}, nil
}

func (p *Prompt) promptHeaders() (Headers, error) {
	headers := Headers{{Name: "Content-Type", Value: "application/json"}}

	for {
		namePrompt := promptui.Prompt{
			Label:     "Extra Header Name (empty to finish)",
			AllowEdit: true,
		}
		name, err := namePrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("header name prompt failed: %w", err)
		}
		if name == "" {
			return headers, nil
		}
		if err := validateHeaderName(name); err != nil {
			fmt.Println(err)
			continue
		}
		if _, exists := headers.Get(name); exists {
			fmt.Printf("header %q already set\n", name)
			continue
		}

		valuePrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Value for %s", name),
			AllowEdit: true,
			Validate: func(input string) error {
				return validateHeaderValue(name, input)
			},
		}
		value, err := valuePrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("header value prompt failed: %w", err)
		}

		headers = append(headers, Header{Name: name, Value: value})
	}
}
