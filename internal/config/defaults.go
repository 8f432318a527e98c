package config

const exampleWebhookURL = "https://discord.com/api/webhooks/<CHANNEL_ID>/<WEBHOOK_ID>"

// DefaultDesktop returns an example desktop configuration.
func DefaultDesktop() *Config {
	return &Config{
		Destination: []Destination{{
			Type:       DestinationDesktop,
			Summary:    "Noti",
			Persistent: false,
		}},
		Stream: DefaultStream(),
	}
}

// DefaultWebhook returns an example webhook configuration.
func DefaultWebhook() *Config {
	return &Config{
		Destination: []Destination{{
			Type:   DestinationWebhook,
			URL:    exampleWebhookURL,
			Format: &WebhookFormat{Standard: FormatDiscord},
		}},
		Stream: DefaultStream(),
	}
}

// DefaultCustomWebhook returns an example configuration using a custom
// webhook format with a Discord-shaped template.
func DefaultCustomWebhook() *Config {
	return &Config{
		Destination: []Destination{{
			Type: DestinationWebhook,
			URL:  exampleWebhookURL,
			Format: &WebhookFormat{
				Custom: &CustomFormat{
					HTTP: HTTPOptions{
						Headers: Headers{{Name: "Content-Type", Value: "application/json"}},
						Method:  "POST",
					},
					Template: `{"content": "$(message)"}`,
					Escape:   true,
				},
			},
		}},
		Stream: DefaultStream(),
	}
}
