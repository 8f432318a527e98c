// Package notifier shows desktop notifications through the OS
// notification daemon.
package notifier

import (
	"github.com/gen2brain/beeep"
)

const appName = "noti"

// Desktop sends notifications via beeep.
type Desktop struct{}

func NewDesktop() *Desktop {
	beeep.AppName = appName
	return &Desktop{}
}

// Show displays one notification. Persistent notifications are sent as
// alerts, which the notification daemon keeps on screen until dismissed.
func (d *Desktop) Show(summary, body string, persistent bool) error {
	if persistent {
		return beeep.Alert(summary, body, "")
	}
	return beeep.Notify(summary, body, "")
}
