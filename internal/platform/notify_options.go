// Package platform sends desktop notifications through the host's native
// notification service.
package platform

import (
	"errors"
	"strings"
)

// AppName identifies the application to the notification service.
const AppName = "markview"

// ErrUnsupported is returned where the host offers no notification service.
var ErrUnsupported = errors.New("desktop notifications are not supported on this platform")

func displayTitle(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return AppName
}

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// TimeoutMS is how long the notification stays visible. Zero uses 5000.
	TimeoutMS int32
}

func (o Options) timeout() int32 {
	if o.TimeoutMS <= 0 {
		return 5000
	}
	return o.TimeoutMS
}
