//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify posts a banner through osascript. Notification Center decides how
// long it stays, so opts.TimeoutMS has no effect here.
func Notify(title, body string, opts Options) error {
	script := fmt.Sprintf("display notification %q with title %q subtitle %q", body, displayTitle(title), AppName)
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return fmt.Errorf("osascript: %w", err)
	}
	return nil
}
