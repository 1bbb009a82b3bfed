//go:build !linux && !darwin && !windows

package platform

// Notify has no notification service to reach on this host.
func Notify(title, body string, opts Options) error {
	return ErrUnsupported
}
