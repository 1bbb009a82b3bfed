//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "errors"

var errUnsupported = errors.New("clipboard text operations are not supported on this platform")

func WriteText(string) error {
	return errUnsupported
}
