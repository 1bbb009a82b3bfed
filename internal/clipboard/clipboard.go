// Package clipboard publishes copied marker coordinates to the system
// clipboard.
package clipboard

// Writer sends text to the system clipboard without reporting failure to
// the caller. Done, when set, observes each write.
type Writer struct {
	Done func(text string, err error)
}

// SetText writes text and hands the result to Done.
func (w Writer) SetText(text string) {
	err := WriteText(text)
	if w.Done != nil {
		w.Done(text, err)
	}
}
