package ports

// BrowserLauncher opens the converter UI in a local browser once the server
// is listening
type BrowserLauncher interface {
	// Launch opens the URL in the configured or platform-default browser.
	// With noOpen set it does nothing and returns nil.
	Launch(url string, noOpen bool) error
	// Detect reports the browser Launch would use
	Detect() (string, error)
}
