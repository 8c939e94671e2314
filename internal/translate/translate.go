// Package translate formats user-facing messages for the detected locale.
package translate

import (
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var (
	printer     *message.Printer
	printerOnce sync.Once
)

// languages returns the user's preferred locales, falling back to en-US
// when none can be detected.
func languages() []string {
	locales, err := locale.GetLocales()
	if err != nil || len(locales) == 0 {
		return []string{"en-US"}
	}
	return locales
}

// From an en-US Sprintf() format, translate to string. The locale is
// detected on first use.
func From(key message.Reference, args ...any) string {
	printerOnce.Do(func() {
		printer = message.NewPrinter(message.MatchLanguage(languages()...))
	})
	return printer.Sprintf(key, args...)
}
