// Package share renders the daily countdown update and puts it on the
// system clipboard.
package share

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"

	"github.com/twiced-technology-gmbh/gradwatch/internal/timeline"
)

// ErrClipboardUnavailable is returned when no clipboard tool is present.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Data is what a share template can reference. Values are preformatted.
type Data struct {
	Today  string
	Days   string
	Years  string
	Months string
	Hours  string
}

// NewData computes the share values for the countdown to target at now.
// Today is rendered in loc.
func NewData(target, now time.Time, loc *time.Location) Data {
	if loc == nil {
		loc = time.UTC
	}
	tot := timeline.CountTotals(target, now)
	return Data{
		Today:  timeline.FormatDate(now.In(loc)),
		Days:   humanize.Comma(tot.Days),
		Years:  fmt.Sprintf("%.2f", tot.Years),
		Months: fmt.Sprintf("%.1f", tot.Months),
		Hours:  humanize.Comma(tot.Hours),
	}
}

// Render executes tmpl against d.
func Render(tmpl string, d Data) (string, error) {
	t, err := template.New("share").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("share: parse template: %w", err)
	}
	var b strings.Builder
	if err := t.Execute(&b, d); err != nil {
		return "", fmt.Errorf("share: render: %w", err)
	}
	return b.String(), nil
}

// writeAll is swapped in tests.
var writeAll = clipboard.WriteAll

// Copy writes text to the system clipboard.
func Copy(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	if err := writeAll(text); err != nil {
		return fmt.Errorf("%w: %w", ErrClipboardUnavailable, err)
	}
	return nil
}
