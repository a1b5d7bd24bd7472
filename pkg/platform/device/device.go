// Package device condenses raw User-Agent strings into short display
// summaries for the audit trail UI.
package device

import (
	"fmt"
	"strings"

	"github.com/mssola/useragent"
)

// Summarize parses a raw User-Agent string into a compact
// "browser major / os / platform" label. Returns "" for empty input so
// callers can omit the field.
func Summarize(userAgentString string) string {
	if userAgentString == "" {
		return ""
	}

	ua := useragent.New(userAgentString)
	browser, version := ua.Browser()

	majorVersion := ""
	if version != "" {
		parts := strings.Split(version, ".")
		if len(parts) > 0 && parts[0] != "" {
			majorVersion = parts[0]
		}
	}

	os := ua.OS()
	platform := "desktop"
	if ua.Mobile() {
		platform = "mobile"
	} else if ua.Bot() {
		platform = "bot"
	}

	browser = strings.ToLower(strings.TrimSpace(browser))
	if browser == "" {
		browser = "unknown"
	}
	os = strings.ToLower(strings.TrimSpace(os))
	if os == "" {
		os = "unknown"
	}

	if majorVersion != "" {
		return fmt.Sprintf("%s %s / %s / %s", browser, majorVersion, os, platform)
	}
	return fmt.Sprintf("%s / %s / %s", browser, os, platform)
}
