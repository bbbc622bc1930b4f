package pulse

import (
	"regexp"
	"strings"
)

// Unknown is returned when a user-agent string matches no known pattern.
const Unknown = "Unknown"

// Environment is the device/browser/OS classification attached to every
// event and to the session-open record.
type Environment struct {
	DeviceType string
	Browser    string
	OS         string
}

var (
	tabletPattern = regexp.MustCompile(`(?i)tablet|ipad|playbook|silk`)
	mobilePattern = regexp.MustCompile(`Mobile|Android|iP(hone|od)|IEMobile|BlackBerry|Kindle|Silk-Accelerated|(hpw|web)OS|Opera M(obi|ini)`)
)

// ClassifyEnvironment derives the full classification from a user-agent
// string. All three classifiers are pure and cheap; they are recomputed
// per event.
func ClassifyEnvironment(userAgent string) Environment {
	return Environment{
		DeviceType: DeviceType(userAgent),
		Browser:    Browser(userAgent),
		OS:         OS(userAgent),
	}
}

// DeviceType classifies the user agent as "tablet", "mobile" or "desktop".
// The tablet check runs first: an Android tablet carries the Android token
// without "Mobi" and must not fall through to the mobile arm.
func DeviceType(userAgent string) string {
	lower := strings.ToLower(userAgent)
	if tabletPattern.MatchString(userAgent) ||
		(strings.Contains(lower, "android") && !strings.Contains(lower, "mobi")) {
		return "tablet"
	}
	if mobilePattern.MatchString(userAgent) {
		return "mobile"
	}
	return "desktop"
}

// browserChecks in priority order. These are naive substring checks: a
// Chrome UA also contains "Safari" and a Chromium Edge UA contains
// "Chrome", so whichever token is checked first wins. The order is part
// of the reporting contract and must not be rearranged.
var browserChecks = []string{"Firefox", "Chrome", "Safari", "Edge", "Opera"}

// Browser returns the first matching browser token, or Unknown.
func Browser(userAgent string) string {
	for _, name := range browserChecks {
		if strings.Contains(userAgent, name) {
			return name
		}
	}
	return Unknown
}

// osChecks in priority order. Same naive-substring caveat as browsers:
// an iPhone UA contains "like Mac OS X" and resolves to MacOS, an Android
// UA containing "Linux" resolves to Linux.
var osChecks = []struct {
	token string
	name  string
}{
	{"Win", "Windows"},
	{"Mac", "MacOS"},
	{"Linux", "Linux"},
	{"Android", "Android"},
	{"iOS", "iOS"},
}

// OS returns the first matching operating system token, or Unknown.
func OS(userAgent string) string {
	for _, check := range osChecks {
		if strings.Contains(userAgent, check.token) {
			return check.name
		}
	}
	return Unknown
}
