package media

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	disallowedRun = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

// Sanitize derives a URL-safe name from a user-supplied filename: whitespace
// runs become underscores, everything outside [A-Za-z0-9._-] is stripped, and
// the result is lower-cased. The transform is idempotent.
func Sanitize(name string) string {
	name = whitespaceRun.ReplaceAllString(name, "_")
	name = disallowedRun.ReplaceAllString(name, "")
	return strings.ToLower(name)
}

// StorageKey builds the object key for an original upload:
// "<folder>/<epochMillis>-<sanitizedName>". The millisecond prefix keeps two
// uploads of the same filename from colliding; simultaneous uploads within the
// same tick would overwrite each other, which only affects the colliding
// object.
func StorageKey(folder, name string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s", folder, now.UnixMilli(), Sanitize(name))
}
