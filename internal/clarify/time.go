package clarify

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
var timeNow = time.Now

// nowRFC3339 formats the current time the way session documents store
// timestamps.
func nowRFC3339() string {
	return timeNow().UTC().Format(time.RFC3339)
}
