package utils

import "time"

// NowMillis returns the current wall-clock time in milliseconds since epoch,
// the unit every persisted timestamp in this service uses.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// MillisToTime converts a milliseconds-since-epoch timestamp to a time.Time.
func MillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// FormatMillis renders a milliseconds timestamp the way the export sheet and
// the admin dashboard display submission times.
func FormatMillis(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04:05")
}
