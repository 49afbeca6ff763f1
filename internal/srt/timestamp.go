package srt

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidTimestamp reports a seconds value that cannot be rendered.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// maxSeconds keeps the microsecond conversion inside int64.
const maxSeconds = float64(math.MaxInt64 / 1_000_000)

// FormatTimestamp renders seconds as HH:MM:SS,mmm.
//
// The value is resolved to whole microseconds first and then truncated to
// milliseconds, so 1.9999 becomes 00:00:01,999. Hours widen past two digits
// instead of wrapping.
func FormatTimestamp(seconds float64) (string, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "", fmt.Errorf("%w: %v", ErrInvalidTimestamp, seconds)
	}
	if seconds < 0 {
		return "", fmt.Errorf("%w: negative value %v", ErrInvalidTimestamp, seconds)
	}
	if seconds > maxSeconds {
		return "", fmt.Errorf("%w: %v exceeds supported range", ErrInvalidTimestamp, seconds)
	}
	micros := int64(math.RoundToEven(seconds * 1e6))
	millis := micros / 1000
	hours := millis / 3_600_000
	minutes := (millis / 60_000) % 60
	secs := (millis / 1000) % 60
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms), nil
}

// ParseTimestamp converts an SRT timestamp back into seconds. A period is
// accepted in place of the comma.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 || millis < 0 || millis > 999 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidTimestamp, value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
