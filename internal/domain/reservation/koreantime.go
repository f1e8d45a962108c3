package reservation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var koreanTimePattern = regexp.MustCompile(`^(오전|오후)\s*(\d{1,2}):(\d{2})$`)

// ParseKoreanTime converts a 12-hour Korean time label to 24-hour "HH:MM".
// "오후 3:15" becomes "15:15", "오전 12:00" becomes "00:00" and
// "오후 12:00" stays "12:00".
func ParseKoreanTime(label string) (string, error) {
	m := koreanTimePattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return "", fmt.Errorf("unrecognized time label %q", label)
	}

	hour, err := strconv.Atoi(m[2])
	if err != nil || hour < 1 || hour > 12 {
		return "", fmt.Errorf("unrecognized time label %q", label)
	}
	minute, err := strconv.Atoi(m[3])
	if err != nil || minute > 59 {
		return "", fmt.Errorf("unrecognized time label %q", label)
	}

	if m[1] == "오전" {
		if hour == 12 {
			hour = 0
		}
	} else if hour != 12 {
		hour += 12
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
