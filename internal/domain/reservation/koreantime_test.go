package reservation

import "testing"

func TestParseKoreanTime(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"오전 10:45", "10:45"},
		{"오후 1:00", "13:00"},
		{"오후 3:15", "15:15"},
		{"오후 7:45", "19:45"},
		{"오전 12:00", "00:00"},
		{"오후 12:00", "12:00"},
		{"오후12:30", "12:30"},
		{"  오전 9:05  ", "09:05"},
	}

	for _, tc := range cases {
		got, err := ParseKoreanTime(tc.label)
		if err != nil {
			t.Errorf("ParseKoreanTime(%q): unexpected error %v", tc.label, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseKoreanTime(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestParseKoreanTimeRejectsMalformed(t *testing.T) {
	for _, label := range []string{"", "3:15", "오후 13:00", "오후 0:30", "오전 3:75", "afternoon 3:15", "오후 3"} {
		if _, err := ParseKoreanTime(label); err == nil {
			t.Errorf("ParseKoreanTime(%q): expected error", label)
		}
	}
}
