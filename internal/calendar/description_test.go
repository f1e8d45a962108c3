package calendar

import "testing"

func TestBuildCastingDescription(t *testing.T) {
	cases := []struct {
		name string
		in   DescriptionInput
		want string
	}{
		{
			name: "empty input",
			in:   DescriptionInput{},
			want: "",
		},
		{
			name: "partner only",
			in:   DescriptionInput{PartnerName: "김하늘"},
			want: "상대역: 김하늘",
		},
		{
			name: "partner with booking memo",
			in: DescriptionInput{
				PartnerName:        "김하늘",
				ReservationName:    "박지민",
				ReservationContact: "010-1234-5678",
			},
			want: "상대역: 김하늘\n예약자: 박지민\n연락처: 010-1234-5678",
		},
		{
			name: "memo without partner",
			in: DescriptionInput{
				ReservationName:    "박지민",
				ReservationContact: "010-1234-5678",
			},
			want: "예약자: 박지민\n연락처: 010-1234-5678",
		},
		{
			name: "contact without name",
			in:   DescriptionInput{ReservationContact: "010-1234-5678"},
			want: "연락처: 010-1234-5678",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildCastingDescription(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
