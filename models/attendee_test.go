package models

import "testing"

func TestFindDuplicate(t *testing.T) {
	existing := []Attendee{
		{Name: "John Doe", Email: "john@example.com"},
		{Name: "Jane Smith", Email: ""},
	}

	cases := []struct {
		name      string
		candidate Attendee
		wantDup   bool
	}{
		{
			name:      "same email different name",
			candidate: Attendee{Name: "Johnny D", Email: "john@example.com"},
			wantDup:   true,
		},
		{
			name:      "email match is case insensitive",
			candidate: Attendee{Name: "Other", Email: "  JOHN@Example.COM "},
			wantDup:   true,
		},
		{
			name:      "with email only email counts, same name passes",
			candidate: Attendee{Name: "John Doe", Email: "other@example.com"},
			wantDup:   false,
		},
		{
			name:      "no email falls back to name",
			candidate: Attendee{Name: "jane smith", Email: ""},
			wantDup:   true,
		},
		{
			name:      "no email and candidate email empty cannot match by email",
			candidate: Attendee{Name: "Nobody", Email: ""},
			wantDup:   false,
		},
		{
			name:      "empty email rows never match by email",
			candidate: Attendee{Name: "Different", Email: "jane@new.com"},
			wantDup:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dup := FindDuplicate(tc.candidate, existing)
			if (dup != nil) != tc.wantDup {
				t.Errorf("FindDuplicate(%+v) = %v, want duplicate=%v", tc.candidate, dup, tc.wantDup)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"  John@Example.COM ": "john@example.com",
		"Jane Smith":          "jane smith",
		"":                    "",
		"   ":                 "",
	}
	for in, want := range cases {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
