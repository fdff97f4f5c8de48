package parser

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"79879335515", "79879335515"},
		{"89879335515", "79879335515"},
		{"+79879335515", "79879335515"},
		{"9879335515", "79879335515"},
		{"8 (987) 933-55-15", "79879335515"},
		{"+7 987 933 55 15", "79879335515"},
		{"", ""},
		{"12345", ""},
		{"798793355151", ""},          // 12 digits, no plus
		{"7987933551", ""},            // 10 digits starting with 7
		{"abc", ""},
		{"+89879335515", ""},          // plus with 8 prefix
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"89879335515", "+79879335515", "9879335515"}
	for _, in := range inputs {
		once := NormalizePhone(in)
		if once == "" {
			t.Fatalf("NormalizePhone(%q) unexpectedly empty", in)
		}
		if twice := NormalizePhone(once); twice != once {
			t.Errorf("NormalizePhone not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestNormalizeAccount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"40817810099910004312", "40817810099910004312"},
		{"4081 7810 0999 1000 4312", "40817810099910004312"},
		{"2200590431900533", "2200590431900533"},
		{"2200 5904 3190 0533", "2200590431900533"},
		{"123456", ""},
		{"", ""},
		{"408178100999100043121", ""}, // 21 digits
	}
	for _, tc := range cases {
		if got := NormalizeAccount(tc.in); got != tc.want {
			t.Errorf("NormalizeAccount(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
