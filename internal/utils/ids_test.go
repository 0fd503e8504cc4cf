package utils

import "testing"

func TestParseID(t *testing.T) {
	cases := []struct {
		in   string
		want uint
		ok   bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, true},
		{"007", 7, true},
		{"", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{" 1", 0, false},
		{"1.5", 0, false},
		{"abc", 0, false},
		{"0x10", 0, false},
		{"99999999999999999999999", 0, false}, // overflow
	}
	for _, tc := range cases {
		got, ok := ParseID(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseID(%q) = (%d, %v); want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
