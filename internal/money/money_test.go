package money

import "testing"

func TestParseDecimalToMinor(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0", 0, true},
		{"0.01", 1, true},
		{".50", 50, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{".", 0, false},
		{"", 0, false},
		// Non-ASCII digits must be rejected, not byte-mangled.
		{"1.٣", 0, false},
		{"١٢.34", 0, false},
		// Values whose minor units would overflow int64.
		{"92233720368547758.08", 0, false},
		{"92233720368547759", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToMinor(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseSignedDecimalToMinor(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"-1.50", -150, true},
		{"+2", 200, true},
		{"0", 0, true},
		{"-0.05", -5, true},
		{"--1", 0, false},
		{"-", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseSignedDecimalToMinor(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestFormatMinor(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{1234, "12.34"},
		{0, "0.00"},
		{5, "0.05"},
		{-5, "-0.05"},
		{-1234, "-12.34"},
		{100, "1.00"},
	}
	for _, tc := range cases {
		if got := FormatMinor(tc.in); got != tc.out {
			t.Fatalf("%d expected %q, got %q", tc.in, tc.out, got)
		}
	}
}
