package handler

import "testing"

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"300", 300},
		{"86400", 86400},
		{"1", 1},
		{"", 3600},
		{"0", 3600},
		{"-60", 3600},
		{"abc", 3600},
		{"3.5", 3600},
	}
	for _, tt := range tests {
		if got := parseTTL(tt.in); got != tt.want {
			t.Errorf("parseTTL(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRecordTypeOptions(t *testing.T) {
	opts := recordTypeOptions()
	if len(opts) == 0 {
		t.Fatal("no record types offered")
	}
	if opts[0] != "A" {
		t.Errorf("first option = %q, want A", opts[0])
	}
	seen := make(map[string]bool, len(opts))
	for _, o := range opts {
		if o == "" {
			t.Fatal("empty type name in options")
		}
		if seen[o] {
			t.Fatalf("duplicate type %q", o)
		}
		seen[o] = true
	}
	for _, want := range []string{"AAAA", "CNAME", "MX", "TXT"} {
		if !seen[want] {
			t.Errorf("missing type %q", want)
		}
	}
}
