package main

import (
	"strings"
	"testing"

	"github.com/google/shlex"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "  home  -c Event ", want: []string{"home", "-c", "Event"}},
		{in: `post -t "Clean-up drive" -d 'Bring gloves'`, want: []string{"post", "-t", "Clean-up drive", "-d", "Bring gloves"}},
		{in: `edit 1 -t ""`, want: []string{"edit", "1", "-t", ""}},
		{in: `post -t Bob\'s\ store`, want: []string{"post", "-t", "Bob's store"}},
		{in: `post -t "open`, wantErr: true},
	}
	for _, tt := range tests {
		got, err := shlex.Split(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Fatalf("%q: got %q, want %q", tt.in, got, tt.want)
		}
	}
}
