package session

import (
	"testing"

	"goslop/src/overlay"
)

func TestFormat(t *testing.T) {
	res := overlay.Result{X: 10, Y: 20.5, W: 100, H: 50, WindowID: 0x1e00007}
	tests := []struct {
		format    string
		cancelled bool
		want      string
	}{
		{format: "%g\n", want: "100x50+10+21\n"},
		{format: `%x,%y %wx%h\t%i`, want: "10,21 100x50\t31457287"},
		{format: "%c", cancelled: true, want: "1"},
		{format: "%c", want: "0"},
		{format: "100%%", want: "100%"},
		{format: `a\b`, want: `a\b`},
		{format: "", want: ""},
	}
	for _, tt := range tests {
		got, err := Format(tt.format, res, tt.cancelled)
		if err != nil {
			t.Errorf("Format(%q): %v", tt.format, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormatRejectsUnknownVerbs(t *testing.T) {
	for _, format := range []string{"%q", "trailing %"} {
		if _, err := Format(format, overlay.Result{}, false); err == nil {
			t.Errorf("Format(%q) should fail", format)
		}
	}
}
