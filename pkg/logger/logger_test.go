package logger

import (
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name   string
		level  VerboseLevel
		wantV  bool
		wantVV bool
	}{
		{"silent", VerboseSilent, false, false},
		{"verbose", VerboseNormal, true, false},
		{"very verbose", VerboseVery, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			l := NewLoggerTo(int(tt.level), &sb)

			l.V("v message")
			l.VV("vv message")

			out := sb.String()
			if got := strings.Contains(out, "v message"); got != tt.wantV {
				t.Errorf("V output present = %v, want %v", got, tt.wantV)
			}
			if got := strings.Contains(out, "vv message"); got != tt.wantVV {
				t.Errorf("VV output present = %v, want %v", got, tt.wantVV)
			}
		})
	}
}

func TestPrefixes(t *testing.T) {
	var sb strings.Builder
	l := NewLoggerTo(int(VerboseVery), &sb)

	l.V("a")
	l.VV("b")
	l.Info("c")
	l.Error("d")

	out := sb.String()
	for _, want := range []string{"[*] a", "[VV] b", "[+] c", "[!] d"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
