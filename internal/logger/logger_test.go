package logger

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantNil bool
	}{
		{in: "debug", want: "debug"},
		{in: "info", want: "info"},
		{in: "warn", want: "warn"},
		{in: "error", want: "error"},
		{in: "verbose", wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseLevel(tt.in)
			if tt.wantNil {
				if got != nil {
					t.Errorf("parseLevel(%q) = %v, want nil", tt.in, got)
				}
				return
			}
			if got == nil || got.String() != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestNop(t *testing.T) {
	l := Nop().Named("storage")
	l.Info("discarded", String("k", "v"), Bool("b", true))
	if err := l.Sync(); err != nil {
		t.Errorf("Sync() = %v", err)
	}
}
