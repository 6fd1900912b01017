package launch

import "testing"

func TestOpenerCommand(t *testing.T) {
	const url = "https://youtube.com"

	tests := []struct {
		goos     string
		wantName string
	}{
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
		{"darwin", "open"},
		{"windows", "rundll32"},
		{"plan9", ""},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := openerCommand(tt.goos, url)
			if name != tt.wantName {
				t.Fatalf("opener for %s = %q, want %q", tt.goos, name, tt.wantName)
			}
			if name == "" {
				return
			}
			if len(args) == 0 || args[len(args)-1] != url {
				t.Errorf("args = %v, want the URL as final argument", args)
			}
		})
	}
}
