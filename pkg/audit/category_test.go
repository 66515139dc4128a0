package audit

import "testing"

func TestGuessCategory(t *testing.T) {
	tests := []struct {
		name    string
		message string
		testID  string
		want    string
	}{
		{"ssh keyword", "Root login enabled in sshd_config", "", "SSH"},
		{"ssh from test id", "Root login enabled", "SSH-7408", "SSH"},
		{"firewall", "iptables has no active rules", "", "Firewall"},
		{"kernel", "Enable ASLR via sysctl", "", "Kernel"},
		{"packages", "apt updates available", "", "Updates/Packages"},
		{"tls", "Weak cipher suites offered", "", "Crypto/TLS"},
		{"case insensitive", "OPENSSH configuration issue", "", "SSH"},
		{"first rule wins", "sshd service listening on port 22", "", "SSH"},
		{"no match", "Something entirely unrelated", "", CategoryUncategorized},
		{"empty", "", "", CategoryUncategorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GuessCategory(tt.message, tt.testID); got != tt.want {
				t.Errorf("GuessCategory(%q, %q) = %q, want %q", tt.message, tt.testID, got, tt.want)
			}
		})
	}
}
