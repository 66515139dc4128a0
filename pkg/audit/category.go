package audit

import "strings"

// CategoryUncategorized is the fallback when no rule matches.
const CategoryUncategorized = "Uncategorized"

type categoryRule struct {
	name     string
	keywords []string
}

// Ordered keyword table; the first matching category wins, so more
// specific categories come first.
var categoryRules = []categoryRule{
	{"SSH", []string{"ssh", "sshd", "openssh"}},
	{"Firewall", []string{"ufw", "iptables", "nftables", "firewalld", "pf"}},
	{"Auth/PAM", []string{"pam", "sudo", "passwd", "shadow", "auth", "login"}},
	{"Kernel", []string{"sysctl", "kernel", "grub", "aslr", "modules", "spectre", "mitigation"}},
	{"Services", []string{"systemd", "service", "daemon", "listening", "port", "rpc"}},
	{"Logging/Auditing", []string{"rsyslog", "journald", "logrotate", "auditd", "syslog"}},
	{"Updates/Packages", []string{"apt", "dnf", "yum", "updates", "upgrade", "package"}},
	{"Crypto/TLS", []string{"tls", "ssl", "openssl", "cipher", "certificate"}},
	{"Filesystems/Permissions", []string{"permission", "permissions", "umask", "mount", "fstab", "sticky", "suid", "sgid"}},
	{"Network", []string{"ipv4", "ipv6", "tcp", "udp", "icmp", "net", "dns"}},
}

// GuessCategory classifies a finding by case-insensitive keyword search
// over test id + message. Conservative and predictable: first rule wins,
// CategoryUncategorized when nothing matches.
func GuessCategory(message, testID string) string {
	hay := NormalizeText(testID + " " + message)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(hay, kw) {
				return rule.name
			}
		}
	}
	return CategoryUncategorized
}
