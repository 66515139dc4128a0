package audit

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

var (
	wsRE       = regexp.MustCompile(`\s+`)
	nonprintRE = regexp.MustCompile("[^\x09\x0A\x0D\x20-\x7E]+")
)

// NormalizeText prepares free text for stable hashing and comparison:
// non-printable characters removed, whitespace collapsed, trimmed,
// lowercased. Idempotent.
func NormalizeText(s string) string {
	s = nonprintRE.ReplaceAllString(s, "")
	s = wsRE.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// MakeAuditID derives a stable audit id from the source identity key and,
// when known, the scan start time (second precision, UTC). Re-parsing
// unchanged files yields the same id; a changed scan start changes it.
func MakeAuditID(sourceKey string, startedAt time.Time) string {
	base := sourceKey
	if !startedAt.IsZero() {
		base += "|" + startedAt.UTC().Format("20060102T150405Z")
	}
	return sha1Hex(base)[:16]
}

// MakeFindingID prefers the scanner's own test id. Without one it falls
// back to a short hash of the normalized content, so a finding still gets
// a deterministic id across repeated parses of the same log.
func MakeFindingID(ftype FindingType, message, testID, category string) string {
	if testID != "" {
		return strings.TrimSpace(testID)
	}
	base := string(ftype) + "|" + category + "|" + NormalizeText(message)
	return sha1Hex(base)[:12]
}
