package parser

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lynisview/lynisview/pkg/audit"
)

var (
	// A finding line: optional leading timestamp, then WARNING or
	// SUGGESTION (optionally bracketed, optionally followed by a colon),
	// then the message.
	findingRE = regexp.MustCompile(
		`(?i)^(?:\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\s+)?` +
			`\s*(?:\[\s*)?` +
			`(WARNING|SUGGESTION)` +
			`\s*(?:\]\s*)?(?::\s*)?` +
			`(.*\S)?\s*$`)

	// A test-context line announcing which check is executing, e.g.
	// "Performing test ID SSH-7408" or "Test: SSH-7408".
	testContextRE = regexp.MustCompile(`(?i)^\s*(?:Test|Performing test ID):?\s*([A-Z0-9-]+)`)

	// Inline test attribution inside a message, e.g. "[test:PHP-2372]".
	inlineTestIDRE = regexp.MustCompile(`(?i)\[test:([A-Za-z0-9_-]+)\]`)

	// Placeholder artifacts meaning "nothing recorded".
	placeholderRE = regexp.MustCompile(`\[(?:details|solution):-\]\s*`)
)

// ParseLogFile extracts findings from the scanner log at path. A file
// that does not exist or cannot be opened yields an empty result.
func ParseLogFile(path string) []*audit.Finding {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	return ParseLog(f, filepath.Base(path))
}

// ParseLog scans log lines from r and returns the findings in file order.
// sourceFile is recorded on each finding for provenance.
//
// The only state carried between lines is the current test id: a
// test-context line sets it, and it remains the default attribution for
// subsequent findings until overwritten by the next context line.
func ParseLog(r io.Reader, sourceFile string) []*audit.Finding {
	var findings []*audit.Finding
	currentTestID := ""
	lineNo := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.ToValidUTF8(sc.Text(), "�"))
		if line == "" {
			continue
		}

		if m := testContextRE.FindStringSubmatch(line); m != nil {
			currentTestID = strings.ToUpper(m[1])
			continue
		}

		m := findingRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		ftype := audit.FindingSuggestion
		if strings.EqualFold(m[1], "WARNING") {
			ftype = audit.FindingWarning
		}
		rawMsg := m[2]

		// An inline [test:ID] marker is more specific than the ambient
		// context and overrides it for this finding only.
		testID := currentTestID
		if im := inlineTestIDRE.FindStringSubmatch(rawMsg); im != nil {
			testID = strings.ToUpper(im[1])
			rawMsg = strings.Replace(rawMsg, im[0], "", 1)
		}

		msg := strings.TrimSpace(placeholderRE.ReplaceAllString(rawMsg, ""))
		category := audit.GuessCategory(msg, testID)

		findings = append(findings, &audit.Finding{
			ID:         audit.MakeFindingID(ftype, msg, testID, category),
			Type:       ftype,
			Message:    msg,
			TestID:     testID,
			Category:   category,
			Evidence:   []string{line},
			SourceFile: sourceFile,
			SourceLine: lineNo,
			Status:     audit.StatusUnchanged,
		})
	}
	return findings
}
