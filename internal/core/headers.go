package core

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalidHeaderEncoding is returned when raw header text cannot be scanned
var ErrInvalidHeaderEncoding = errors.New("header text is not valid UTF-8")

var (
	// Matches the start of an Authentication-Results (or
	// Authentication-Results-Original) header. The leading group keeps
	// ARC-Authentication-Results from matching while still allowing the
	// header name to appear mid-blob when the input has no line structure.
	authHeaderRe = regexp.MustCompile(`(?i)(^|[^a-zA-Z-])(authentication-results(?:-original)?[ \t]*:)`)

	// Matches mechanism=result tokens inside a header block. The result is
	// a contiguous run of letters, so it stops at whitespace, ';' and '('.
	authSignalRe = regexp.MustCompile(`(?i)\b(spf|dkim|dmarc)[ \t]*=[ \t]*([a-zA-Z]+)`)
)

// ScanAuthSignals extracts SPF/DKIM/DMARC result tokens from raw header
// text. All Authentication-Results blocks are scanned, in document order,
// and every occurrence is reported as a tagged signal with its byte offset.
// Header folding is handled by extending each block until the next physical
// line that does not start with folding whitespace; input without any line
// structure is scanned as a single block.
func ScanAuthSignals(raw string) ([]AuthSignal, error) {
	if !utf8.ValidString(raw) || strings.ContainsRune(raw, 0) {
		return nil, ErrInvalidHeaderEncoding
	}

	var signals []AuthSignal
	seen := make(map[int]bool)
	for _, loc := range authHeaderRe.FindAllStringSubmatchIndex(raw, -1) {
		start := loc[5] // end of the header name and colon
		block := raw[start:blockEnd(raw, start)]
		for _, m := range authSignalRe.FindAllStringSubmatchIndex(block, -1) {
			pos := start + m[0]
			if seen[pos] {
				continue
			}
			seen[pos] = true
			signals = append(signals, AuthSignal{
				Mechanism: AuthMechanism(strings.ToLower(block[m[2]:m[3]])),
				Result:    strings.ToLower(block[m[4]:m[5]]),
				Position:  pos,
			})
		}
	}
	return signals, nil
}

// blockEnd returns the byte offset where the header block starting after
// `from` ends: the next newline not followed by folding whitespace, or the
// end of the input.
func blockEnd(raw string, from int) int {
	for i := from; i < len(raw); i++ {
		if raw[i] != '\n' {
			continue
		}
		if i+1 >= len(raw) {
			return i
		}
		if c := raw[i+1]; c != ' ' && c != '\t' {
			return i
		}
	}
	return len(raw)
}

// ResolveSignals reduces scanned signals to at most one result per
// mechanism. When a mechanism occurs more than once across all blocks the
// last occurrence in document order wins, modelling the most recent hop.
func ResolveSignals(signals []AuthSignal) map[AuthMechanism]string {
	positions := make(map[AuthMechanism]int)
	results := make(map[AuthMechanism]string)
	for _, sig := range signals {
		if prev, ok := positions[sig.Mechanism]; ok && prev > sig.Position {
			continue
		}
		positions[sig.Mechanism] = sig.Position
		results[sig.Mechanism] = sig.Result
	}
	return results
}
