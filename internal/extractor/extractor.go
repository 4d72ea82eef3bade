// Package extractor recovers candidate code from raw LLM responses: strips
// reasoning-tag blocks, then takes the first fenced code block, else the
// whole cleaned text. When several fenced blocks are present the FIRST one
// wins; later blocks are usually explanation, not the deliverable.
package extractor

import (
	"errors"
	"regexp"
	"strings"
)

// MinCandidateLen is the minimum plausible length for extracted scanner
// code. Anything shorter is treated as "no code in response" so the caller
// can retry with an explicit output-only-code instruction.
const MinCandidateLen = 50

// ErrNoCode is returned when a response contains no usable code.
var ErrNoCode = errors.New("extractor: no code found in response")

// ErrTooShort is returned by CheckPlausible for candidates below
// MinCandidateLen.
var ErrTooShort = errors.New("extractor: extracted code below minimum plausible length")

// thinkRe matches paired reasoning-tag blocks (<think>, <thinking>,
// <reasoning>) anywhere in the text, including their content.
var thinkRe = regexp.MustCompile(`(?s)<(think|thinking|reasoning)>.*?</(think|thinking|reasoning)>\s*`)

// orphanCloseRe matches a dangling closing reasoning tag. Some providers
// strip the opening tag server-side, leaving reasoning text terminated by a
// bare closing tag; everything up to and including it is chatter.
var orphanCloseRe = regexp.MustCompile(`(?s)^.*?</(think|thinking|reasoning)>\s*`)

// fenceRe captures the first fenced code block. Both backtick and tilde
// fences are accepted, with an optional language tag. The opening fence may
// sit mid-line ("Here you go: ```python"), since models often run prose and
// fence together on one line.
var fenceRe = regexp.MustCompile("(?s)(?:`{3}|~{3})[^\\n]*\\n(.*?)\\n?(?:`{3}|~{3})")

// Extract recovers candidate code from a raw response. It never returns
// residual fence delimiters or reasoning tags; the validator treats any
// leftover marker as a critical structure issue.
func Extract(raw string) (string, error) {
	cleaned := stripThinkBlocks(raw)

	if m := fenceRe.FindStringSubmatch(cleaned); m != nil {
		candidate := m[1]
		if strings.TrimSpace(candidate) == "" {
			return "", ErrNoCode
		}
		return candidate, nil
	}

	candidate := strings.TrimSpace(cleaned)
	if candidate == "" {
		return "", ErrNoCode
	}
	return candidate, nil
}

// CheckPlausible reports whether extracted code is long enough to plausibly
// be a scanner. Kept separate from Extract so tests and tooling can inspect
// short extractions.
func CheckPlausible(code string) error {
	if len(code) < MinCandidateLen {
		return ErrTooShort
	}
	return nil
}

// stripThinkBlocks removes paired reasoning blocks and any dangling closing
// tag left by providers that strip the opening tag.
func stripThinkBlocks(s string) string {
	s = thinkRe.ReplaceAllString(s, "")
	if strings.Contains(s, "</think") || strings.Contains(s, "</reasoning") {
		s = orphanCloseRe.ReplaceAllString(s, "")
	}
	return s
}
