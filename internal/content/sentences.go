package content

import (
	"strings"
	"unicode"
)

type Level string

const (
	LevelHigh     Level = "high"
	LevelElevated Level = "elevated"
	LevelModerate Level = "moderate"
	LevelLow      Level = "low"
)

// ProbabilityLevel buckets a sentence AI probability for highlighting.
func ProbabilityLevel(p float64) Level {
	switch {
	case p >= 80:
		return LevelHigh
	case p >= 60:
		return LevelElevated
	case p >= 40:
		return LevelModerate
	default:
		return LevelLow
	}
}

func isTerminator(r rune) bool {
	switch r {
	case '。', '！', '？', '；', '!', '?', ';', '…':
		return true
	}
	return false
}

func isCloser(r rune) bool {
	switch r {
	case '”', '’', '」', '』', '）', '】', '》', '"', '\'', ')':
		return true
	}
	return false
}

// SplitSentences cuts text after sentence terminators (with trailing closing
// quotes) and after line breaks. Joining the pieces gives back text exactly.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if !isTerminator(r) && r != '\n' {
			continue
		}

		end := i + 1
		if r == '\n' {
			for end < len(runes) && (runes[end] == '\n' || runes[end] == '\r') {
				end++
			}
		} else {
			for end < len(runes) && (isTerminator(runes[end]) || isCloser(runes[end])) {
				end++
			}
		}

		out = appendPiece(out, string(runes[start:end]))
		start = end
		i = end - 1
	}
	if start < len(runes) {
		out = appendPiece(out, string(runes[start:]))
	}
	return out
}

// appendPiece glues whitespace-only pieces onto the previous sentence.
func appendPiece(out []string, piece string) []string {
	if strings.TrimSpace(piece) == "" && len(out) > 0 {
		out[len(out)-1] += piece
		return out
	}
	return append(out, piece)
}

// Covers reports whether the sentences, joined in order, reproduce text
// exactly, line breaks and spacing included.
func Covers(text string, sentences []SentenceScore) bool {
	var sb strings.Builder
	for _, s := range sentences {
		sb.WriteString(s.Text)
	}
	return sb.String() == text
}

// Realign rebuilds the per-sentence breakdown from a local split of text,
// reusing model probabilities for sentences it reproduced and fallback otherwise.
func Realign(text string, sentences []SentenceScore, fallback float64) []SentenceScore {
	known := make(map[string]float64, len(sentences))
	for _, s := range sentences {
		key := squash(s.Text)
		if key == "" {
			continue
		}
		if _, ok := known[key]; !ok {
			known[key] = s.AIProbability
		}
	}

	pieces := SplitSentences(text)
	out := make([]SentenceScore, 0, len(pieces))
	for _, piece := range pieces {
		p, ok := known[squash(piece)]
		if !ok {
			p = fallback
		}
		out = append(out, SentenceScore{Text: piece, AIProbability: p})
	}
	return out
}

func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
