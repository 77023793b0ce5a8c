package generation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// BlankMarker replaces the target word in fill-in-the-blank prompts.
const BlankMarker = "_____"

// Placeholders used when a unit has too few words to supply distractors.
const (
	PlaceholderSentence = "Wrong Sentence Option"
	PlaceholderWord     = "Wrong Word"
)

var labelPrefix = regexp.MustCompile(`(?i)^\s*(misol:|example:)\s*`)

// CleanAnswer strips a leading "Misol:" or "Example:" label and capitalizes
// the first letter. Every option goes through it so formatting cannot give
// the correct one away.
func CleanAnswer(text string) string {
	cleaned := strings.TrimSpace(labelPrefix.ReplaceAllString(text, ""))
	return capitalize(cleaned)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// BlankOut replaces the first case-insensitive occurrence of word in the
// example sentence with BlankMarker. Without an example it uses
// "I like {word}."; when the word does not occur it falls back to a
// sentence that is only the marker.
func BlankOut(exampleSentence, word string) string {
	base := strings.TrimSpace(exampleSentence)
	if base == "" {
		base = fmt.Sprintf("I like %s.", word)
	}

	if strings.TrimSpace(word) == "" {
		return BlankMarker + " is the word."
	}

	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word))
	loc := re.FindStringIndex(base)
	if loc == nil {
		return BlankMarker + " is the word."
	}
	return base[:loc[0]] + BlankMarker + base[loc[1]:]
}

// AudioPath returns the stored audio reference for a word, or the
// conventional path where pronunciation audio is cached.
func AudioPath(audio, word string) string {
	if audio != "" {
		return audio
	}
	return fmt.Sprintf("vocabulary/audio/%s.mp3", word)
}
