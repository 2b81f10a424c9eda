package services

import (
	"strings"
	"unicode"
)

// TextAnalyzer provides text analysis capabilities for the domain
// This is a domain service that encapsulates text processing logic
type TextAnalyzer interface {
	// ExtractKeywords extracts meaningful keywords from text in first-occurrence
	// order, capped at limit (limit <= 0 means no cap)
	ExtractKeywords(text string, limit int) []string
}

// DefaultTextAnalyzer provides a default implementation of TextAnalyzer
type DefaultTextAnalyzer struct {
	stopWords     map[string]bool
	minWordLength int
}

// NewDefaultTextAnalyzer creates a new text analyzer with common English stop words
func NewDefaultTextAnalyzer() *DefaultTextAnalyzer {
	return &DefaultTextAnalyzer{
		stopWords:     getDefaultStopWords(),
		minWordLength: 3,
	}
}

// ExtractKeywords extracts meaningful keywords from text. Stop words and
// words shorter than the minimum length are dropped; the remainder are
// kept in first-occurrence order up to the cap.
func (ta *DefaultTextAnalyzer) ExtractKeywords(text string, limit int) []string {
	keywords := make([]string, 0)
	seen := make(map[string]bool)

	for _, word := range ta.tokenize(text) {
		if len(word) < ta.minWordLength || ta.stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if limit > 0 && len(keywords) >= limit {
			break
		}
	}

	return keywords
}

// tokenize splits lowercased text on non-alphanumeric runes, preserving order
func (ta *DefaultTextAnalyzer) tokenize(text string) []string {
	text = strings.ToLower(text)
	tokens := make([]string, 0)

	var currentWord strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			currentWord.WriteRune(r)
		} else if currentWord.Len() > 0 {
			tokens = append(tokens, currentWord.String())
			currentWord.Reset()
		}
	}

	// Don't forget the last word
	if currentWord.Len() > 0 {
		tokens = append(tokens, currentWord.String())
	}

	return tokens
}

// getDefaultStopWords returns a set of common English stop words
func getDefaultStopWords() map[string]bool {
	stopWords := map[string]bool{
		"the": true, "be": true, "to": true, "of": true, "and": true,
		"a": true, "in": true, "that": true, "have": true, "i": true,
		"it": true, "for": true, "not": true, "on": true, "with": true,
		"he": true, "as": true, "you": true, "do": true, "at": true,
		"this": true, "but": true, "his": true, "by": true, "from": true,
		"they": true, "we": true, "say": true, "her": true, "she": true,
		"or": true, "an": true, "will": true, "my": true, "one": true,
		"all": true, "would": true, "there": true, "their": true, "what": true,
		"so": true, "up": true, "out": true, "if": true, "about": true,
		"who": true, "get": true, "which": true, "go": true, "me": true,
		"when": true, "make": true, "can": true, "like": true, "time": true,
		"no": true, "just": true, "him": true, "know": true, "take": true,
		"people": true, "into": true, "year": true, "your": true, "good": true,
		"some": true, "could": true, "them": true, "see": true, "other": true,
		"than": true, "then": true, "now": true, "look": true, "only": true,
		"come": true, "its": true, "over": true, "think": true, "also": true,
		"back": true, "after": true, "use": true, "two": true, "how": true,
		"our": true, "work": true, "first": true, "well": true, "way": true,
		"even": true, "new": true, "want": true, "because": true, "any": true,
		"these": true, "give": true, "day": true, "most": true, "us": true,
		"is": true, "was": true, "are": true, "been": true, "has": true,
		"had": true, "were": true, "said": true, "did": true, "having": true,
		"may": true, "am": true, "should": true, "too": true, "very": true,
	}
	return stopWords
}
