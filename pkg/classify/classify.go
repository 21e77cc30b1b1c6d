// Package classify contains the text heuristics that steer rendering
// and guard the save boundary: subject-gender inference for the
// portrait style and explicit-keyword moderation for saved metadata.
package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// Gender is the resolved subject category used by the portrait renderer.
type Gender string

const (
	Neutral Gender = "neutral"
	Woman   Gender = "woman"
	Man     Gender = "man"
)

// explicitKeywords must never influence gender inference and are
// rejected in saved metadata. Matched on word boundaries when stripping.
var explicitKeywords = []string{
	"sex", "porn", "cock", "sexy", "genital", "pussy", "penis",
	"vagina", "anal", "nude", "naked", "fuck", "fucking", "fucked", "dick",
}

var womanTerms = []string{"woman", "women", "girl", "girls", "female", "lady", "ladies", "she", "her"}
var manTerms = []string{"man", "men", "boy", "boys", "male", "gentleman", "gentlemen", "he", "him", "his"}

var explicitPatterns = compileKeywordPatterns()

func compileKeywordPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(explicitKeywords))
	for _, kw := range explicitKeywords {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	return patterns
}

// InferGender classifies a prompt as Neutral, Woman or Man.
//
// Explicit keywords are stripped on word boundaries before matching so
// they never leak into the visual representation; the surviving text is
// then tested (substring match, as the original) against the two
// gendered term sets. Both or neither matching yields Neutral.
func InferGender(prompt string) Gender {
	cleaned := strings.ToLower(prompt)
	for _, p := range explicitPatterns {
		cleaned = p.ReplaceAllString(cleaned, "")
	}

	hasWoman := containsAny(cleaned, womanTerms)
	hasMan := containsAny(cleaned, manTerms)

	switch {
	case hasWoman && hasMan:
		return Neutral
	case hasWoman:
		return Woman
	case hasMan:
		return Man
	default:
		return Neutral
	}
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// ContainsExplicit reports whether text contains any explicit keyword
// as a substring. Used for save-metadata moderation, not for prompts.
func ContainsExplicit(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range explicitKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ValidateSaveMetadata checks title, description and tags before a save
// operation. Generation prompts are deliberately not validated — only
// metadata that will be persisted through the library boundary is.
func ValidateSaveMetadata(title, description string, tags []string) error {
	const msg = "sexually explicit content is not permitted: please revise the title, description or tags"

	if ContainsExplicit(title) || ContainsExplicit(description) {
		return fmt.Errorf("%s", msg)
	}
	for _, tag := range tags {
		if ContainsExplicit(tag) {
			return fmt.Errorf("%s", msg)
		}
	}
	return nil
}
