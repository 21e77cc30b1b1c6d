// Package metadata provides on-device edit suggestions for titles,
// descriptions and tags. Pure text heuristics, no model calls.
package metadata

import (
	"regexp"
	"strings"
)

// Suggestions is a cleaned-up version of user-entered metadata.
type Suggestions struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Suggest improves the given metadata: title casing and punctuation
// cleanup, description whitespace normalization, and keyword tags
// extracted from the text merged with the existing ones.
func Suggest(title, description string, tags []string) Suggestions {
	return Suggestions{
		Title:       ImproveTitle(title),
		Description: ImproveDescription(description),
		Tags:        SuggestTags(title, description, tags),
	}
}

var (
	bangRuns   = regexp.MustCompile(`[!?]{2,}`)
	dotRuns    = regexp.MustCompile(`\.{3,}`)
	spaceRuns  = regexp.MustCompile(`[ \t]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
	wordOnly   = regexp.MustCompile(`[a-z0-9]+`)
)

// ImproveTitle trims, collapses excessive punctuation and title-cases
// the first word plus every word longer than three characters.
func ImproveTitle(title string) string {
	improved := strings.TrimSpace(title)
	if improved == "" {
		return improved
	}

	improved = bangRuns.ReplaceAllString(improved, "!")
	improved = dotRuns.ReplaceAllString(improved, "...")

	words := strings.Split(improved, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		if i == 0 || len(word) > 3 {
			runes := []rune(strings.ToLower(word))
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
			words[i] = string(runes)
		} else {
			words[i] = strings.ToLower(word)
		}
	}
	return strings.Join(words, " ")
}

// ImproveDescription normalizes whitespace and makes sure lines end
// with punctuation.
func ImproveDescription(description string) string {
	improved := strings.TrimSpace(description)
	if improved == "" {
		return improved
	}

	improved = spaceRuns.ReplaceAllString(improved, " ")
	improved = newlineRun.ReplaceAllString(improved, "\n\n")

	var lines []string
	for _, line := range strings.Split(improved, "\n") {
		trimmed := strings.TrimRight(line, " ")
		if trimmed != "" && !strings.ContainsAny(trimmed[len(trimmed)-1:], ".!?:,") {
			trimmed += "."
		}
		lines = append(lines, trimmed)
	}
	return strings.Join(lines, "\n")
}

// Common words excluded from tag extraction.
var stopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "they": {},
	"have": {}, "been": {}, "were": {}, "their": {}, "about": {},
	"would": {}, "there": {}, "your": {}, "what": {}, "when": {},
	"will": {}, "more": {}, "into": {}, "them": {}, "then": {},
	"some": {}, "very": {}, "just": {}, "over": {}, "only": {},
}

const maxTags = 10

// SuggestTags extracts keyword candidates (words longer than three
// characters, stopwords removed) from the title and description, keeps
// the existing tags first, and deduplicates.
func SuggestTags(title, description string, existing []string) []string {
	seen := make(map[string]struct{})
	var tags []string

	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || len(tags) >= maxTags {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, t := range existing {
		add(t)
	}

	text := strings.ToLower(title + " " + description)
	for _, word := range wordOnly.FindAllString(text, -1) {
		if len(word) <= 3 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		add(word)
	}

	return tags
}

// ParseTagList splits a comma-separated tag string, trimming whitespace
// and dropping empties.
func ParseTagList(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
