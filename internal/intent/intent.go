// Package intent classifies recognized utterances into assistant intents.
//
// Classification is a fixed-priority keyword policy, not a scoring model:
// the first rule that matches wins, and anything that matches nothing falls
// back to Converse. The assistant never answers "I didn't understand" —
// unmatched speech is always forwarded to the conversational backend.
package intent

import "strings"

// Intent is the classified purpose of an utterance.
type Intent int

const (
	// Unrecognized is the zero value. Classify never returns it; it exists
	// so an uninitialized Intent is distinguishable from a real result.
	Unrecognized Intent = iota
	OpenSite
	PlayMusic
	GetNews
	GetTime
	GetDate
	Converse
	Exit
)

// String returns the canonical name of the intent.
func (i Intent) String() string {
	switch i {
	case OpenSite:
		return "open_site"
	case PlayMusic:
		return "play_music"
	case GetNews:
		return "get_news"
	case GetTime:
		return "get_time"
	case GetDate:
		return "get_date"
	case Converse:
		return "converse"
	case Exit:
		return "exit"
	default:
		return "unrecognized"
	}
}

// Classification is the result of classifying one utterance.
type Classification struct {
	Intent Intent

	// Site is the registry key for OpenSite.
	Site string
	// Song is the library key for PlayMusic; empty when the user said
	// "play" with no known song (handled as a search fallback).
	Song string
	// Category is the news category for GetNews.
	Category string
	// Prompt is the full utterance text for Converse.
	Prompt string
}

// newsCategories maps spoken category words to newsapi.org categories,
// checked in order so classification is deterministic.
var newsCategories = []struct{ word, category string }{
	{"technology", "technology"},
	{"tech", "technology"},
	{"sports", "sports"},
	{"business", "business"},
	{"entertainment", "entertainment"},
}

// Classifier matches utterances against the site registry and music library.
// Both maps are set at construction and never mutated afterwards.
type Classifier struct {
	sites     map[string]string
	music     map[string]string
	exitWords []string
}

// NewClassifier creates a Classifier over the given site registry, music
// library, and exit keywords.
func NewClassifier(sites, music map[string]string, exitWords []string) *Classifier {
	return &Classifier{sites: sites, music: music, exitWords: exitWords}
}

// Classify applies the priority policy to a lowercase-normalized utterance.
// Rules, first match wins:
//
//  1. exit keyword anywhere        → Exit
//  2. "open" + registry key        → OpenSite (falls through if no key matches)
//  3. "play" + library key         → PlayMusic (falls through if no key matches)
//  4. "news" (+ category word)     → GetNews
//  5. "time"                       → GetTime
//  6. "date"                       → GetDate
//  7. anything else                → Converse with the full utterance
func (c *Classifier) Classify(utterance string) Classification {
	text := strings.ToLower(strings.TrimSpace(utterance))

	for _, word := range c.exitWords {
		if strings.Contains(text, word) {
			return Classification{Intent: Exit}
		}
	}

	if strings.Contains(text, "open") {
		if key := longestKeyMatch(text, c.sites); key != "" {
			return Classification{Intent: OpenSite, Site: key}
		}
	}

	if strings.Contains(text, "play") {
		if key := longestKeyMatch(text, c.music); key != "" {
			return Classification{Intent: PlayMusic, Song: key}
		}
	}

	if strings.Contains(text, "news") {
		category := "general"
		for _, nc := range newsCategories {
			if strings.Contains(text, nc.word) {
				category = nc.category
				break
			}
		}
		return Classification{Intent: GetNews, Category: category}
	}

	if strings.Contains(text, "time") {
		return Classification{Intent: GetTime}
	}

	if strings.Contains(text, "date") {
		return Classification{Intent: GetDate}
	}

	return Classification{Intent: Converse, Prompt: text}
}

// longestKeyMatch returns the registry key that appears as a substring of the
// utterance, preferring the longest key; equal-length candidates tie-break
// lexicographically so the result never depends on map iteration order.
func longestKeyMatch(text string, registry map[string]string) string {
	var best string
	for key := range registry {
		if !strings.Contains(text, strings.ToLower(key)) {
			continue
		}
		if len(key) > len(best) || (len(key) == len(best) && key < best) {
			best = key
		}
	}
	return best
}
