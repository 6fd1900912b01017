package assistant

import "strings"

// WakeRemainder reports whether the utterance is addressed to the assistant
// and, if so, returns the command portion that follows the wake phrase.
//
// The wake phrase matches case-insensitively as a standalone token or as a
// token prefix ("jarvis," with trailing punctuation still counts). Words
// before the wake phrase are discarded; a bare wake phrase returns an empty
// remainder, which the loop answers with a follow-up capture.
func WakeRemainder(utterance, wakeWord string) (string, bool) {
	wake := strings.ToLower(wakeWord)
	fields := strings.Fields(strings.ToLower(utterance))

	for i, field := range fields {
		token := strings.TrimFunc(field, isPunct)
		if token == wake || strings.HasPrefix(token, wake) && len(token) > len(wake) && isPunct(rune(token[len(wake)])) {
			return strings.Join(fields[i+1:], " "), true
		}
	}
	return "", false
}

func isPunct(r rune) bool {
	switch r {
	case '.', ',', '!', '?', ';', ':', '\'', '"':
		return true
	}
	return false
}
