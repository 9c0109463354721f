// Package metrics computes simple statistics over extracted text.
package metrics

import "strings"

const wordsPerMinute = 200

// WordCount returns the number of whitespace-delimited tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ReadingTime estimates reading time in whole minutes at 200 words per
// minute, rounded up. Zero words yields zero minutes.
func ReadingTime(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	return (wordCount + wordsPerMinute - 1) / wordsPerMinute
}
