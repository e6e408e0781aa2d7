// Package chunker splits advisory text into retrieval-sized pieces.
package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxWords bounds chunk size when no explicit limit is configured.
const DefaultMaxWords = 512

var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

// SentenceChunker breaks text into chunks bounded by a maximum word count.
// Paragraphs are split on blank lines, sentences on terminal punctuation, and
// sentences are packed greedily into chunks without ever being fragmented. A
// single sentence longer than the limit becomes its own oversized chunk.
type SentenceChunker struct {
	maxWords int
}

func NewSentenceChunker(maxWords int) *SentenceChunker {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &SentenceChunker{maxWords: maxWords}
}

// Chunk returns the non-empty chunks of text in document order. Every word
// of the input appears in exactly one chunk.
func (c *SentenceChunker) Chunk(text string) []string {
	chunks := []string{}
	for _, para := range paragraphSplit.Split(strings.TrimSpace(text), -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		var current []string
		words := 0
		for _, sentence := range splitSentences(para) {
			// Joining on a single space adds no words, so the packed
			// size is the sum of per-sentence word counts.
			n := len(strings.Fields(sentence))
			if n == 0 {
				continue
			}
			if len(current) > 0 && words+n > c.maxWords {
				chunks = append(chunks, strings.Join(current, " "))
				current = current[:0]
				words = 0
			}
			current = append(current, strings.TrimSpace(sentence))
			words += n
		}
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
		}
	}
	return chunks
}

// splitSentences breaks a paragraph after '.', '!' or '?' followed by
// whitespace. The terminator stays with its sentence; the whitespace run
// between sentences is consumed.
func splitSentences(para string) []string {
	var out []string
	start := 0
	for i := 0; i < len(para); i++ {
		switch para[i] {
		case '.', '!', '?':
			end := i + 1
			next := end
			for next < len(para) {
				r, size := utf8.DecodeRuneInString(para[next:])
				if !unicode.IsSpace(r) {
					break
				}
				next += size
			}
			if next == end {
				// Terminator not followed by whitespace, e.g. a
				// version number or trailing punctuation run.
				continue
			}
			out = append(out, para[start:end])
			start = next
			i = next - 1
		}
	}
	if start < len(para) {
		out = append(out, para[start:])
	}
	return out
}
