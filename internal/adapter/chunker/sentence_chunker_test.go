package chunker

import (
	"reflect"
	"strings"
	"testing"
)

func TestChunkEmptyInput(t *testing.T) {
	c := NewSentenceChunker(10)
	for _, in := range []string{"", "   ", "\n\n\n", "\t\n  \n"} {
		if got := c.Chunk(in); len(got) != 0 {
			t.Errorf("Chunk(%q) = %v, want no chunks", in, got)
		}
	}
}

func TestChunkSingleParagraph(t *testing.T) {
	c := NewSentenceChunker(100)
	got := c.Chunk("One sentence. Another sentence here.")
	want := []string{"One sentence. Another sentence here."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk() = %v, want %v", got, want)
	}
}

func TestChunkRespectsWordLimit(t *testing.T) {
	c := NewSentenceChunker(5)
	got := c.Chunk("First sentence has four. Second one has four. Short third.")
	want := []string{
		"First sentence has four.",
		"Second one has four.",
		"Short third.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk() = %v, want %v", got, want)
	}
	for _, chunk := range got {
		if n := len(strings.Fields(chunk)); n > 5 {
			t.Errorf("chunk %q has %d words, limit 5", chunk, n)
		}
	}
}

func TestChunkPacksGreedily(t *testing.T) {
	c := NewSentenceChunker(8)
	got := c.Chunk("Two words. Two more. Two again. Final pair.")
	want := []string{
		"Two words. Two more. Two again. Final pair.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk() = %v, want %v", got, want)
	}
}

func TestChunkOversizedSentenceKeptWhole(t *testing.T) {
	c := NewSentenceChunker(3)
	sentence := "this sentence runs well past the configured limit"
	got := c.Chunk(sentence)
	if len(got) != 1 || got[0] != sentence {
		t.Errorf("Chunk() = %v, want single whole chunk %q", got, sentence)
	}
}

func TestChunkParagraphsNeverMerge(t *testing.T) {
	c := NewSentenceChunker(100)
	got := c.Chunk("First paragraph.\n\nSecond paragraph.")
	want := []string{"First paragraph.", "Second paragraph."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk() = %v, want %v", got, want)
	}
}

func TestChunkWordRoundTrip(t *testing.T) {
	text := "Alpha bravo charlie. Delta echo!\n\nFoxtrot golf? Hotel india juliett kilo lima mike."
	c := NewSentenceChunker(4)
	var rejoined []string
	for _, chunk := range c.Chunk(text) {
		rejoined = append(rejoined, strings.Fields(chunk)...)
	}
	want := strings.Fields(strings.ReplaceAll(text, "\n", " "))
	if !reflect.DeepEqual(rejoined, want) {
		t.Errorf("word sequence %v, want %v", rejoined, want)
	}
}

func TestChunkKeepsInternalPunctuation(t *testing.T) {
	// A dot not followed by whitespace is not a sentence boundary.
	c := NewSentenceChunker(100)
	got := c.Chunk("Affects version 2.5.1 of the agent. Patch available.")
	want := []string{"Affects version 2.5.1 of the agent. Patch available."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk() = %v, want %v", got, want)
	}
}

func TestChunkDefaultLimit(t *testing.T) {
	if c := NewSentenceChunker(0); c.maxWords != DefaultMaxWords {
		t.Errorf("maxWords = %d, want %d", c.maxWords, DefaultMaxWords)
	}
}
