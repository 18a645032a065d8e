package index

import (
	"strings"
	"testing"
)

func TestSplitIntoChunksWindowsAndOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 130) // 1300 chars
	chunks := SplitIntoChunks(text, 500, 100)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, c := range chunks {
		if i < len(chunks)-1 && len([]rune(c)) != 500 {
			t.Fatalf("non-final window %d has length %d, want 500", i, len([]rune(c)))
		}
	}
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		cur := []rune(chunks[i])
		tail := string(prev[len(prev)-100:])
		n := 100
		if len(cur) < n {
			n = len(cur)
		}
		if string(cur[:n]) != tail[:n] {
			t.Fatalf("windows %d and %d do not overlap by 100 runes", i-1, i)
		}
	}
	// Union covers the input: windows advance by chunkSize-overlap each step.
	rebuilt := chunks[0]
	for i := 1; i < len(chunks); i++ {
		cur := []rune(chunks[i])
		if len(cur) > 100 {
			rebuilt += string(cur[100:])
		}
	}
	if rebuilt != text {
		t.Fatal("union of windows does not cover input")
	}
}

func TestSplitIntoChunksShortInput(t *testing.T) {
	chunks := SplitIntoChunks("short text", 500, 100)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Fatalf("unexpected chunks for short input: %#v", chunks)
	}
}

func TestSplitIntoChunksEmpty(t *testing.T) {
	if chunks := SplitIntoChunks("", 500, 100); len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty input, got %d", len(chunks))
	}
}
