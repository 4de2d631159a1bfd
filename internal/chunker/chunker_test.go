package chunker

import (
	"strings"
	"testing"

	"docgraph/internal/domain"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = "w" + string(rune('a'+i%26))
	}
	return strings.Join(w, " ")
}

func TestChunk_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n\r  \n"} {
		if got := Chunk(text, 5, 1); got != nil {
			t.Errorf("Chunk(%q) = %v, want nil", text, got)
		}
	}
}

func TestChunk_SingleChunkWhenShort(t *testing.T) {
	got := Chunk("  alpha\tbeta \n gamma ", 5, 0)
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if got[0] != "alpha beta gamma" {
		t.Errorf("chunk = %q, want whitespace-normalized text", got[0])
	}
}

func TestChunk_ExactMultiples(t *testing.T) {
	// k*N words with zero overlap must yield exactly k chunks of N words.
	for _, k := range []int{1, 2, 3, 7} {
		n := 4
		got := Chunk(words(k*n), n, 0)
		if len(got) != k {
			t.Fatalf("k=%d: expected %d chunks, got %d", k, k, len(got))
		}
		for i, c := range got {
			if cw := len(strings.Fields(c)); cw != n {
				t.Errorf("k=%d chunk %d: %d words, want %d", k, i, cw, n)
			}
		}
	}
}

func TestChunk_FinalShortWindow(t *testing.T) {
	// 9 words, size 5, no overlap: one 5-word and one 4-word chunk.
	got := Chunk(words(9), 5, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if n := len(strings.Fields(got[0])); n != 5 {
		t.Errorf("first chunk has %d words, want 5", n)
	}
	if n := len(strings.Fields(got[1])); n != 4 {
		t.Errorf("second chunk has %d words, want 4", n)
	}
}

func TestChunk_Overlap(t *testing.T) {
	got := Chunk("a b c d e f", 4, 2)
	want := []string{"a b c d", "c d e f"}
	if len(got) != len(want) {
		t.Fatalf("got %d chunks %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChunk_OverlapAtLeastChunkSizeTerminates(t *testing.T) {
	// Degenerate overlap must still advance one word per window.
	got := Chunk(words(6), 3, 10)
	if len(got) == 0 {
		t.Fatal("expected chunks")
	}
	// Steps of 1: windows start at 0..3, final window ends at word 6.
	if len(got) != 4 {
		t.Errorf("expected 4 chunks with step 1, got %d: %v", len(got), got)
	}
	for _, c := range got {
		if strings.TrimSpace(c) == "" {
			t.Error("emitted empty chunk")
		}
	}
}

func TestChunk_NeverEmitsEmptyChunks(t *testing.T) {
	inputs := []string{"one", "one two three four five six seven", "  spaced   out\ttokens \n here "}
	for _, in := range inputs {
		for size := 1; size <= 4; size++ {
			for ov := 0; ov <= size+1; ov++ {
				for _, c := range Chunk(in, size, ov) {
					if strings.TrimSpace(c) == "" {
						t.Fatalf("Chunk(%q,%d,%d) emitted empty chunk", in, size, ov)
					}
				}
			}
		}
	}
}

func TestSplit_SequenceNumbers(t *testing.T) {
	doc := domain.Document{File: "a.txt", Path: "docs/a.txt", Text: words(12)}
	chunks := Split(doc, 5, 0)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Sequence != i {
			t.Errorf("chunk %d has sequence %d", i, c.Sequence)
		}
		if c.SourceFile != "a.txt" || c.SourcePath != "docs/a.txt" {
			t.Errorf("chunk %d source = %s/%s", i, c.SourceFile, c.SourcePath)
		}
	}
}
