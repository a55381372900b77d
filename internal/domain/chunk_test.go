package domain

import (
	"strings"
	"testing"
)

func TestChunkRespectsLimit(t *testing.T) {
	entry := "\nДень 1 | Ср, 18 фев\n  Сухур:  05:12  |  Ифтар: 18:44\n"
	entries := make([]string, 60)
	for i := range entries {
		entries[i] = entry
	}

	chunks := Chunk("HEADER\n", entries, 500)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 500 {
			t.Fatalf("chunk %d exceeds limit: %d chars", i, len(c))
		}
	}
}

func TestChunkNeverSplitsEntries(t *testing.T) {
	entries := []string{"<aaaa>", "<bbbb>", "<cccc>", "<dddd>"}
	chunks := Chunk("", entries, 14)

	var rejoined string
	for _, c := range chunks {
		// Each chunk must contain only whole entries.
		body := c
		for len(body) > 0 {
			end := strings.IndexByte(body, '>')
			if end < 0 || body[0] != '<' {
				t.Fatalf("chunk %q splits an entry", c)
			}
			body = body[end+1:]
		}
		rejoined += c
	}
	if rejoined != strings.Join(entries, "") {
		t.Fatalf("entries lost or reordered: %q", rejoined)
	}
}

func TestChunkSingleChunk(t *testing.T) {
	chunks := Chunk("hdr", []string{"a", "b"}, ChunkLimit)
	if len(chunks) != 1 || chunks[0] != "hdrab" {
		t.Fatalf("got %q", chunks)
	}
}

func TestChunkEmptyEntries(t *testing.T) {
	chunks := Chunk("hdr", nil, 100)
	if len(chunks) != 1 || chunks[0] != "hdr" {
		t.Fatalf("got %q", chunks)
	}
}
