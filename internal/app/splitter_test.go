package app

import (
	"testing"

	"github.com/getdelta/firehose-writer/internal/domain"
)

type chunkShape struct {
	records int
	size    int
}

func shapes(chunks []domain.Chunk) []chunkShape {
	out := make([]chunkShape, len(chunks))
	for i, c := range chunks {
		out[i] = chunkShape{records: c.Len(), size: c.Size}
	}
	return out
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		sizes      []int
		maxBytes   int
		maxRecords int
		want       []chunkShape
	}{
		{
			name:       "fits in one chunk",
			sizes:      []int{1, 1},
			maxBytes:   1000,
			maxRecords: 3,
			want:       []chunkShape{{2, 2}},
		},
		{
			name:       "byte limit seals chunk, newest first",
			sizes:      []int{500, 500, 1},
			maxBytes:   1000,
			maxRecords: 500,
			want:       []chunkShape{{1, 1}, {2, 1000}},
		},
		{
			name:       "record limit seals chunk, newest first",
			sizes:      []int{1, 1, 1, 1},
			maxBytes:   1000,
			maxRecords: 3,
			want:       []chunkShape{{1, 1}, {3, 3}},
		},
		{
			name:       "oversized record forms singleton",
			sizes:      []int{10, 2000, 10},
			maxBytes:   1000,
			maxRecords: 500,
			want:       []chunkShape{{1, 10}, {1, 2000}, {1, 10}},
		},
		{
			name:       "three chunks reversed",
			sizes:      []int{600, 600, 600},
			maxBytes:   1000,
			maxRecords: 500,
			want:       []chunkShape{{1, 600}, {1, 600}, {1, 600}},
		},
		{
			name:       "empty input",
			sizes:      nil,
			maxBytes:   1000,
			maxRecords: 3,
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shapes(Split(sized(tt.sizes...), tt.maxBytes, tt.maxRecords))
			if len(got) != len(tt.want) {
				t.Fatalf("Split() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplit_PreservesOrderWithinChunks(t *testing.T) {
	in := records("a", "b", "c", "d", "e")
	chunks := Split(in, 1000, 2)

	// Chunks come back newest first; walking them backwards must replay input order.
	var replay []string
	for i := len(chunks) - 1; i >= 0; i-- {
		for _, r := range chunks[i].Records {
			replay = append(replay, string(r.Data))
		}
	}

	want := []string{"a", "b", "c", "d", "e"}
	if len(replay) != len(want) {
		t.Fatalf("replay = %v, want %v", replay, want)
	}
	for i := range want {
		if replay[i] != want[i] {
			t.Errorf("replay[%d] = %s, want %s", i, replay[i], want[i])
		}
	}
}

func TestSplit_RespectsLimits(t *testing.T) {
	sizes := make([]int, 0, 1200)
	for i := 0; i < 1200; i++ {
		sizes = append(sizes, 1+i%700)
	}

	const maxBytes, maxRecords = 4096, 17
	chunks := Split(sized(sizes...), maxBytes, maxRecords)

	total := 0
	for i, c := range chunks {
		if c.Size > maxBytes {
			t.Errorf("chunk %d size %d > %d", i, c.Size, maxBytes)
		}
		if c.Len() > maxRecords {
			t.Errorf("chunk %d has %d records > %d", i, c.Len(), maxRecords)
		}
		if c.Size != domain.TotalSize(c.Records) {
			t.Errorf("chunk %d size %d != sum of records %d", i, c.Size, domain.TotalSize(c.Records))
		}
		total += c.Len()
	}
	if total != len(sizes) {
		t.Errorf("chunks hold %d records, want %d", total, len(sizes))
	}
}
