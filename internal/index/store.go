package index

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gapscout/internal/util"
)

// Embedder is the slice of the embedding provider the index needs.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Chunk is the unit of retrieval: a bounded slice of document text paired
// with its embedding vector. Chunks are never mutated after insertion.
type Chunk struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	Embedding  []float32         `json:"embedding"`
	DocumentID string            `json:"document_id"`
	ProjectID  string            `json:"project_id"`
	ChunkIndex int               `json:"chunk_index"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// UpsertDoc is one document handed to Upsert: a resolved id, its extracted
// text, and optional extra metadata carried into the stored chunk.
type UpsertDoc struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Result is one retrieval hit.
type Result struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Score    float64           `json:"score"`
}

// Store is an in-memory per-project semantic index with brute-force cosine
// retrieval. State is process-lifetime scoped; there is no disk or network
// persistence. Construct one per process (or per test) and inject it.
type Store struct {
	embedder   Embedder
	chunkSize  int
	overlap    int
	textRetain int

	mu       sync.RWMutex
	projects map[string][]Chunk
}

type Options struct {
	ChunkSize  int
	Overlap    int
	TextRetain int
}

func NewStore(embedder Embedder, opts Options) *Store {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 500
	}
	if opts.Overlap < 0 || opts.Overlap >= opts.ChunkSize {
		opts.Overlap = 100
	}
	if opts.TextRetain <= 0 {
		opts.TextRetain = 2000
	}
	return &Store{
		embedder:   embedder,
		chunkSize:  opts.ChunkSize,
		overlap:    opts.Overlap,
		textRetain: opts.TextRetain,
		projects:   map[string][]Chunk{},
	}
}

// Upsert indexes documents under a project. Each document is split into
// overlapping windows but only the first window is embedded; one chunk per
// document is stored with the original text truncated for retrieval display.
// Entries are appended without deduplication, so re-upserting a document id
// adds a second chunk for it.
func (s *Store) Upsert(ctx context.Context, projectID string, docs []UpsertDoc) error {
	if len(docs) == 0 {
		return nil
	}
	chunks := make([]Chunk, 0, len(docs))
	for _, doc := range docs {
		windows := SplitIntoChunks(doc.Text, s.chunkSize, s.overlap)
		first := ""
		if len(windows) > 0 {
			first = windows[0]
		} else {
			first = util.TruncateRunes(doc.Text, s.chunkSize)
		}
		vectors, err := s.embedder.Embed(ctx, []string{first})
		if err != nil {
			return fmt.Errorf("embed document %s: %w", doc.ID, err)
		}
		if len(vectors) == 0 {
			return fmt.Errorf("embed document %s: empty embedding batch", doc.ID)
		}
		chunks = append(chunks, Chunk{
			ID:         doc.ID + "-0",
			Text:       util.TruncateRunes(doc.Text, s.textRetain),
			Embedding:  vectors[0],
			DocumentID: doc.ID,
			ProjectID:  projectID,
			ChunkIndex: 0,
			Metadata:   doc.Metadata,
		})
	}

	s.mu.Lock()
	s.projects[projectID] = append(s.projects[projectID], chunks...)
	s.mu.Unlock()
	return nil
}

// Query embeds the query text and scores it against every chunk of the
// project. An empty project returns immediately without an embedding call.
// Sorting is stable: ties keep insertion order.
func (s *Store) Query(ctx context.Context, projectID, query string, topK int) ([]Result, error) {
	if topK <= 0 {
		topK = 5
	}
	if s.Count(projectID) == 0 {
		return []Result{}, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embed query: empty embedding batch")
	}
	queryVec := vectors[0]

	s.mu.RLock()
	chunks := make([]Chunk, len(s.projects[projectID]))
	copy(chunks, s.projects[projectID])
	s.mu.RUnlock()

	results := make([]Result, 0, len(chunks))
	for _, c := range chunks {
		score, err := CosineSimilarity(queryVec, c.Embedding)
		if err != nil {
			return nil, fmt.Errorf("score chunk %s: %w", c.ID, err)
		}
		results = append(results, Result{Text: c.Text, Metadata: c.Metadata, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// Clear removes all chunks for a project; used for re-ingestion.
func (s *Store) Clear(projectID string) {
	s.mu.Lock()
	delete(s.projects, projectID)
	s.mu.Unlock()
}

// Count returns the number of chunks held for a project.
func (s *Store) Count(projectID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects[projectID])
}
