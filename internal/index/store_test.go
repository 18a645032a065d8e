package index

import (
	"context"
	"sync"
	"testing"
)

// fakeEmbedder maps known texts to fixed vectors and counts calls.
type fakeEmbedder struct {
	mu      sync.Mutex
	calls   int
	vectors map[string][]float32
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		if v, ok := f.vectors[text]; ok {
			out = append(out, v)
			continue
		}
		out = append(out, []float32{0, 0, 1})
	}
	return out, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestQueryEmptyProjectSkipsEmbedding(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{}}
	store := NewStore(emb, Options{})

	results, err := store.Query(context.Background(), "p1", "anything", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
	if emb.callCount() != 0 {
		t.Fatalf("embedding capability invoked %d times for empty project", emb.callCount())
	}
}

func TestUpsertThenQueryReturnsOwnTextAsTopHit(t *testing.T) {
	docText := "mitochondrial density in cardiac tissue"
	otherText := "orbital mechanics of binary stars"
	emb := &fakeEmbedder{vectors: map[string][]float32{
		docText:   {1, 0, 0},
		otherText: {0, 1, 0},
	}}
	store := NewStore(emb, Options{})

	ctx := context.Background()
	if err := store.Upsert(ctx, "p1", []UpsertDoc{
		{ID: "doc-a", Text: docText, Metadata: map[string]string{"file_path": "/tmp/a.txt"}},
		{ID: "doc-b", Text: otherText},
	}); err != nil {
		t.Fatal(err)
	}

	results, err := store.Query(ctx, "p1", docText, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Text != docText {
		t.Fatalf("expected upserted document as top hit, got %q", results[0].Text)
	}
	if results[0].Score < results[1].Score {
		t.Fatal("top hit scored below an unrelated chunk")
	}
	if results[0].Metadata["file_path"] != "/tmp/a.txt" {
		t.Fatalf("metadata not carried through: %#v", results[0].Metadata)
	}
}

func TestUpsertDoesNotDeduplicateByDocumentID(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{}}
	store := NewStore(emb, Options{})
	ctx := context.Background()

	doc := UpsertDoc{ID: "doc-a", Text: "same document twice"}
	if err := store.Upsert(ctx, "p1", []UpsertDoc{doc}); err != nil {
		t.Fatal(err)
	}
	if err := store.Upsert(ctx, "p1", []UpsertDoc{doc}); err != nil {
		t.Fatal(err)
	}
	if got := store.Count("p1"); got != 2 {
		t.Fatalf("expected 2 chunk entries after re-upsert, got %d", got)
	}
}

func TestClearRemovesProjectChunks(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{}}
	store := NewStore(emb, Options{})
	ctx := context.Background()

	if err := store.Upsert(ctx, "p1", []UpsertDoc{{ID: "doc-a", Text: "text"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Upsert(ctx, "p2", []UpsertDoc{{ID: "doc-b", Text: "text"}}); err != nil {
		t.Fatal(err)
	}
	store.Clear("p1")
	if store.Count("p1") != 0 {
		t.Fatal("cleared project still has chunks")
	}
	if store.Count("p2") != 1 {
		t.Fatal("clear leaked into another project")
	}
}

func TestProjectIsolation(t *testing.T) {
	textA := "proteomics screening pipeline"
	emb := &fakeEmbedder{vectors: map[string][]float32{textA: {1, 0, 0}}}
	store := NewStore(emb, Options{})
	ctx := context.Background()

	if err := store.Upsert(ctx, "p1", []UpsertDoc{{ID: "doc-a", Text: textA}}); err != nil {
		t.Fatal(err)
	}
	results, err := store.Query(ctx, "p2", textA, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("query crossed project boundary: %d results", len(results))
	}
}

func TestConcurrentUpsertAndQuery(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{}}
	store := NewStore(emb, Options{})
	ctx := context.Background()

	if err := store.Upsert(ctx, "p1", []UpsertDoc{{ID: "seed", Text: "seed text"}}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Upsert(ctx, "p1", []UpsertDoc{{ID: "doc", Text: "concurrent doc"}})
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Query(ctx, "p1", "seed text", 3); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if got := store.Count("p1"); got != 9 {
		t.Fatalf("expected 9 chunks after concurrent upserts, got %d", got)
	}
}
