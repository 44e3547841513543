package vectorindex

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"fin-analyst-be/pkg/embedding"
	"fin-analyst-be/pkg/store"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"
)

// DefaultCollection is the collection name used when none is configured
const DefaultCollection = "financial_docs"

// ChromemIndex is an embedded vector index. With a path it persists to disk
// and reloads on the next start; without one it lives in memory.
type ChromemIndex struct {
	db  *chromem.DB
	col *chromem.Collection
}

var _ Index = &ChromemIndex{}

func NewChromemIndex(path, collection string, embedder embedding.Embedder, compress bool) (*ChromemIndex, error) {
	if collection == "" {
		collection = DefaultCollection
	}

	var db *chromem.DB
	if path == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(path, compress)
		if err != nil {
			return nil, fmt.Errorf("open chromem db at %s: %w", path, err)
		}
	}

	col, err := db.GetOrCreateCollection(collection, nil, chromem.EmbeddingFunc(embedder.Embed))
	if err != nil {
		return nil, fmt.Errorf("get or create collection %s: %w", collection, err)
	}
	return &ChromemIndex{db: db, col: col}, nil
}

func (i *ChromemIndex) Add(ctx context.Context, chunks []store.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	docs := make([]chromem.Document, len(chunks))
	for n, c := range chunks {
		docs[n] = chromem.Document{
			ID:       uuid.NewString(),
			Content:  c.Content,
			Metadata: Metadata(c),
		}
	}
	if err := i.col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

// DeleteBySource removes every chunk of one document so it can be re-ingested
func (i *ChromemIndex) DeleteBySource(ctx context.Context, source string) error {
	if source == "" || i.col.Count() == 0 {
		return nil
	}
	if err := i.col.Delete(ctx, map[string]string{KeySource: source}, nil); err != nil {
		return fmt.Errorf("delete %s: %w", source, err)
	}
	return nil
}

func (i *ChromemIndex) Count(ctx context.Context) (int, error) {
	return i.col.Count(), nil
}

func (i *ChromemIndex) Search(ctx context.Context, query string, k int, filter map[string]string) ([]store.Chunk, error) {
	if k <= 0 {
		return nil, nil
	}
	count := i.col.Count()
	if count == 0 {
		return nil, nil
	}

	var where map[string]string
	if len(filter) > 0 {
		where = filter
	}

	// chromem requires nResults <= collection size, and a filter may leave fewer
	var results []chromem.Result
	for limit := min(k, count); limit >= 1; limit-- {
		var err error
		results, err = i.col.Query(ctx, query, limit, where, nil)
		if err == nil {
			break
		}
		if isInsufficientDocsError(err) && limit > 1 {
			continue
		}
		if isInsufficientDocsError(err) {
			return nil, nil
		}
		if where != nil {
			return nil, fmt.Errorf("%w: %v", ErrFilter, err)
		}
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]store.Chunk, len(results))
	for n, r := range results {
		out[n] = FromMetadata(r.Content, r.Metadata, r.Similarity)
	}
	return out, nil
}

func isInsufficientDocsError(err error) bool {
	s := err.Error()
	return strings.Contains(s, "nResults must be") || strings.Contains(s, "number of documents")
}
