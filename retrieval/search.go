package retrieval

import (
	"context"
	"sort"

	"chatdoc/db"
	"chatdoc/embed"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/SaiNageswarS/go-collection-boot/linq"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// search parameters.
const (
	rrfK               = 60  // dampening constant from the RRF paper
	textSearchWeight   = 1.0 // per-engine weights
	vectorSearchWeight = 1.0
	vecK               = 20 // # of hits to keep from each engine
	textK              = 20
	maxPassages        = 8 // # of chunks handed to answer generation
)

// SearchStep runs hybrid (term + vector) search over a tenant's chunks,
// scoped to a single document. Ranks from both engines are fused with
// reciprocal-rank fusion: score(id) = Σ weight_e / (rrfK + rank_e(id)),
// which merges heterogeneous score scales without normalising them.
type SearchStep struct {
	embedder         embed.Embedder
	chunkRepository  odm.OdmCollectionInterface[db.ChunkModel]
	vectorRepository odm.OdmCollectionInterface[db.ChunkAnnModel]
}

func NewSearchStep(chunkRepository odm.OdmCollectionInterface[db.ChunkModel], vectorRepository odm.OdmCollectionInterface[db.ChunkAnnModel], embedder embed.Embedder) *SearchStep {
	return &SearchStep{
		chunkRepository:  chunkRepository,
		vectorRepository: vectorRepository,
		embedder:         embedder,
	}
}

// Search returns the best chunks of one document for a query, best first.
// An empty result is valid: it means the document has nothing relevant.
func (s *SearchStep) Search(ctx context.Context, displayName, query string) ([]*db.ChunkModel, error) {
	// 1. Fire the two independent searches in parallel.
	textTask := s.chunkRepository.
		TermSearch(ctx, query, odm.TermSearchParams{
			IndexName: db.TextSearchIndexName,
			Path:      db.TextSearchPaths,
			Limit:     textK,
		})

	emb, err := async.Await(s.embedder.GetEmbedding(ctx, query))
	if err != nil {
		return nil, err
	}

	vecTask := s.vectorRepository.
		VectorSearch(ctx, emb, odm.VectorSearchParams{
			IndexName:     db.VectorIndexName,
			Path:          db.VectorPath,
			K:             vecK,
			NumCandidates: 100,
		})

	// 2. Convert each result list to id->rank (rank ∈ {1,2,…}).
	textRanks, cache, err := collectTextSearchRanks(textTask)
	if err != nil {
		logger.Error("text search failed", zap.Error(err))
	}

	vecRanks, err := collectVectorSearchRanks(vecTask)
	if err != nil {
		logger.Error("vector search failed", zap.Error(err))
	}

	// 3. Reciprocal-rank fusion.
	combined := make(map[string]float64)
	for id, r := range textRanks {
		combined[id] = textSearchWeight / float64(rrfK+r)
	}
	for id, r := range vecRanks {
		combined[id] += vectorSearchWeight / float64(rrfK+r)
	}

	type pair struct {
		id    string
		score float64
	}

	ranked := make([]pair, 0, len(combined))
	for id, sc := range combined {
		ranked = append(ranked, pair{id, sc})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	ids := linq.Map(ranked, func(p pair) string { return p.id })

	// 4. Materialise the chunks and keep only the requested document.
	chunks, err := s.fetchChunksByIds(ctx, cache, ids)
	if err != nil {
		return nil, err
	}

	chunks = linq.From(chunks).Where(func(c *db.ChunkModel) bool {
		return c.DisplayName == displayName
	}).ToSlice()

	if len(chunks) > maxPassages {
		chunks = chunks[:maxPassages]
	}
	return chunks, nil
}

// Returns id->rank (1-based) and a cache of the full chunk docs.
func collectTextSearchRanks(
	task <-chan async.Result[[]odm.SearchHit[db.ChunkModel]],
) (map[string]int, map[string]*db.ChunkModel, error) {

	ranks := make(map[string]int)
	cache := make(map[string]*db.ChunkModel)

	hits, err := async.Await(task)
	if err != nil {
		return ranks, cache, err
	}

	for i, h := range hits {
		id := h.Doc.Id()
		if _, seen := ranks[id]; !seen { // keep first (best-ranked) hit
			ranks[id] = i + 1
			cache[id] = &h.Doc
		}
	}
	return ranks, cache, nil
}

// Returns id->rank (1-based) for vector search hits.
func collectVectorSearchRanks(
	task <-chan async.Result[[]odm.SearchHit[db.ChunkAnnModel]],
) (map[string]int, error) {

	ranks := make(map[string]int)

	hits, err := async.Await(task)
	if err != nil {
		return ranks, err
	}

	for i, h := range hits {
		id := h.Doc.Id()
		if _, seen := ranks[id]; !seen {
			ranks[id] = i + 1
		}
	}
	return ranks, nil
}

func (s *SearchStep) fetchChunksByIds(ctx context.Context, cache map[string]*db.ChunkModel, rankedIds []string) ([]*db.ChunkModel, error) {
	if len(rankedIds) == 0 {
		return nil, nil
	}

	chunkByID := make(map[string]*db.ChunkModel, len(rankedIds))
	var missing []string

	for _, id := range rankedIds {
		if c, ok := cache[id]; ok {
			chunkByID[id] = c
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		// fetch all missing in one DB round-trip
		dbChunks, err := async.Await(
			s.chunkRepository.Find(ctx, bson.M{"_id": bson.M{"$in": missing}}, nil, 0, 0),
		)
		if err != nil {
			return nil, err
		}
		for _, ch := range dbChunks {
			chunkByID[ch.ChunkID] = &ch
		}
	}

	// assemble in ranking order
	ordered := make([]*db.ChunkModel, 0, len(rankedIds))
	for _, id := range rankedIds {
		if c, ok := chunkByID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}
