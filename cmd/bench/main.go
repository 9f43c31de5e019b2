package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/aretw0/docview/pkg/core"
	"github.com/aretw0/docview/pkg/docset"
	"github.com/aretw0/docview/pkg/query"
	"github.com/aretw0/docview/pkg/view"
)

func main() {
	count := flag.Int("count", 10000, "Number of documents in the result")
	churn := flag.Float64("churn", 0.05, "Fraction of documents changed between results")
	rounds := flag.Int("rounds", 20, "Number of diffs to run")
	seed := flag.Uint64("seed", 1, "Random seed")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	rng := rand.New(rand.NewPCG(*seed, *seed))
	q := query.AtPath(core.Path{"bench"}).OrderBy("score", query.Descending)

	// 1. Initial result
	fmt.Printf("Generating %d documents...\n", *count)
	startGen := time.Now()
	docs := docset.New(q.Comparator())
	for i := 0; i < *count; i++ {
		docs = docs.Add(newDoc(i, 1, rng))
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	// 2. Diff rounds
	var total time.Duration
	var changes int
	for r := 0; r < *rounds; r++ {
		next := mutate(docs, *count, *churn, int64(r+2), rng)

		start := time.Now()
		diff := view.Diff(docs, next, core.KeySet{})
		elapsed := time.Since(start)

		total += elapsed
		changes += len(diff)
		logger.Debug("round", "n", r, "changes", len(diff), "took", elapsed)
		docs = next
	}

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d docs, %.0f%% churn, %d rounds):\n", *count, *churn*100, *rounds)
	fmt.Printf("  Avg diff:    %v\n", total/time.Duration(max(*rounds, 1)))
	fmt.Printf("  Avg changes: %d\n", changes/max(*rounds, 1))
	fmt.Printf("--------------------------------------------------\n")
}

func newDoc(i int, version int64, rng *rand.Rand) core.Document {
	key := core.MustKey(fmt.Sprintf("bench/doc-%06d", i))
	return core.NewDocument(key, version, map[string]any{"score": rng.IntN(1000)})
}

// mutate rescores, removes and adds about churn*count documents.
func mutate(docs *docset.DocumentSet, count int, churn float64, version int64, rng *rand.Rand) *docset.DocumentSet {
	n := int(float64(count) * churn)
	for i := 0; i < n; i++ {
		id := rng.IntN(count * 2)
		switch rng.IntN(3) {
		case 0:
			docs = docs.Remove(newDoc(id, version, rng).Key)
		default:
			docs = docs.Add(newDoc(id, version, rng))
		}
	}
	return docs
}
