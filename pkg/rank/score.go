package rank

// Score is the per-query value pair for one candidate.
type Score struct {
	TextMatch float64
	Semantic  float64
}

// Scored is one ranked candidate during selection: its bucket, score, and
// stable original index.
type Scored struct {
	Bucket PriorityBucket
	Score  Score
	Index  int
}

// Better reports whether a ranks strictly ahead of b. The chain is bucket
// ascending, semantic score descending, text score descending, and finally
// original index ascending, which makes the order a strict total order and
// the output deterministic.
func Better(a, b Scored) bool {
	if a.Bucket != b.Bucket {
		return a.Bucket < b.Bucket
	}
	if a.Score.Semantic != b.Score.Semantic {
		return a.Score.Semantic > b.Score.Semantic
	}
	if a.Score.TextMatch != b.Score.TextMatch {
		return a.Score.TextMatch > b.Score.TextMatch
	}
	return a.Index < b.Index
}
