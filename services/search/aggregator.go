package search

import "github.com/upb/video-search-gateway/services/providers"

// Result is the merged output of one search.
type Result struct {
	Records []providers.Record `json:"data"`
}

// Aggregate concatenates the records of successful outcomes in outcome order.
// It does not deduplicate, re-rank or truncate.
func Aggregate(outcomes []providers.Outcome) Result {
	n := 0
	for _, out := range outcomes {
		if !out.Failed {
			n += len(out.Records)
		}
	}

	records := make([]providers.Record, 0, n)
	for _, out := range outcomes {
		if out.Failed {
			continue
		}
		records = append(records, out.Records...)
	}
	return Result{Records: records}
}
