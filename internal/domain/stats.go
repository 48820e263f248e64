package domain

type ComplaintStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
}

func StatsFromCounts(counts map[Status]int64) ComplaintStats {
	s := ComplaintStats{
		Pending:    counts[StatusPending],
		InProgress: counts[StatusInProgress],
		Resolved:   counts[StatusResolved],
	}
	for _, n := range counts {
		s.Total += n
	}
	return s
}
