package models

// RatingEntry is one passenger's opinion about one driver.
// Score outside [1,5] is ignored by aggregation, avoid still counts.
type RatingEntry struct {
	Score int  `json:"score"`
	Avoid bool `json:"avoid"`
}

// RatingCollection maps driver genesis id to that passenger's rating entry.
// One collection per passenger identity, name-addressed on the ledger.
type RatingCollection map[string]RatingEntry

// Clone returns a shallow copy safe for merge-by-key mutation
func (c RatingCollection) Clone() RatingCollection {
	out := make(RatingCollection, len(c))
	for genesis, entry := range c {
		out[genesis] = entry
	}
	return out
}

// DriverRating is the derived per-driver aggregate. It is recomputed
// wholesale on every aggregation pass and never persisted.
type DriverRating struct {
	Average    float64 `json:"average"`
	Count      int     `json:"count"`
	AvoidCount int     `json:"avoid_count"`
}
