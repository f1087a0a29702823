// Package aggregate folds the global set of raw rating records into
// per-driver statistics. There is no server-side index: every pass scans
// all raw records, filters by discriminator and recomputes from scratch.
package aggregate

import (
	"github.com/distordia/nexgo/internal/codec"
	"github.com/distordia/nexgo/internal/domain/models"
)

type accumulator struct {
	totalScore int
	count      int
	avoidCount int
}

// Aggregate reduces raw record payloads into per-driver rating aggregates.
// Records that fail to decode or carry a foreign discriminator are skipped,
// a single malformed record never aborts the pass. Scores outside [1,5]
// are excluded from the average, the avoid flag counts regardless.
// The result does not depend on input order, and the same driver appearing
// in many collections is expected: every passenger's opinion counts.
func Aggregate(rawRecords []string) map[string]models.DriverRating {
	skipped := 0
	return aggregate(rawRecords, &skipped)
}

// AggregateCounting also reports how many records were skipped, for diagnostics.
func AggregateCounting(rawRecords []string) (map[string]models.DriverRating, int) {
	skipped := 0
	out := aggregate(rawRecords, &skipped)
	return out, skipped
}

func aggregate(rawRecords []string, skipped *int) map[string]models.DriverRating {
	buckets := make(map[string]*accumulator)

	for _, raw := range rawRecords {
		collection, err := codec.DecodeRatingCollection(raw)
		if err != nil {
			*skipped++
			continue
		}

		for genesis, entry := range collection {
			bucket, ok := buckets[genesis]
			if !ok {
				bucket = &accumulator{}
				buckets[genesis] = bucket
			}

			if entry.Score >= 1 && entry.Score <= 5 {
				bucket.totalScore += entry.Score
				bucket.count++
			}
			if entry.Avoid {
				bucket.avoidCount++
			}
		}
	}

	out := make(map[string]models.DriverRating, len(buckets))
	for genesis, bucket := range buckets {
		rating := models.DriverRating{
			Count:      bucket.count,
			AvoidCount: bucket.avoidCount,
		}
		if bucket.count > 0 {
			rating.Average = float64(bucket.totalScore) / float64(bucket.count)
		}
		out[genesis] = rating
	}

	return out
}
