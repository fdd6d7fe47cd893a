package clean

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/domain"
)

// ContentHash returns the stable content hash used for strict deduplication.
// It hashes the value itself, not object identity, so two records carrying
// identical normalized text always collide.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))

	return hex.EncodeToString(sum[:])
}

// DedupResult carries the surviving records plus dedup metadata.
type DedupResult struct {
	Records []domain.Record
	// RemovedCount is the number of records dropped as duplicates.
	RemovedCount int
	// DuplicateOf maps a dropped record's ID to the ID of its first-seen twin.
	DuplicateOf map[string]string
}

// Deduplicate removes records whose normalized text hash was already seen,
// keeping the first occurrence and preserving relative order. Single pass,
// linear in input size.
func Deduplicate(records []domain.Record) DedupResult {
	result := DedupResult{
		Records:     make([]domain.Record, 0, len(records)),
		DuplicateOf: make(map[string]string),
	}

	firstSeen := make(map[string]string, len(records))

	for _, rec := range records {
		hash := ContentHash(rec.CleanText)

		if keptID, ok := firstSeen[hash]; ok {
			result.RemovedCount++
			result.DuplicateOf[rec.ID] = keptID

			continue
		}

		firstSeen[hash] = rec.ID
		result.Records = append(result.Records, rec)
	}

	return result
}
