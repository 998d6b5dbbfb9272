package app

import "noonpick/internal/domain"

// Consolidate merges raw batches from independent search calls into one
// candidate pool: duplicates collapse onto the entry with the smaller
// recorded distance, excluded identities are dropped, and candidates with a
// known rating under minRating are filtered. Unrated candidates (rating 0)
// pass the floor; that asymmetry is intentional.
func Consolidate(batches [][]domain.RawPlace, excluded map[string]struct{}, minRating float64) []domain.Candidate {
	byKey := make(map[string]domain.Candidate)
	var order []string

	for _, batch := range batches {
		for _, raw := range batch {
			key := domain.DeriveKey(raw)
			if _, skip := excluded[key]; skip {
				continue
			}
			if raw.Rating > 0 && raw.Rating < minRating {
				continue
			}
			cand, seen := byKey[key]
			if !seen {
				byKey[key] = toCandidate(key, raw)
				order = append(order, key)
				continue
			}
			if raw.DistanceM < cand.DistanceM {
				byKey[key] = toCandidate(key, raw)
			}
		}
	}

	out := make([]domain.Candidate, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}

func toCandidate(key string, raw domain.RawPlace) domain.Candidate {
	return domain.Candidate{
		Key:         key,
		Provider:    raw.Provider,
		ProviderID:  raw.ProviderID,
		Name:        raw.Name,
		Lat:         raw.Lat,
		Lng:         raw.Lng,
		Address:     raw.Address,
		RoadAddress: raw.RoadAddress,
		Phone:       raw.Phone,
		DistanceM:   raw.DistanceM,
		RawCategory: raw.RawCategory,
		Tags:        raw.Tags,
		DetailURL:   raw.DetailURL,
		Rating:      raw.Rating,
		PhotoURL:    raw.PhotoURL,
	}
}
