package sanitizer

// NormalizeAmenities normalizes each amenity, drops empties and deduplicates
// while preserving first-seen order.
func NormalizeAmenities(amenities []string) []string {
	if len(amenities) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(amenities))
	result := make([]string, 0, len(amenities))

	for _, a := range amenities {
		normalized := NormalizeAmenity(a)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
