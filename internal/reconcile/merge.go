package reconcile

import "vidsync/internal/catalog"

// mergeFillEmpty implements the unattended merge: candidate values only
// fill gaps in the existing record, and the translation status advances
// only toward a more complete one. The existing title is never touched.
// The second return value reports whether anything actually changed.
func mergeFillEmpty(existing, candidate catalog.Video) (catalog.Video, bool) {
	merged := existing
	changed := false

	if merged.RepostTitle == "" && candidate.RepostTitle != "" {
		merged.RepostTitle = candidate.RepostTitle
		changed = true
	}
	if merged.RepostURL == "" && candidate.RepostURL != "" {
		merged.RepostURL = candidate.RepostURL
		changed = true
	}
	if merged.Date == "" && candidate.Date != "" {
		merged.Date = candidate.Date
		changed = true
	}
	if merged.Comment == "" && candidate.Comment != "" {
		merged.Comment = candidate.Comment
		changed = true
	}
	if preferred := catalog.PreferStatus(candidate.TranslationStatus, existing.TranslationStatus); preferred != existing.TranslationStatus {
		merged.TranslationStatus = preferred
		changed = true
	}

	return merged, changed
}

// mergePreferCandidate implements the explicit Merge decision: candidate
// values win wherever present, existing values backfill the rest. The
// record keeps its original author.
func mergePreferCandidate(existing, candidate catalog.Video) catalog.Video {
	merged := existing
	merged.OriginalTitle = firstOf(candidate.OriginalTitle, existing.OriginalTitle)
	merged.Date = firstOf(candidate.Date, existing.Date)
	merged.RepostTitle = firstOf(candidate.RepostTitle, existing.RepostTitle)
	merged.RepostURL = firstOf(candidate.RepostURL, existing.RepostURL)
	merged.Comment = firstOf(candidate.Comment, existing.Comment)
	merged.TranslationStatus = catalog.PreferStatus(candidate.TranslationStatus, existing.TranslationStatus)
	return merged
}

func firstOf(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
