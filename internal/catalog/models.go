package catalog

import "strconv"

// Author is an identity record for a video creator. Authors are created on
// first encounter and enriched later; the engine never deletes them.
type Author struct {
	ID      int64
	Name    string
	URL     string
	Avatar  string
	Comment string
}

// Video is a catalog record keyed by its original-source URL (when non-empty).
type Video struct {
	ID                int64
	AuthorID          int64
	OriginalTitle     string
	OriginalURL       string
	Date              string
	RepostTitle       string
	RepostURL         string
	TranslationStatus TranslationStatus
	Comment           string
}

// TranslationStatus tracks how a video's translation is provided. Lower
// non-zero values are more complete; zero means no information.
type TranslationStatus int

const (
	StatusUnset         TranslationStatus = 0
	StatusEmbedded      TranslationStatus = 1
	StatusClosedCaption TranslationStatus = 2
	StatusCommentTrack  TranslationStatus = 3
	StatusNotNeeded     TranslationStatus = 4
	StatusPending       TranslationStatus = 5
)

var statusLabels = map[TranslationStatus]string{
	StatusUnset:         "not set",
	StatusEmbedded:      "embedded subtitles",
	StatusClosedCaption: "closed captions",
	StatusCommentTrack:  "comment-track translation",
	StatusNotNeeded:     "no translation needed",
	StatusPending:       "no translation yet",
}

// Label returns a human-readable description of the status.
func (s TranslationStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "unknown status (" + strconv.Itoa(int(s)) + ")"
}

// ParseTranslationStatus converts a raw field value into a status. Anything
// that is not a plain non-negative integer maps to StatusUnset, matching how
// source sheets leave the column blank or freeform.
func ParseTranslationStatus(raw string) TranslationStatus {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return StatusUnset
	}
	return TranslationStatus(value)
}

// PreferStatus chooses the more complete of two statuses. Zero is "no
// information" and never wins against an explicit status; between two
// non-zero statuses the lower value is preferred.
func PreferStatus(a, b TranslationStatus) TranslationStatus {
	switch {
	case a == StatusUnset:
		return b
	case b == StatusUnset:
		return a
	case a < b:
		return a
	default:
		return b
	}
}

// AllStatuses returns the known statuses in display order.
func AllStatuses() []TranslationStatus {
	return []TranslationStatus{
		StatusUnset,
		StatusEmbedded,
		StatusClosedCaption,
		StatusCommentTrack,
		StatusNotNeeded,
		StatusPending,
	}
}
