package metadata

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable marks a video that no resolver can describe: deleted,
// privated, region-locked, or otherwise gone from its platform. Callers
// treat it as a soft failure for the row rather than an import abort.
var ErrUnavailable = errors.New("video unavailable")

// Uploader describes the channel or account that published a video.
type Uploader struct {
	Name   string
	URL    string
	Avatar string
}

// Metadata is the platform-reported description of a single video.
type Metadata struct {
	Title      string
	UploadDate string
	Uploader   Uploader
}

// Resolver looks up metadata for one video URL.
type Resolver interface {
	Resolve(ctx context.Context, videoURL string) (*Metadata, error)
}

// IsUnavailable reports whether err means the video itself is gone, as
// opposed to a transient lookup failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

var unavailableMarkers = []string{
	"video unavailable",
	"private video",
	"this video is not available",
	"has been removed",
	"account associated with this video has been terminated",
	"blocked it in your country",
	"not available in your country",
	"geo restriction",
	"members-only",
	"deleted video",
}

// outputMeansUnavailable inspects resolver tool output for platform
// messages that mean the video is permanently inaccessible.
func outputMeansUnavailable(output string) bool {
	lowered := strings.ToLower(output)
	for _, marker := range unavailableMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
