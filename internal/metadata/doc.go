// Package metadata looks up video descriptions from their hosting
// platforms. The primary resolver shells out to yt-dlp; a page scraper
// serves as an optional fallback, and Chain composes the two.
package metadata
