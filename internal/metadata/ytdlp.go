package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// Option configures the yt-dlp client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client resolves video metadata by invoking yt-dlp.
type Client struct {
	binary             string
	timeout            time.Duration
	cookiesFromBrowser string
	userAgent          string
	exec               Executor
}

// NewClient constructs a yt-dlp backed resolver.
func NewClient(binary string, timeoutSeconds int, cookiesFromBrowser, userAgent string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "yt-dlp"
	}
	client := &Client{
		binary:             binary,
		timeout:            time.Duration(timeoutSeconds) * time.Second,
		cookiesFromBrowser: strings.TrimSpace(cookiesFromBrowser),
		userAgent:          strings.TrimSpace(userAgent),
		exec:               commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type ytdlpPayload struct {
	Title        string `json:"title"`
	UploadDate   string `json:"upload_date"`
	Timestamp    int64  `json:"timestamp"`
	Uploader     string `json:"uploader"`
	UploaderID   string `json:"uploader_id"`
	UploaderURL  string `json:"uploader_url"`
	ChannelURL   string `json:"channel_url"`
	Thumbnail    string `json:"thumbnail"`
	ExtractorKey string `json:"extractor_key"`
	WebpageURL   string `json:"webpage_url"`
}

// Resolve runs yt-dlp against the URL and decodes its JSON description.
func (c *Client) Resolve(ctx context.Context, videoURL string) (*Metadata, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return nil, errors.New("resolve: empty url")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{"--dump-single-json", "--no-playlist", "--skip-download"}
	if c.cookiesFromBrowser != "" {
		args = append(args, "--cookies-from-browser", c.cookiesFromBrowser)
	}
	if c.userAgent != "" {
		args = append(args, "--user-agent", c.userAgent)
	}
	args = append(args, "--", videoURL)

	output, err := c.exec.Run(ctx, c.binary, args)
	if err != nil {
		detail := commandDetail(err)
		if outputMeansUnavailable(detail) {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, firstLine(detail))
		}
		return nil, fmt.Errorf("yt-dlp resolve: %w: %s", err, firstLine(detail))
	}

	var payload ytdlpPayload
	if err := json.Unmarshal(output, &payload); err != nil {
		return nil, fmt.Errorf("yt-dlp parse: %w", err)
	}
	return payload.toMetadata(), nil
}

func (p ytdlpPayload) toMetadata() *Metadata {
	return &Metadata{
		Title:      strings.TrimSpace(p.Title),
		UploadDate: formatUploadDate(p.UploadDate, p.Timestamp),
		Uploader: Uploader{
			Name:   strings.TrimSpace(p.Uploader),
			URL:    p.uploaderURL(),
			Avatar: strings.TrimSpace(p.Thumbnail),
		},
	}
}

// uploaderURL picks the channel link for the video's platform. NicoNico
// extractions carry only a numeric uploader id, so the user page URL is
// rebuilt from it.
func (p ytdlpPayload) uploaderURL() string {
	if url := strings.TrimSpace(p.UploaderURL); url != "" {
		return url
	}
	if url := strings.TrimSpace(p.ChannelURL); url != "" {
		return url
	}
	id := strings.TrimSpace(p.UploaderID)
	if id == "" {
		return ""
	}
	if strings.EqualFold(p.ExtractorKey, "niconico") || strings.Contains(p.WebpageURL, "nicovideo.jp") {
		return "https://www.nicovideo.jp/user/" + id
	}
	return ""
}

// formatUploadDate normalizes yt-dlp's date reporting to YYYY-MM-DD.
// Most extractors emit an 8-digit upload_date; some only report a unix
// timestamp.
func formatUploadDate(uploadDate string, timestamp int64) string {
	uploadDate = strings.TrimSpace(uploadDate)
	if len(uploadDate) == 8 {
		if parsed, err := time.Parse("20060102", uploadDate); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	if timestamp > 0 {
		return time.Unix(timestamp, 0).UTC().Format("2006-01-02")
	}
	return uploadDate
}

func commandDetail(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return string(exitErr.Stderr)
	}
	return err.Error()
}

func firstLine(output string) string {
	output = strings.TrimSpace(output)
	if idx := strings.IndexByte(output, '\n'); idx >= 0 {
		output = output[:idx]
	}
	return output
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.Output()
}
