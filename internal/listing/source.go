package listing

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultLocation = "data/vagas.json"
	userAgent       = "spigell/vagas"
	contentEncoding = "gzip, deflate"
	// A listings document is small; anything past this is not one.
	maxDocumentBytes = 10 << 20
)

// Source fetches the listings document from a local path or an http(s) URL.
type Source struct {
	Location   string
	HTTPClient *http.Client
	UserAgent  string

	logger *zap.Logger
}

func NewSource(location string, logger *zap.Logger) *Source {
	if strings.TrimSpace(location) == "" {
		location = DefaultLocation
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Source{
		Location: location,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: userAgent,
		logger:    logger,
	}
}

// Fetch loads and decodes the document. There is no retry: a failure is
// reported once and the caller keeps an empty set.
func (s *Source) Fetch(ctx context.Context) (*Listings, error) {
	if isRemote(s.Location) {
		return s.fetchRemote(ctx)
	}
	return s.fetchFile()
}

func (s *Source) fetchFile() (*Listings, error) {
	s.logger.Debug("reading listings file", zap.String("path", s.Location))

	file, err := os.Open(s.Location)
	if err != nil {
		return nil, fmt.Errorf("open listings file: %w", err)
	}
	defer file.Close()

	return Decode(io.LimitReader(file, maxDocumentBytes))
}

func (s *Source) fetchRemote(ctx context.Context) (*Listings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Location, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", contentEncoding)

	s.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listings: bad status: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	return Decode(io.LimitReader(body, maxDocumentBytes))
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
