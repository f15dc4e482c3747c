// Package components splices shared page fragments (header, footer) into
// their placeholders.
package components

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

const (
	modernPrefix     = "/inatel-modern"
	maxFragmentBytes = 1 << 20
)

// Spec names a fragment and the id of the element it replaces.
type Spec struct {
	Name        string
	Placeholder string
}

var DefaultSpecs = []Spec{
	{Name: "header", Placeholder: "header-placeholder"},
	{Name: "footer", Placeholder: "footer-placeholder"},
}

type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// BasePath returns the prefix the fragments are served under for a page path.
func BasePath(path string) string {
	if strings.Contains(path, modernPrefix+"/") {
		return modernPrefix
	}
	return ""
}

// DirFetcher reads <Dir>/components/<name>.html.
type DirFetcher struct {
	Dir string
}

func (f DirFetcher) Fetch(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(f.Dir, "components", name+".html"))
}

// HTTPFetcher requests <BaseURL><BasePath(PagePath)>/components/<name>.html.
type HTTPFetcher struct {
	BaseURL  string
	PagePath string
	Client   *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	url := strings.TrimRight(f.BaseURL, "/") + BasePath(f.PagePath) + "/components/" + name + ".html"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: bad status: %s", url, resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxFragmentBytes))
}

type Loader struct {
	fetcher Fetcher
	logger  *zap.Logger

	ready chan struct{}
	once  sync.Once
}

func NewLoader(fetcher Fetcher, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loader{
		fetcher: fetcher,
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Ready is closed once the first Load has finished, whatever its outcome.
func (l *Loader) Ready() <-chan struct{} {
	return l.ready
}

// Load fetches every fragment concurrently and replaces each placeholder with
// its fragment. A failed fragment leaves its placeholder untouched and is
// reported as false in the returned map.
func (l *Loader) Load(ctx context.Context, page []byte, specs []Spec) ([]byte, map[string]bool, error) {
	defer l.once.Do(func() { close(l.ready) })

	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, nil, fmt.Errorf("parse page: %w", err)
	}

	fragments := make([][]byte, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			body, err := l.fetcher.Fetch(gctx, spec.Name)
			if err != nil {
				l.logger.Error("failed to load component",
					zap.String("component", spec.Name),
					zap.Error(err),
				)
				return nil
			}
			fragments[i] = body
			return nil
		})
	}
	// Fetch errors are logged per component, Wait never fails.
	_ = g.Wait()

	loaded := make(map[string]bool, len(specs))
	for i, spec := range specs {
		loaded[spec.Name] = false
		if fragments[i] == nil {
			continue
		}

		placeholder := findByID(doc, spec.Placeholder)
		if placeholder == nil {
			l.logger.Warn("placeholder not found",
				zap.String("component", spec.Name),
				zap.String("placeholder", spec.Placeholder),
			)
			continue
		}

		if err := replace(placeholder, fragments[i]); err != nil {
			l.logger.Error("failed to splice component",
				zap.String("component", spec.Name),
				zap.Error(err),
			)
			continue
		}

		loaded[spec.Name] = true
		l.logger.Debug("component loaded", zap.String("component", spec.Name))
	}

	var out bytes.Buffer
	if err := html.Render(&out, doc); err != nil {
		return nil, loaded, fmt.Errorf("render page: %w", err)
	}

	return out.Bytes(), loaded, nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}

	return nil
}

// replace swaps the placeholder element for the parsed fragment, the
// equivalent of setting its outerHTML.
func replace(placeholder *html.Node, fragment []byte) error {
	parent := placeholder.Parent
	if parent == nil {
		return fmt.Errorf("placeholder has no parent")
	}

	nodes, err := html.ParseFragment(bytes.NewReader(fragment), parent)
	if err != nil {
		return err
	}

	for _, node := range nodes {
		parent.InsertBefore(node, placeholder)
	}
	parent.RemoveChild(placeholder)

	return nil
}
