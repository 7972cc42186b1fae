package mockstore

import (
	"context"
	"embed"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mesh-intelligence/admindesk/pkg/types"
)

//go:embed fixtures/*.json
var embedded embed.FS

// FixtureSource fetches the static seed files (users.json, products.json,
// orders.json). Failures wrap types.ErrTransientIO.
type FixtureSource interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// EmbeddedFixtures serves the fixtures compiled into the binary.
type EmbeddedFixtures struct{}

func (EmbeddedFixtures) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := embedded.ReadFile("fixtures/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: fixture %s: %w", types.ErrTransientIO, name, err)
	}
	return data, nil
}

// DirFixtures reads fixtures from a directory on disk.
type DirFixtures string

func (d DirFixtures) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(string(d), filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("%w: fixture %s: %w", types.ErrTransientIO, name, err)
	}
	return data, nil
}

// HTTPFixtures fetches <BaseURL>/<name>. Any non-2xx status is a failure.
type HTTPFixtures struct {
	BaseURL string
	Client  *http.Client
}

func (h HTTPFixtures) Fetch(ctx context.Context, name string) ([]byte, error) {
	u, err := url.JoinPath(strings.TrimRight(h.BaseURL, "/"), name)
	if err != nil {
		return nil, fmt.Errorf("%w: fixture url: %w", types.ErrTransientIO, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: fixture request: %w", types.ErrTransientIO, err)
	}
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %w", types.ErrTransientIO, u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: fetching %s: status %d", types.ErrTransientIO, u, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", types.ErrTransientIO, u, err)
	}
	return data, nil
}

// FixturesFromConfig picks the directory source, then the HTTP source,
// then the embedded fixtures.
func FixturesFromConfig(cfg types.FixturesConfig) FixtureSource {
	switch {
	case cfg.Dir != "":
		return DirFixtures(cfg.Dir)
	case cfg.BaseURL != "":
		return HTTPFixtures{BaseURL: cfg.BaseURL}
	}
	return EmbeddedFixtures{}
}

// EmbeddedFixture returns one of the bundled fixture files. The REST
// server exposes them as static resources.
func EmbeddedFixture(name string) ([]byte, bool) {
	data, err := embedded.ReadFile("fixtures/" + filepath.Base(name))
	if err != nil {
		return nil, false
	}
	return data, true
}
