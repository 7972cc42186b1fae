package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// DefaultRemoteTimeout bounds a single remote product request.
const DefaultRemoteTimeout = 5 * time.Second

// RequestIDHeader carries the per-request id on remote calls.
const RequestIDHeader = "X-Request-ID"

// RemoteProducts is a client for the product REST surface under BaseURL
// (GET/POST /api/products, GET/PATCH/DELETE /api/products/{id}).
type RemoteProducts struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// NewRemoteProducts returns a client for cfg, or nil when cfg has no base
// URL. A zero timeout uses DefaultRemoteTimeout.
func NewRemoteProducts(cfg types.RemoteConfig, logger *slog.Logger) *RemoteProducts {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &RemoteProducts{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// listValues encodes q as page, limit, search, sortBy and sortOrder,
// omitting empty values. A multi-key sort is also sent whole as sort.
func listValues(q types.ProductQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("limit", strconv.Itoa(q.PageSize))
	}
	if q.SearchText != "" {
		v.Set("search", q.SearchText)
	}
	spec := q.SortSpec()
	if key, ok := spec.Primary(); ok {
		v.Set("sortBy", key.Field)
		v.Set("sortOrder", string(key.Order))
	}
	if len(spec) > 1 {
		v.Set("sort", spec.String())
	}
	return v
}

// List fetches one page of products.
func (r *RemoteProducts) List(ctx context.Context, q types.ProductQuery) (types.Page[types.Product], error) {
	var page types.Page[types.Product]
	err := r.do(ctx, http.MethodGet, "/api/products", listValues(q), nil, &page)
	if page.Data == nil {
		page.Data = []types.Product{}
	}
	return page, err
}

// Get fetches a single product.
func (r *RemoteProducts) Get(ctx context.Context, id string) (types.Product, error) {
	var p types.Product
	err := r.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, nil, &p)
	return p, err
}

// Create posts a new product.
func (r *RemoteProducts) Create(ctx context.Context, req types.CreateProductRequest) (types.Product, error) {
	var p types.Product
	err := r.do(ctx, http.MethodPost, "/api/products", nil, req, &p)
	return p, err
}

// Update patches a product.
func (r *RemoteProducts) Update(ctx context.Context, id string, req types.UpdateProductRequest) (types.Product, error) {
	var p types.Product
	err := r.do(ctx, http.MethodPatch, "/api/products/"+url.PathEscape(id), nil, req, &p)
	return p, err
}

// Delete removes a product.
func (r *RemoteProducts) Delete(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), nil, nil, nil)
}

// do sends one request and decodes a 2xx JSON body into out. Network
// failures and non-2xx statuses wrap ErrTransientIO.
func (r *RemoteProducts) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := r.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", types.ErrTransientIO, method, path, err)
	}
	defer resp.Body.Close()

	r.log.Debug("remote request", "method", method, "path", path, "status", resp.StatusCode, "request_id", reqID)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s %s: status %d", types.ErrTransientIO, method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s %s: %w", types.ErrTransientIO, method, path, err)
	}
	return nil
}
