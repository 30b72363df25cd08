package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gitlab.com/nextmod/nextmod/internal/cache"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/retry"
	"gitlab.com/nextmod/nextmod/internal/version"
)

// BaseForge provides common HTTP operations for the GitLab and GitHub backends.
// Each backend owns its own BaseForge; nothing is shared between them.
type BaseForge struct {
	httpClient *http.Client
	apiURL     string
	token      string

	authHeaderPrefix string
	customHeaders    map[string]string

	cache    cache.Cache
	cacheTTL time.Duration

	retry retry.Policy
}

// cachedResponse is the cache representation of a successful response.
type cachedResponse struct {
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// NewBaseForge creates a BaseForge. An empty token sends anonymous requests.
func NewBaseForge(httpClient *http.Client, apiURL, token string) *BaseForge {
	if httpClient == nil {
		httpClient = newHTTPClient30s()
	}
	return &BaseForge{
		httpClient:       httpClient,
		apiURL:           apiURL,
		token:            token,
		authHeaderPrefix: "Bearer ",
		customHeaders:    make(map[string]string),
		cache:            cache.NullCache{},
	}
}

// SetAuthHeaderPrefix customizes the authorization header format.
func (b *BaseForge) SetAuthHeaderPrefix(prefix string) {
	b.authHeaderPrefix = prefix
}

// SetCustomHeader sets a backend-specific header sent with every request.
func (b *BaseForge) SetCustomHeader(key, value string) {
	b.customHeaders[key] = value
}

// SetCache enables response caching for successful GET and HEAD requests.
func (b *BaseForge) SetCache(c cache.Cache, ttl time.Duration) {
	if c == nil {
		c = cache.NullCache{}
	}
	b.cache = c
	b.cacheTTL = ttl
}

// SetRetryPolicy retries network failures, 429 and 5xx responses with p.
func (b *BaseForge) SetRetryPolicy(p retry.Policy) {
	b.retry = p
}

// NewRequest creates an HTTP request against the API root.
// Endpoint is a relative path with already-escaped segments, optionally
// carrying a query string, like "groups/nextmod%2Fmod/subgroups?all_available=true".
func (b *BaseForge) NewRequest(ctx context.Context, method, endpoint string) (*http.Request, error) {
	u, err := url.Parse(b.apiURL)
	if err != nil {
		return nil, errors.ForgeError("failed to parse API URL").
			WithCause(err).
			WithContext("api_url", b.apiURL).
			Build()
	}
	ep, err := url.Parse(strings.TrimPrefix(endpoint, "/"))
	if err != nil {
		return nil, errors.ForgeError("failed to parse endpoint").
			WithCause(err).
			WithContext("endpoint", endpoint).
			Build()
	}

	basePath := strings.TrimSuffix(u.Path, "/")
	baseRaw := strings.TrimSuffix(u.EscapedPath(), "/")
	u.Path = basePath + "/" + ep.Path
	u.RawPath = baseRaw + "/" + ep.EscapedPath()
	u.RawQuery = ep.RawQuery

	req, err := http.NewRequestWithContext(ctx, method, u.String(), http.NoBody)
	if err != nil {
		return nil, errors.ForgeError("failed to create request").
			WithCause(err).
			WithContext("method", method).
			WithContext("url", u.String()).
			Build()
	}

	if b.token != "" {
		req.Header.Set("Authorization", b.authHeaderPrefix+b.token)
	}
	req.Header.Set("User-Agent", "nextmod/"+version.Version)
	for key, value := range b.customHeaders {
		req.Header.Set(key, value)
	}
	return req, nil
}

// Get fetches endpoint and returns the response body and headers.
func (b *BaseForge) Get(ctx context.Context, endpoint string) ([]byte, http.Header, error) {
	resp, err := b.fetch(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, nil, err
	}
	return resp.Body, resp.Header, nil
}

// GetJSON fetches endpoint and decodes the JSON body into result.
func (b *BaseForge) GetJSON(ctx context.Context, endpoint string, result any) (http.Header, error) {
	resp, err := b.fetch(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resp.Body, result); err != nil {
		return nil, errors.ForgeError("failed to decode response").
			WithCause(err).
			WithContext("endpoint", endpoint).
			Build()
	}
	return resp.Header, nil
}

// Head issues a HEAD request and returns the response headers.
func (b *BaseForge) Head(ctx context.Context, endpoint string) (http.Header, error) {
	resp, err := b.fetch(ctx, http.MethodHead, endpoint)
	if err != nil {
		return nil, err
	}
	return resp.Header, nil
}

func (b *BaseForge) fetch(ctx context.Context, method, endpoint string) (*cachedResponse, error) {
	req, err := b.NewRequest(ctx, method, endpoint)
	if err != nil {
		return nil, err
	}

	key := method + " " + req.URL.String()
	if data, ok, cerr := b.cache.Get(ctx, key); cerr == nil && ok {
		var cached cachedResponse
		if json.Unmarshal(data, &cached) == nil {
			return &cached, nil
		}
	}

	var resp *cachedResponse
	err = b.retry.Do(ctx, transient, func() error {
		var rerr error
		resp, rerr = b.doRequest(req)
		return rerr
	})
	if err != nil {
		return nil, err
	}
	if data, merr := json.Marshal(resp); merr == nil {
		// A failing cache only costs a refetch on the next build.
		_ = b.cache.Set(ctx, key, data, b.cacheTTL)
	}
	return resp, nil
}

// doRequest executes an HTTP request and reads the whole response.
// Error statuses are classified: 401/403 as auth, 404 as not_found.
func (b *BaseForge) doRequest(req *http.Request) (*cachedResponse, error) {
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, errors.NetworkError("failed to execute forge request").
			WithCause(err).
			WithContext("method", req.Method).
			WithContext("url", req.URL.String()).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		limitedBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		bodyStr := strings.ReplaceAll(string(limitedBody), "\n", " ")

		msg := fmt.Sprintf("forge API error: %s", resp.Status)
		var eb *errors.ErrorBuilder
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			eb = errors.AuthError(msg)
		case http.StatusNotFound:
			eb = errors.NotFoundError(msg)
		default:
			eb = errors.ForgeError(msg)
		}
		return nil, eb.WithContext("status", resp.Status).
			WithContext("code", resp.StatusCode).
			WithContext("url", req.URL.String()).
			WithContext("response", bodyStr).
			Build()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NetworkError("failed to read forge response").
			WithCause(err).
			WithContext("url", req.URL.String()).
			Build()
	}
	return &cachedResponse{Header: resp.Header.Clone(), Body: body}, nil
}

// transient reports whether a failed request may succeed when repeated.
func transient(err error) bool {
	ce, ok := errors.AsClassified(err)
	if !ok {
		return false
	}
	if ce.Category() == errors.CategoryNetwork {
		return true
	}
	code, _ := ce.Context().Get("code")
	status, _ := code.(int)
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// PaginatedFetchHelper performs paginated API requests using a common pattern.
// The caller provides:
// - ctx: context for cancellation
// - baseEndpoint: API path without pagination params (e.g., "orgs/nextmod/repos")
// - pageParam: name of page parameter ("page" for both APIs)
// - limitParam: name of limit/per_page parameter
// - pageSize: items per page
// - fetchPage: callback that receives full endpoint and returns items + hasMore + error
//
// Returns all accumulated results or an error.
func PaginatedFetchHelper[T any](
	ctx context.Context,
	baseEndpoint string,
	pageParam string,
	limitParam string,
	pageSize int,
	fetchPage func(endpoint string) ([]T, bool, error),
) ([]T, error) {
	var allResults []T
	page := 1

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sep := "?"
		if strings.Contains(baseEndpoint, "?") {
			sep = "&"
		}
		endpoint := fmt.Sprintf("%s%s%s=%d&%s=%d", baseEndpoint, sep, pageParam, page, limitParam, pageSize)

		pageResults, hasMore, err := fetchPage(endpoint)
		if err != nil {
			return nil, err
		}

		allResults = append(allResults, pageResults...)

		if !hasMore || len(pageResults) < pageSize {
			break
		}

		page++
	}

	return allResults, nil
}

// fetchAllJSON pages through a JSON array endpoint.
func fetchAllJSON[T any](ctx context.Context, b *BaseForge, baseEndpoint string) ([]T, error) {
	return PaginatedFetchHelper(ctx, baseEndpoint, "page", "per_page", pageSize,
		func(endpoint string) ([]T, bool, error) {
			var items []T
			if _, err := b.GetJSON(ctx, endpoint, &items); err != nil {
				return nil, false, err
			}
			return items, len(items) > 0, nil
		})
}

const pageSize = 100
