package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/glorpus-work/pack/internal/logger"
	"github.com/glorpus-work/pack/pkg/auth"
	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/glorpus-work/pack/pkg/model"
)

// API paths relative to the registry base URL.
const (
	PathGetPack = "/api/get-pack"
	PathSearch  = "/api/search"
	PathPublish = "/api/publish"
)

// DefaultUserAgent identifies the client to the registry.
const DefaultUserAgent = "pack-cli/1.0.0"

// maxResponseSize bounds how much of a reply is read into memory.
const maxResponseSize = 64 << 20

// HTTPClient implements Client against the registry HTTP API.
type HTTPClient struct {
	baseURL   string
	client    *http.Client
	userAgent string
}

// NewHTTPClient creates a registry client for baseURL with the given request
// timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, userAgent string) *HTTPClient {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// BaseURL returns the registry base URL without a trailing slash.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// FetchPackage implements Client.
func (c *HTTPClient) FetchPackage(ctx context.Context, spec model.PackageSpec, bypassCache bool) (*model.RegistryResponse, error) {
	params := url.Values{}
	params.Set("id", spec.ID)
	if spec.Version != "" {
		params.Set("version", spec.Version)
	}
	if bypassCache {
		params.Set("no_cache", "1")
	}

	req, err := c.newRequest(ctx, http.MethodGet, PathGetPack, params, http.NoBody)
	if err != nil {
		return nil, err
	}

	var out model.RegistryResponse
	if err := c.do(req, "fetch package", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search implements Client.
func (c *HTTPClient) Search(ctx context.Context, query SearchQuery) (*model.SearchResult, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	params := url.Values{}
	if query.Query != "" {
		params.Set("q", query.Query)
	}
	if query.Type != "" {
		params.Set("type", query.Type)
	}
	params.Set("limit", strconv.Itoa(limit))

	req, err := c.newRequest(ctx, http.MethodGet, PathSearch, params, http.NoBody)
	if err != nil {
		return nil, err
	}

	var out model.SearchResult
	if err := c.do(req, "search", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Publish implements Client. The credentials are checked before anything is
// sent.
func (c *HTTPClient) Publish(ctx context.Context, pr PublishRequest, authenticator auth.Authenticator) (*model.PublishResult, error) {
	if authenticator == nil {
		return nil, errors.ErrMissingAPIKey
	}

	body, contentType, err := buildPublishBody(pr)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, PathPublish, nil, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if err := authenticator.Apply(req); err != nil {
		return nil, err
	}

	var out model.PublishResult
	if err := c.do(req, "publish", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func buildPublishBody(pr PublishRequest) (*bytes.Buffer, string, error) {
	archive, err := os.Open(pr.ArchivePath)
	if err != nil {
		return nil, "", errors.IOError(err, "failed to open archive %s", pr.ArchivePath)
	}
	defer func() { _ = archive.Close() }()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="package"; filename=%q`, pr.Name+".tar.gz"))
	header.Set("Content-Type", "application/gzip")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to create multipart file part")
	}
	if _, err := io.Copy(part, archive); err != nil {
		return nil, "", errors.IOError(err, "failed to read archive %s", pr.ArchivePath)
	}

	fields := [][2]string{
		{"name", pr.Name},
		{"version", pr.Version},
		{"description", pr.Description},
		{"public", strconv.FormatBool(pr.Public)},
		{"type", pr.Type},
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, "", errors.Wrapf(err, "failed to write field %s", f[0])
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", errors.Wrap(err, "failed to finish multipart body")
	}
	return body, writer.FormDataContentType(), nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, params url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.NewNetworkError(method+" "+path, 0, nil, "", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and decodes a 2xx JSON reply into out. Anything else becomes
// a NetworkError carrying the registry's error object when one is present.
func (c *HTTPClient) do(req *http.Request, op string, out any) error {
	logger.Debug("Registry request", logger.Fields{"method": req.Method, "url": req.URL.String()})

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.NewNetworkError(op, 0, nil, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errors.NewNetworkError(op, resp.StatusCode, nil, "", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewNetworkError(op, resp.StatusCode, parseRegistryError(data), string(data), nil)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.NewNetworkError(op, resp.StatusCode, nil, string(data), fmt.Errorf("invalid JSON reply: %w", err))
	}
	return nil
}

func parseRegistryError(data []byte) *errors.RegistryError {
	var envelope struct {
		Error *errors.RegistryError `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil
	}
	return envelope.Error
}

// ReplyError turns an unsuccessful registry reply into a NetworkError.
func ReplyError(op string, regErr *errors.RegistryError) error {
	if regErr == nil || regErr.Message == "" {
		regErr = &errors.RegistryError{Message: "Unknown error"}
	}
	return errors.NewNetworkError(op, 0, regErr, "", nil)
}
