package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/model"
)

const (
	// DefaultBaseURL points at the API container on the compose network.
	DefaultBaseURL = "http://greenflow_api:8000"

	// DefaultCacheFile is where the session token is persisted between
	// dashboard runs.
	DefaultCacheFile = ".greenflow_token.json"

	// cacheTTL is deliberately a little shorter than the server-side token
	// TTL so the cache expires before the token does.
	cacheTTL = 24 * 59 * time.Minute

	requestTimeout = 30 * time.Second
)

var (
	// ErrNotAuthenticated is returned when an authenticated call is made
	// without a usable cached session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired is returned when the server rejects the cached
	// token. The cache is dropped before returning it.
	ErrSessionExpired = errors.New("session expired")
)

// APIError is a non-2xx response decoded from the server's error format.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d [%s]: %s", e.Status, e.Code, e.Message)
}

// Client is the dashboard-side API client. It keeps the session token in a
// JSON cache file so separate dashboard processes share one login.
type Client struct {
	baseURL    string
	apiKey     string
	cache      *tokenCache
	httpClient *http.Client
	now        func() time.Time
}

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	BaseURL   string
	APIKey    string
	CachePath string
}

func New(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cachePath := opts.CachePath
	if cachePath == "" {
		cachePath = DefaultCacheFile
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     opts.APIKey,
		cache:      newTokenCache(cachePath),
		httpClient: &http.Client{Timeout: requestTimeout},
		now:        time.Now,
	}
}

// Login authenticates and persists the session to the cache file.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return err
	}

	resp, err := c.post(ctx, "/login", "application/json", bytes.NewReader(body), false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	var loginResp struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	return c.cache.save(cachedSession{
		Token:     loginResp.Token,
		Username:  loginResp.Username,
		ExpiresAt: c.now().Add(cacheTTL).Unix(),
	})
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return err
	}

	resp, err := c.post(ctx, "/register", "application/json", bytes.NewReader(body), false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return decodeAPIError(resp)
	}
	return nil
}

// Logout drops the cached session.
func (c *Client) Logout() error {
	return c.cache.clear()
}

// Session reports the state of the cached session.
func (c *Client) Session() SessionState {
	session, ok := c.cache.load()
	if !ok {
		return SessionAnonymous
	}
	if c.now().Unix() >= session.ExpiresAt {
		return SessionExpired
	}
	return SessionAuthenticated
}

// Username returns the cached username, empty when anonymous.
func (c *Client) Username() string {
	session, ok := c.cache.load()
	if !ok {
		return ""
	}
	return session.Username
}

// Sectors fetches the distinct sector names.
func (c *Client) Sectors(ctx context.Context) ([]string, error) {
	var resp struct {
		Sectors []string `json:"sectors"`
	}
	if err := c.getJSON(ctx, "/sectors", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sectors, nil
}

// Insights fetches every sector insight.
func (c *Client) Insights(ctx context.Context) ([]model.SectorInsight, error) {
	var resp struct {
		Insights []model.SectorInsight `json:"insights"`
	}
	if err := c.getJSON(ctx, "/insights", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Insights, nil
}

// InsightBySector fetches one sector's insight.
func (c *Client) InsightBySector(ctx context.Context, sector string) (*model.SectorInsight, error) {
	var insight model.SectorInsight
	if err := c.getJSON(ctx, "/insights/"+url.PathEscape(sector), nil, &insight); err != nil {
		return nil, err
	}
	return &insight, nil
}

// SensorData fetches the most recent raw rows, optionally filtered.
func (c *Client) SensorData(ctx context.Context, limit int, company, sector string) ([]model.SensorRecord, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if company != "" {
		params.Set("company", company)
	}
	if sector != "" {
		params.Set("sector", sector)
	}

	var resp struct {
		Data []model.SensorRecord `json:"data"`
	}
	if err := c.getJSON(ctx, "/sensor-data", params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CompaniesQuery carries the paginated listing parameters.
type CompaniesQuery struct {
	Sector   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// CompaniesPage mirrors the server's paginated companies response.
type CompaniesPage struct {
	Companies  []model.CompanyRow `json:"companies"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
	TotalRows  int                `json:"total_rows"`
}

// Companies fetches one page of the companies listing.
func (c *Client) Companies(ctx context.Context, q CompaniesQuery) (*CompaniesPage, error) {
	params := url.Values{}
	if q.Sector != "" {
		params.Set("sector", q.Sector)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.OrderBy != "" {
		params.Set("order_by", q.OrderBy)
	}
	if q.OrderDir != "" {
		params.Set("order_dir", q.OrderDir)
	}

	var page CompaniesPage
	if err := c.getJSON(ctx, "/companies", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// LoadData triggers a server-side load of fileName (empty for the default
// data file) and returns the number of rows loaded.
func (c *Client) LoadData(ctx context.Context, fileName string) (int, error) {
	payload := map[string]string{}
	if fileName != "" {
		payload["file_name"] = fileName
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	resp, err := c.post(ctx, "/load-data", "application/json", bytes.NewReader(body), true)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.cache.clear()
		return 0, ErrSessionExpired
	}
	if resp.StatusCode != http.StatusOK {
		return 0, decodeAPIError(resp)
	}

	var loadResp struct {
		RowsLoaded int `json:"rows_loaded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loadResp); err != nil {
		return 0, fmt.Errorf("decode load response: %w", err)
	}
	return loadResp.RowsLoaded, nil
}

// UploadParquet streams a Parquet file to the server as a multipart upload.
func (c *Client) UploadParquet(ctx context.Context, fileName string, src io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, src); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	resp, err := c.post(ctx, "/upload-parquet", mw.FormDataContentType(), &buf, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.cache.clear()
		return ErrSessionExpired
	}
	if resp.StatusCode != http.StatusCreated {
		return decodeAPIError(resp)
	}
	return nil
}

func (c *Client) bearerToken() (string, error) {
	session, ok := c.cache.load()
	if !ok {
		return "", ErrNotAuthenticated
	}
	if c.now().Unix() >= session.ExpiresAt {
		c.cache.clear()
		return "", ErrSessionExpired
	}
	return session.Token, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	token, err := c.bearerToken()
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.cache.clear()
		return ErrSessionExpired
	}
	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// post sends a POST request, attaching the Bearer token and API key when the
// endpoint requires them.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, admin bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	if admin {
		token, err := c.bearerToken()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("X-API-Key", c.apiKey)
	}

	return c.httpClient.Do(req)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Error
	}
	return apiErr
}
