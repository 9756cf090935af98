// Package httpgateway implements the backend gateway against the credvault HTTP API.
package httpgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slog"

	"credvault/internal/domain/catalog"
	"credvault/internal/model"
)

// APIError is a non-2xx response. Error returns the server message unchanged.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

var _ catalog.Gateway = (*Client)(nil)

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// New returns a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, log *slog.Logger, opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		log:       log.With("component", "http_gateway"),
		baseURL:   baseURL,
		userAgent: "credvault-client/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HealthCheck reports whether the server answers.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/v1/health", nil, nil)
}

func (c *Client) VaultExists(ctx context.Context) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/vault/exists", nil, &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}

func (c *Client) UnlockVault(ctx context.Context, password string) (*model.Vault, error) {
	var v model.Vault
	if err := c.do(ctx, http.MethodPost, "/api/v1/vault/unlock", map[string]string{"password": password}, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) CreateVault(ctx context.Context, password string, settings model.Settings, selectedServiceTypeIDs []string) (*model.Vault, error) {
	body := map[string]any{
		"password":       password,
		"settings":       settings,
		"serviceTypeIds": orEmpty(selectedServiceTypeIDs),
	}
	var v model.Vault
	if err := c.do(ctx, http.MethodPost, "/api/v1/vault", body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) LockVault(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/vault/lock", nil, nil)
}

func (c *Client) GetVault(ctx context.Context) (*model.Vault, error) {
	var v model.Vault
	if err := c.do(ctx, http.MethodGet, "/api/v1/vault", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) DefaultServiceTypes(ctx context.Context) ([]model.ServiceType, error) {
	var types []model.ServiceType
	if err := c.do(ctx, http.MethodGet, "/api/v1/service-types/defaults", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *Client) UpdateSettings(ctx context.Context, settings model.Settings) error {
	return c.do(ctx, http.MethodPut, "/api/v1/vault/settings", settings, nil)
}

func (c *Client) ChangeMasterPassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}
	return c.do(ctx, http.MethodPut, "/api/v1/vault/password", body, nil)
}

func (c *Client) AddServiceType(ctx context.Context, serviceType model.ServiceType) error {
	return c.do(ctx, http.MethodPost, "/api/v1/service-types", wireServiceType(serviceType), nil)
}

func (c *Client) UpdateServiceType(ctx context.Context, serviceType model.ServiceType) error {
	return c.do(ctx, http.MethodPut, "/api/v1/service-types/"+url.PathEscape(serviceType.ID), wireServiceType(serviceType), nil)
}

func (c *Client) DeleteServiceType(ctx context.Context, serviceTypeID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/service-types/"+url.PathEscape(serviceTypeID), nil, nil)
}

func (c *Client) AddService(ctx context.Context, service model.Service, accountID string) error {
	body := map[string]any{"service": wireService(service), "accountId": accountID}
	return c.do(ctx, http.MethodPost, "/api/v1/services", body, nil)
}

func (c *Client) AddServices(ctx context.Context, services []model.Service) error {
	wired := make([]model.Service, len(services))
	for i, s := range services {
		wired[i] = wireService(s)
	}
	return c.do(ctx, http.MethodPost, "/api/v1/services/batch", map[string]any{"services": wired}, nil)
}

func (c *Client) UpdateService(ctx context.Context, service model.Service) error {
	return c.do(ctx, http.MethodPut, "/api/v1/services/"+url.PathEscape(service.ID), wireService(service), nil)
}

func (c *Client) DeleteService(ctx context.Context, serviceID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/services/"+url.PathEscape(serviceID), nil, nil)
}

func (c *Client) DeleteServices(ctx context.Context, serviceIDs []string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/services/delete", map[string]any{"ids": orEmpty(serviceIDs)}, nil)
}

func (c *Client) AddAccount(ctx context.Context, account model.Account) error {
	return c.do(ctx, http.MethodPost, "/api/v1/accounts", wireAccount(account), nil)
}

func (c *Client) UpdateAccount(ctx context.Context, account model.Account) error {
	return c.do(ctx, http.MethodPut, "/api/v1/accounts/"+url.PathEscape(account.ID), wireAccount(account), nil)
}

func (c *Client) DeleteAccount(ctx context.Context, accountID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/accounts/"+url.PathEscape(accountID), nil, nil)
}

func (c *Client) LinkServicesToAccount(ctx context.Context, accountID string, serviceIDs []string) error {
	body := map[string]any{"serviceIds": orEmpty(serviceIDs)}
	return c.do(ctx, http.MethodPost, "/api/v1/accounts/"+url.PathEscape(accountID)+"/services", body, nil)
}

func (c *Client) BulkCreateAccounts(ctx context.Context, request model.BulkCreateRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/accounts/bulk", wireBulk(request), nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: problemDetail(data, resp.Status)}
		c.log.Debug("request failed", "method", method, "path", path, "status", resp.StatusCode, "error", apiErr.Message)
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// problemDetail extracts the RFC 9457 detail the server sends, falling back to
// the raw body and then to the status line.
func problemDetail(data []byte, status string) string {
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &problem); err == nil {
		if problem.Detail != "" {
			return problem.Detail
		}
		if problem.Title != "" {
			return problem.Title
		}
	}
	if msg := string(bytes.TrimSpace(data)); msg != "" {
		return msg
	}
	return status
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
