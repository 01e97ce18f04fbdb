package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/models"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every outbound call unless WithTimeout overrides it.
const DefaultTimeout = 15 * time.Second

// serverManaged are stripped from PUT bodies; the API owns them.
var serverManaged = []string{"id", "created_at", "email", "account_type"}

// Client talks to the marketplace API. It accepts endpoints written in the
// legacy query convention as well as plain REST paths.
type Client struct {
	baseURL     string
	timeout     time.Duration
	token       string
	tokenSource func() string
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTokenSource reads the bearer credential on every call, so a client
// built once follows logins and logouts of the session behind it.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) { c.tokenSource = fn }
}

// New builds a client for the API mounted at baseURL, e.g.
// "http://localhost:8000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authorized returns a copy that sends token as the bearer credential.
func (c *Client) Authorized(token string) *Client {
	cp := *c
	cp.token = token
	cp.tokenSource = nil
	return &cp
}

func (c *Client) bearer() string {
	if c.tokenSource != nil {
		if t := c.tokenSource(); t != "" {
			return t
		}
	}
	return c.token
}

type result struct {
	code int
	body []byte
	err  error
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var a *fiber.Agent
	url := c.baseURL + path
	switch method {
	case fiber.MethodGet:
		a = fiber.Get(url)
	case fiber.MethodPost:
		a = fiber.Post(url)
	case fiber.MethodPut:
		a = fiber.Put(url)
	case fiber.MethodPatch:
		a = fiber.Patch(url)
	case fiber.MethodDelete:
		a = fiber.Delete(url)
	default:
		return nil, fmt.Errorf("unsupported method %s", method)
	}
	a.Timeout(c.timeout)
	if token := c.bearer(); token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		a.JSON(body)
	}
	return c.send(ctx, method, path, a)
}

// send runs the prepared agent and waits for it or ctx, whichever ends first.
func (c *Client) send(ctx context.Context, method, path string, a *fiber.Agent) ([]byte, error) {
	if err := a.Parse(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	done := make(chan result, 1)
	go func() {
		code, body, errs := a.Bytes()
		done <- result{code: code, body: body, err: errors.Join(errs...)}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, fmt.Errorf("%s %s: %w", method, path, ctx.Err())
	}
	if res.err != nil {
		logger.L().Debug("api call failed", zap.String("method", method), zap.String("path", path), zap.Error(res.err))
		return nil, fmt.Errorf("%s %s: %w", method, path, res.err)
	}
	if res.code < 200 || res.code > 299 {
		return nil, newAPIError(res.code, res.body)
	}
	return res.body, nil
}

func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	raw, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	return nil
}

// Get reads endpoint into out after translating it. Routes that resolve to
// a single entity are answered as one-element lists.
func (c *Client) Get(ctx context.Context, endpoint string, out interface{}) error {
	switch r := Translate(endpoint).(type) {
	case RouteEmpty:
		return decodeInto([]json.RawMessage{}, out)
	case RouteProviderReviews:
		return c.call(ctx, fiber.MethodGet, "/providers/"+r.ID+"/reviews", nil, out)
	case RouteProfileLookup:
		return decodeInto(c.lookupProfile(ctx, r.ID), out)
	case RouteProviderOrders:
		return c.call(ctx, fiber.MethodGet, "/orders/provider/"+r.ID, nil, out)
	case RouteUserOrders:
		return c.call(ctx, fiber.MethodGet, "/orders/user/"+r.ID, nil, out)
	case RouteOrderPatch:
		var order json.RawMessage
		if err := c.call(ctx, fiber.MethodGet, "/orders/"+r.ID, nil, &order); err != nil {
			return err
		}
		return decodeInto([]json.RawMessage{order}, out)
	case RouteDirect:
		return c.call(ctx, fiber.MethodGet, r.Path, nil, out)
	default:
		return fmt.Errorf("unhandled route %T", r)
	}
}

// lookupProfile has no single-entity endpoint to call, so it scans the
// providers collection. Any failure yields an empty list.
func (c *Client) lookupProfile(ctx context.Context, id string) []json.RawMessage {
	var all []json.RawMessage
	if err := c.call(ctx, fiber.MethodGet, "/providers?id="+id, nil, &all); err != nil {
		logger.L().Debug("profile lookup failed", zap.String("id", id), zap.Error(err))
		return []json.RawMessage{}
	}
	for _, raw := range all {
		var ids struct {
			ID     json.Number `json:"id"`
			UserID json.Number `json:"user_id"`
		}
		if json.Unmarshal(raw, &ids) != nil {
			continue
		}
		if ids.ID.String() == id || ids.UserID.String() == id {
			return []json.RawMessage{raw}
		}
	}
	return []json.RawMessage{}
}

func decodeInto(v interface{}, out interface{}) error {
	if out == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Post sends body to the cleaned endpoint.
func (c *Client) Post(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.call(ctx, fiber.MethodPost, "/"+CleanEndpoint(endpoint), body, out)
}

// Patch sends a partial update. Legacy "service_orders?id=eq.N" targets are
// rewritten to /orders/N.
func (c *Client) Patch(ctx context.Context, endpoint string, body, out interface{}) error {
	if r, ok := Translate(endpoint).(RouteOrderPatch); ok {
		return c.call(ctx, fiber.MethodPatch, "/orders/"+r.ID, body, out)
	}
	return c.call(ctx, fiber.MethodPatch, "/"+CleanEndpoint(endpoint), body, out)
}

// Put updates an account. It tries the provider route first, falls back to
// the user route on 404 and to a user PATCH when that fails too.
func (c *Client) Put(ctx context.Context, endpoint string, body map[string]interface{}, out interface{}) error {
	id := resourceID(endpoint)
	if !ValidID(id) {
		return fmt.Errorf("put %s: no valid id", endpoint)
	}

	clean := make(map[string]interface{}, len(body))
	for k, v := range body {
		clean[k] = v
	}
	for _, k := range serverManaged {
		delete(clean, k)
	}

	err := c.call(ctx, fiber.MethodPut, "/providers/"+id, clean, out)
	if err == nil || !IsNotFound(err) {
		return err
	}
	if err := c.call(ctx, fiber.MethodPut, "/users/"+id, clean, out); err == nil {
		return nil
	}
	return c.call(ctx, fiber.MethodPatch, "/users/"+id, clean, out)
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	var res LoginResult
	err := c.call(ctx, fiber.MethodPost, "/login", map[string]string{
		"identifier": identifier,
		"password":   password,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ProviderOrders(ctx context.Context, providerID uint) ([]models.OrderView, error) {
	orders := []models.OrderView{}
	err := c.Get(ctx, fmt.Sprintf("service_orders?provider_id=eq.%d", providerID), &orders)
	return orders, err
}

func (c *Client) UserOrders(ctx context.Context, userID uint) ([]models.OrderView, error) {
	orders := []models.OrderView{}
	err := c.Get(ctx, fmt.Sprintf("service_orders?user_id=eq.%d", userID), &orders)
	return orders, err
}

func (c *Client) ProviderReviews(ctx context.Context, providerID uint) ([]models.ReviewView, error) {
	reviews := []models.ReviewView{}
	err := c.Get(ctx, fmt.Sprintf("reviews?provider_id=eq.%d", providerID), &reviews)
	return reviews, err
}

// Provider resolves a provider listing through the legacy providers?id= path.
func (c *Client) Provider(ctx context.Context, id uint) (*models.ProviderListing, error) {
	var found []models.ProviderListing
	if err := c.Get(ctx, fmt.Sprintf("providers?id=%d", id), &found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, &APIError{Status: 404, Message: "provider not found"}
	}
	return &found[0], nil
}

// Profile resolves a provider's profile through the providers collection.
func (c *Client) Profile(ctx context.Context, userID uint) (*models.ProviderListing, error) {
	var found []models.ProviderListing
	if err := c.Get(ctx, fmt.Sprintf("professional_profiles?user_id=eq.%d", userID), &found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (c *Client) CreateOrder(ctx context.Context, order models.ServiceOrder) (*models.ServiceOrder, error) {
	var created models.ServiceOrder
	if err := c.Post(ctx, "orders", order, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateOrder patches order id with the given fields.
func (c *Client) UpdateOrder(ctx context.Context, id uint, fields map[string]interface{}) (*models.ServiceOrder, error) {
	var updated models.ServiceOrder
	if err := c.Patch(ctx, fmt.Sprintf("service_orders?id=eq.%d", id), fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) CreateReview(ctx context.Context, review models.Review) (*models.Review, error) {
	var created models.Review
	if err := c.Post(ctx, "reviews", review, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) AdminProviders(ctx context.Context) ([]models.ProviderListing, error) {
	providers := []models.ProviderListing{}
	err := c.call(ctx, fiber.MethodGet, "/admin/providers", nil, &providers)
	return providers, err
}

func (c *Client) SetProviderStatus(ctx context.Context, providerID uint, status models.ProfileStatus) error {
	return c.call(ctx, fiber.MethodPatch, fmt.Sprintf("/admin/providers/%d/status", providerID),
		map[string]models.ProfileStatus{"status": status}, nil)
}

// UploadPhoto sends an image to /uploads and returns its public URL.
func (c *Client) UploadPhoto(ctx context.Context, filename string, content []byte) (string, error) {
	a := fiber.Post(c.baseURL + "/uploads")
	a.Timeout(c.timeout)
	if token := c.bearer(); token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	a.FileData(&fiber.FormFile{Fieldname: "file", Name: filename, Content: content})
	a.MultipartForm(nil)

	raw, err := c.send(ctx, fiber.MethodPost, "/uploads", a)
	if err != nil {
		return "", err
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("POST /uploads: decoding response: %w", err)
	}
	return out.URL, nil
}
