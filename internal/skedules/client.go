package skedules

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// tokenNames are the auth cookies the SkedulesLive API issues on sign-in and
// expects back on every authenticated request.
var tokenNames = []string{"token", "refreshToken", "expToken", "idToken", "role", "userEmail"}

// Config carries the constructor inputs for a Client.
type Config struct {
	BaseURL     string
	APIKey      string // bearer credential from configuration
	Email       string // optional; enables sign-in without a model-driven authenticate call
	Password    string
	HTTPTimeout time.Duration
	Retry       RetryConfig
}

// Validate checks that required Config fields are present.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("skedules: BaseURL is required")
	}
	if c.APIKey == "" {
		return errors.New("skedules: APIKey is required")
	}
	return c.Retry.Validate()
}

// Client issues authenticated requests against the SkedulesLive REST API and
// maps responses into the success-payload / typed-failure contract.
//
// Token state is mutex-guarded so independent conversation sessions may share
// one Client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	retry   RetryConfig

	mu       sync.Mutex
	tokens   map[string]string
	expiry   time.Time
	email    string
	password string
}

// New returns a Client for the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.Retry == (RetryConfig{}) {
		cfg.Retry = DefaultRetryConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		baseURL:  normalizeBaseURL(cfg.BaseURL),
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: cfg.HTTPTimeout},
		retry:    cfg.Retry,
		email:    cfg.Email,
		password: cfg.Password,
	}, nil
}

// normalizeBaseURL applies the www-subdomain requirement of the production
// host and strips a trailing slash.
func normalizeBaseURL(base string) string {
	base = strings.TrimSuffix(base, "/")
	if base == "https://skdl.es" {
		return "https://www.skdl.es"
	}
	return base
}

// Authenticated reports whether the client currently holds auth tokens.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tokens) > 0
}

type signInPayload struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	KeepMeLogged bool   `json:"keepMeLogged"`
	Role         string `json:"role"`
}

// Authenticate signs in against the SkedulesLive auth endpoint and stores the
// issued tokens for subsequent requests. Credentials are retained so a
// near-expiry token can be refreshed by re-authenticating.
func (c *Client) Authenticate(ctx context.Context, email, password string, keepMeLogged bool) error {
	payload := signInPayload{
		Email:        strings.ToLower(email), // the API lowercases the email
		Password:     password,
		KeepMeLogged: keepMeLogged,
		Role:         "PUBLISHER",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("skedules: marshal sign-in: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/sign-in", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("skedules: sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportErr(err, "authenticate", false)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(resp.StatusCode, raw)
	}

	var out struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return &ValidationError{StatusCode: resp.StatusCode, Message: "sign-in response is not valid JSON"}
	}
	if out.Data == nil {
		return &ValidationError{StatusCode: resp.StatusCode, Message: "sign-in response missing data field"}
	}

	tokens := make(map[string]string)
	for _, key := range []string{"token", "refreshToken", "expToken", "idToken"} {
		if v, ok := out.Data[key]; ok {
			tokens[key] = tokenString(v)
		}
	}
	for _, ck := range resp.Cookies() {
		for _, name := range tokenNames {
			if ck.Name == name {
				tokens[name] = ck.Value
			}
		}
	}
	if len(tokens) == 0 {
		return &ValidationError{StatusCode: resp.StatusCode, Message: "no tokens in sign-in response"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = tokens
	c.email = email
	c.password = password
	c.expiry = expiryFromToken(tokens["expToken"])
	return nil
}

// tokenString coerces a token value that the API returns as either a string
// or a number (expToken is epoch milliseconds).
func tokenString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatInt(int64(t), 10)
	default:
		return fmt.Sprint(v)
	}
}

// expiryFromToken derives the token expiry from expToken (epoch milliseconds),
// falling back to one hour from now.
func expiryFromToken(exp string) time.Time {
	if ms, err := strconv.ParseInt(exp, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms)
	}
	return time.Now().Add(time.Hour)
}

// refreshIfNeeded signs in when no tokens are held yet and credentials are
// configured, and re-authenticates when the stored token is within five
// minutes of expiry. There is no dedicated refresh endpoint; sign-in is it.
func (c *Client) refreshIfNeeded(ctx context.Context) error {
	c.mu.Lock()
	hasTokens := len(c.tokens) > 0
	fresh := hasTokens && time.Now().Before(c.expiry.Add(-5*time.Minute))
	email, password := c.email, c.password
	c.mu.Unlock()

	if fresh {
		return nil
	}
	if email == "" {
		if !hasTokens {
			// No credentials anywhere yet; the authenticate operation has
			// to run first, and the service will say so if it must.
			return nil
		}
		return fmt.Errorf("%w (token expired, no stored credentials)", ErrNotAuthenticated)
	}
	return c.Authenticate(ctx, email, password, true)
}

// do issues one authenticated request and maps the outcome per the failure
// taxonomy. Idempotent requests get one bounded retry on transient failure;
// everything else runs exactly once.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, idempotent bool, op string) (json.RawMessage, error) {
	if err := c.refreshIfNeeded(ctx); err != nil {
		return nil, err
	}

	var result json.RawMessage
	call := func() error {
		var err error
		result, err = c.doOnce(ctx, method, path, query, body, idempotent, op)
		return err
	}
	var err error
	if idempotent {
		err = withRetry(ctx, c.retry, call)
	} else {
		err = call()
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body any, idempotent bool, op string) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("skedules: marshal %s body: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("skedules: build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	c.mu.Lock()
	for _, name := range tokenNames {
		if v := c.tokens[name]; v != "" {
			req.AddCookie(&http.Cookie{Name: name, Value: v})
		}
	}
	c.mu.Unlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportErr(err, op, !idempotent)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientError{Message: fmt.Sprintf("reading %s response: %v", op, err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, raw)
	}
	if len(raw) == 0 {
		return json.RawMessage(`{}`), nil
	}
	return json.RawMessage(raw), nil
}

// classifyTransportErr maps a transport-level failure: deadline expiry becomes
// a TimeoutError (outcome-unknown for writes), everything else transient.
func classifyTransportErr(err error, op string, write bool) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Op: op, OutcomeUnknown: write}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &TransientError{Message: err.Error()}
}

// classifyStatus maps a non-2xx HTTP status into the failure taxonomy,
// extracting the service's human-readable message when the body carries one.
func classifyStatus(status int, body []byte) error {
	msg := serviceMessage(body)
	if status >= 400 && status < 500 {
		return &ValidationError{StatusCode: status, Message: msg}
	}
	return &TransientError{StatusCode: status, Message: msg}
}

// serviceMessage pulls the error description out of a SkedulesLive error body
// (FastAPI-style "detail", or "message"/"error"), falling back to raw text.
func serviceMessage(body []byte) string {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err == nil {
		for _, key := range []string{"detail", "message", "error"} {
			if v, ok := m[key].(string); ok && v != "" {
				return v
			}
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return "no error detail provided"
}

// --- Skedule operations ---

// GetSkedules lists skedules with pagination. Page and pageSize default to
// 1 and 10 when non-positive, matching the API defaults.
func (c *Client) GetSkedules(ctx context.Context, page, pageSize int) (json.RawMessage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	q := url.Values{"page": {strconv.Itoa(page)}, "pageSize": {strconv.Itoa(pageSize)}}
	return c.do(ctx, http.MethodGet, "/api/skedule", q, nil, true, "get_skedules")
}

// GetSkedule fetches one skedule by ID.
func (c *Client) GetSkedule(ctx context.Context, skeduleID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/skedule/"+url.PathEscape(skeduleID), nil, nil, true, "get_skedule")
}

// CreateSkedule creates a new skedule.
func (c *Client) CreateSkedule(ctx context.Context, s Skedule) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/api/skedule", nil, s, false, "create_skedule")
}

// UpdateSkedule patches an existing skedule. Fields holds only the properties
// to change; the zero-value filtering happened at the catalog layer.
func (c *Client) UpdateSkedule(ctx context.Context, skeduleID string, fields map[string]any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, "/api/skedule/"+url.PathEscape(skeduleID), nil, fields, false, "update_skedule")
}

// DeleteSkedule deletes a skedule.
func (c *Client) DeleteSkedule(ctx context.Context, skeduleID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, "/api/skedule/"+url.PathEscape(skeduleID), nil, nil, false, "delete_skedule")
}

// --- Event operations ---

// GetEventsForSkedule lists the events of a skedule.
func (c *Client) GetEventsForSkedule(ctx context.Context, skeduleID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/skedule/"+url.PathEscape(skeduleID)+"/event", nil, nil, true, "get_events")
}

// GetEvent fetches one event by ID.
func (c *Client) GetEvent(ctx context.Context, eventID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/event/"+url.PathEscape(eventID), nil, nil, true, "get_event")
}

// CreateEvent adds an event to a skedule. The API has no event-create
// endpoint; events are created by patching the parent skedule with an
// events.create array, then re-fetching the event list to recover the new
// event's ID.
func (c *Client) CreateEvent(ctx context.Context, skeduleID string, ev Event) (json.RawMessage, error) {
	payload := map[string]any{"events": map[string]any{"create": []Event{ev}}}
	res, err := c.do(ctx, http.MethodPatch, "/api/skedule/"+url.PathEscape(skeduleID), nil, payload, false, "create_event")
	if err != nil {
		return nil, err
	}

	// ID recovery is best-effort: the event exists even if this lookup fails.
	listed, err := c.GetEventsForSkedule(ctx, skeduleID)
	if err != nil {
		return res, nil
	}
	if id := matchCreatedEvent(listed, ev); id != "" {
		var m map[string]any
		if json.Unmarshal(res, &m) == nil {
			m["event_id"] = id
			if merged, err := json.Marshal(m); err == nil {
				return merged, nil
			}
		}
	}
	return res, nil
}

// matchCreatedEvent finds the created event in a freshly fetched list by
// title and start time.
func matchCreatedEvent(listed json.RawMessage, ev Event) string {
	var out struct {
		Events []Event `json:"events"`
		Skedule struct {
			Events []Event `json:"events"`
		} `json:"skedule"`
	}
	if err := json.Unmarshal(listed, &out); err != nil {
		return ""
	}
	events := out.Events
	if len(events) == 0 {
		events = out.Skedule.Events
	}
	wantName := ev.Title
	if wantName == "" {
		wantName = ev.Name
	}
	wantStart := ev.StartTime
	if wantStart == "" {
		wantStart = ev.StartDate
	}
	for _, got := range events {
		gotName := got.Title
		if gotName == "" {
			gotName = got.Name
		}
		gotStart := got.StartTime
		if gotStart == "" {
			gotStart = got.StartDate
		}
		if gotName == wantName && gotStart == wantStart {
			return got.ID
		}
	}
	return ""
}

// UpdateEvent updates an event.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, fields map[string]any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/api/event/"+url.PathEscape(eventID), nil, fields, false, "update_event")
}

// DeleteEvent deletes an event.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, "/api/event/"+url.PathEscape(eventID), nil, nil, false, "delete_event")
}

// --- User operations ---

// GetUserProfile fetches the authenticated user's profile.
func (c *Client) GetUserProfile(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/user/profile", nil, nil, true, "get_user_profile")
}

// UpdateUserProfile patches the authenticated user's profile.
func (c *Client) UpdateUserProfile(ctx context.Context, fields map[string]any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, "/api/user/profile", nil, fields, false, "update_user_profile")
}

// GetUsers lists platform users (admin/publisher roles).
func (c *Client) GetUsers(ctx context.Context, page, pageSize int) (json.RawMessage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	q := url.Values{"page": {strconv.Itoa(page)}, "pageSize": {strconv.Itoa(pageSize)}}
	return c.do(ctx, http.MethodGet, "/api/user", q, nil, true, "get_users")
}

// InviteUser invites a new user; role defaults to PUBLISHER.
func (c *Client) InviteUser(ctx context.Context, email, role string) (json.RawMessage, error) {
	if role == "" {
		role = "PUBLISHER"
	}
	return c.do(ctx, http.MethodPost, "/api/user/invite", nil, map[string]string{"email": email, "role": role}, false, "invite_user")
}

// --- Search operations ---

// SearchSkedules searches skedules by free-text query.
func (c *Client) SearchSkedules(ctx context.Context, query string, page, pageSize int) (json.RawMessage, error) {
	return c.search(ctx, "/api/search/skedule", query, page, pageSize, "search_skedules")
}

// SearchEvents searches events by free-text query.
func (c *Client) SearchEvents(ctx context.Context, query string, page, pageSize int) (json.RawMessage, error) {
	return c.search(ctx, "/api/search/event", query, page, pageSize, "search_events")
}

func (c *Client) search(ctx context.Context, path, query string, page, pageSize int, op string) (json.RawMessage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	q := url.Values{
		"q":        {query},
		"page":     {strconv.Itoa(page)},
		"pageSize": {strconv.Itoa(pageSize)},
	}
	return c.do(ctx, http.MethodGet, path, q, nil, true, op)
}

// --- Analytics operations ---

// GetSkeduleAnalytics fetches view/share analytics for a skedule, optionally
// bounded by ISO dates.
func (c *Client) GetSkeduleAnalytics(ctx context.Context, skeduleID, startDate, endDate string) (json.RawMessage, error) {
	q := url.Values{}
	if startDate != "" {
		q.Set("startDate", startDate)
	}
	if endDate != "" {
		q.Set("endDate", endDate)
	}
	return c.do(ctx, http.MethodGet, "/api/analytics/skedule/"+url.PathEscape(skeduleID), q, nil, true, "get_skedule_analytics")
}

// GetEventAnalytics fetches analytics for one event.
func (c *Client) GetEventAnalytics(ctx context.Context, eventID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/analytics/event/"+url.PathEscape(eventID), nil, nil, true, "get_event_analytics")
}
