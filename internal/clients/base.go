package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/rahul4902/blood-sub001/internal/auth"
	"github.com/rahul4902/blood-sub001/internal/middleware"
)

// TokenSource supplies the bearer token for authenticated calls. A source
// that returns auth.ErrNotAuthenticated lets the call go out anonymously.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// SessionKeeper recovers from a token the backend rejected. The auth
// manager implements it; its refresh logs the user out on failure.
type SessionKeeper interface {
	RefreshAccessToken(ctx context.Context) auth.Result
	Logout(ctx context.Context)
}

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client
	Tokens  TokenSource
	Session SessionKeeper
}

func NewClient(name string, baseURL string, httpClient *http.Client) *Client {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}
	return &Client{Name: name, BaseURL: u, HTTP: httpClient}
}

// NewHTTPClient returns a client with a cookie jar, so the refresh cookie
// set on login is sent back on refresh and logout.
func NewHTTPClient(timeout time.Duration) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &http.Client{Timeout: timeout, Jar: jar}, nil
}

// WithTokens returns a copy of c that authenticates every call. When ts is
// also a SessionKeeper, a 401 or 403 on a token-bearing call refreshes the
// session once and retries.
func (c *Client) WithTokens(ts TokenSource) *Client {
	cp := *c
	cp.Tokens = ts
	cp.Session, _ = ts.(SessionKeeper)
	return &cp
}

func (c *Client) Do(ctx context.Context, method, path, rawQuery string, body io.Reader, inHeaders http.Header) (*http.Response, error) {
	resp, _, err := c.do(ctx, method, path, rawQuery, body, inHeaders)
	return resp, err
}

// do also returns the token it attached, empty for anonymous calls or when
// the caller set Authorization itself.
func (c *Client) do(ctx context.Context, method, path, rawQuery string, body io.Reader, inHeaders http.Header) (*http.Response, string, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return nil, "", fmt.Errorf("%s: bad path %q: %w", c.Name, path, err)
	}
	rel.RawQuery = rawQuery
	u := c.BaseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, "", err
	}

	copyHeaders(req.Header, inHeaders)

	// Ensure correlation id propagated downstream
	if cid := middleware.GetCorrelationID(ctx); cid != "" {
		req.Header.Set(middleware.HeaderCorrelationID, cid)
	}

	var token string
	if c.Tokens != nil && req.Header.Get("Authorization") == "" {
		token, err = c.Tokens.Token(ctx)
		switch {
		case errors.Is(err, auth.ErrNotAuthenticated):
			token = ""
		case err != nil:
			return nil, "", fmt.Errorf("%s: %w", c.Name, err)
		default:
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTP.Do(req)
	return resp, token, err
}

// DoJSON sends in as the JSON body (when non-nil) and decodes a 2xx
// response into out (when non-nil). Non-2xx responses become *APIError.
func (c *Client) DoJSON(ctx context.Context, method, path string, query url.Values, headers http.Header, in, out any) error {
	var payload []byte
	h := http.Header{}
	copyHeaders(h, headers)
	h.Set("Accept", "application/json")
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", c.Name, err)
		}
		payload = b
		h.Set("Content-Type", "application/json")
	}

	var rawQuery string
	if len(query) > 0 {
		rawQuery = query.Encode()
	}

	send := func() (*http.Response, string, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		return c.do(ctx, method, path, rawQuery, body, h)
	}

	resp, sent, err := send()
	if err != nil {
		return err
	}
	if sent != "" && c.Session != nil && rejected(resp) {
		apiErr := newAPIError(c.Name, method, path, resp)
		resp.Body.Close()
		if !c.renew(ctx, sent) {
			return apiErr
		}
		if resp, sent, err = send(); err != nil {
			return err
		}
		if sent != "" && rejected(resp) {
			// a fresh token was refused too
			c.Session.Logout(ctx)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(c.Name, method, path, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("%s: decode %s %s: %w", c.Name, method, path, err)
	}
	return nil
}

func rejected(resp *http.Response) bool {
	return resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden
}

// renew gets a token other than sent. Another call may already have
// refreshed the session, or logged it out.
func (c *Client) renew(ctx context.Context, sent string) bool {
	cur, err := c.Tokens.Token(ctx)
	if err != nil {
		return false
	}
	if cur != sent {
		return true
	}
	return c.Session.RefreshAccessToken(ctx).Success
}

// ErrInvalidPathSegment is returned for ids and slugs that cannot be placed
// in a URL path.
var ErrInvalidPathSegment = errors.New("invalid path segment")

// segment escapes one path segment. Empty and dot segments are refused so a
// value can never climb out of its route.
func segment(v string) (string, error) {
	switch v {
	case "", ".", "..":
		return "", fmt.Errorf("%w %q", ErrInvalidPathSegment, v)
	}
	return url.PathEscape(v), nil
}

func bearer(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func copyHeaders(dst, src http.Header) {
	for k, vv := range src {
		if isHopByHopHeader(k) {
			continue
		}
		if strings.EqualFold(k, "Host") {
			continue
		}
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}

// Hop-by-hop headers (RFC 7230)
func isHopByHopHeader(k string) bool {
	switch http.CanonicalHeaderKey(k) {
	case "Connection", "Proxy-Connection", "Keep-Alive",
		"Proxy-Authenticate", "Proxy-Authorization",
		"Te", "Trailer", "Transfer-Encoding", "Upgrade":
		return true
	default:
		return false
	}
}
