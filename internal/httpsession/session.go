// Package httpsession implements the authenticated HTTP transport shared by
// every higher-level package: cookie-jar session state, the provider's
// ajax/anti-forgery headers, JSON:API response decoding, the HTTP error-code
// to apierrors taxonomy mapping, and a bounded retry loop for transient
// connection failures.
package httpsession

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	cblog "github.com/charmbracelet/log"
	"github.com/codespace-operator/adcgo/internal/apierrors"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/logging"
)

const userAgent = "adcgo/0.1"

// ReloginFunc is supplied by the auth package after construction so the
// session can repair exactly once on a recoverable 401/403 and retry the
// original request, without httpsession importing auth (which itself depends
// on httpsession).
type ReloginFunc func(ctx context.Context) error

// Session is the authenticated HTTP client shared by auth, controller, and
// wsclient. It is safe for concurrent use.
type Session struct {
	client     *http.Client
	baseURL    string
	retryLimit int

	ajaxKey  string
	mfaToken string
	relogin  ReloginFunc

	log *cblog.Logger
}

// NewSession builds a Session with its own cookie jar, the way the provider
// tracks __RequestVerificationToken/session cookies across the login flow
// and every subsequent API call.
func NewSession(baseURL string, timeout time.Duration, retryLimit int) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("httpsession: failed to create cookie jar: %w", err)
	}
	return &Session{
		client:     &http.Client{Jar: jar, Timeout: timeout},
		baseURL:    baseURL,
		retryLimit: retryLimit,
		log:        logging.For("httpsession"),
	}, nil
}

// SetAjaxKey stores the anti-forgery key returned by login; it is sent as the
// ajaxrequestuniquekey header on every authenticated request.
func (s *Session) SetAjaxKey(key string) { s.ajaxKey = key }

// AjaxKey returns the current anti-forgery key, or "" if not logged in.
func (s *Session) AjaxKey() string { return s.ajaxKey }

// SetMFAToken stores the trusted-device or two-factor cookie value sent as
// the twoFactorAuthenticationId cookie on every authenticated request.
func (s *Session) SetMFAToken(token string) { s.mfaToken = token }

// MFAToken returns the current two-factor cookie value.
func (s *Session) MFAToken() string { return s.mfaToken }

// SetRelogin installs the one-shot session-repair callback.
func (s *Session) SetRelogin(fn ReloginFunc) { s.relogin = fn }

// CookieJar exposes the underlying jar so the auth package can read the afg
// cookie deposited by the login POST.
func (s *Session) CookieJar() *cookiejar.Jar {
	if jar, ok := s.client.Jar.(*cookiejar.Jar); ok {
		return jar
	}
	return nil
}

// HTTPClient exposes the underlying *http.Client for the handful of
// non-JSON:API requests (HTML login page, websocket dial) that need the same
// cookie jar but a different accept/parsing path.
func (s *Session) HTTPClient() *http.Client { return s.client }

// ResolveURL joins a path against the session's base URL.
func (s *Session) ResolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return s.baseURL + strings.TrimPrefix(path, "/")
	}
	ref, err := url.Parse(path)
	if err != nil {
		return s.baseURL + strings.TrimPrefix(path, "/")
	}
	return u.ResolveReference(ref).String()
}

func (s *Session) applyCommonHeaders(req *http.Request, useAuth bool) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referrer", "https://www.alarm.com/web/system/home")
	if useAuth {
		req.Header.Set("ajaxrequestuniquekey", s.ajaxKey)
		req.Header.Set("Accept", "application/vnd.api+json")
		if s.mfaToken != "" {
			req.AddCookie(&http.Cookie{Name: "twoFactorAuthenticationId", Value: s.mfaToken})
		}
	}
}

// isRetryable reports whether err represents a transient connection/timeout
// failure that a retry loop should retry. Body-level (4xx/5xx) failures are
// never retried here; only transport errors are.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "connection") || strings.Contains(err.Error(), "EOF")
}

// rawDo performs the HTTP round trip with a bounded retry loop over
// transport-level failures only, per-request. It does not interpret the
// response body.
func (s *Session) rawDo(ctx context.Context, method, rawURL string, useAuth bool, body io.Reader, contentType string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= s.retryLimit; attempt++ {
		bodyReader := body
		if seeker, ok := body.(io.Seeker); ok {
			_, _ = seeker.Seek(0, io.SeekStart)
		}

		req, err := http.NewRequestWithContext(ctx, method, s.ResolveURL(rawURL), bodyReader)
		if err != nil {
			return nil, apierrors.NewUnexpectedResponse("failed to build request", err)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		s.applyCommonHeaders(req, useAuth)

		resp, err := s.client.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == s.retryLimit {
			break
		}
		s.log.Warn("retrying after transport error", "attempt", attempt+1, "err", err)
		// Exponential backoff between transport retries: 500ms, 1s, 2s, ...
		select {
		case <-ctx.Done():
			return nil, apierrors.NewServiceUnavailable(ctx.Err())
		case <-time.After(time.Duration(1<<attempt) * 500 * time.Millisecond):
		}
	}
	return nil, apierrors.NewServiceUnavailable(lastErr)
}

// GetHTML issues an unauthenticated GET and returns the raw response body, for
// the one endpoint (the login page) that returns HTML instead of JSON:API.
func (s *Session) GetHTML(ctx context.Context, path string) (*http.Response, string, error) {
	resp, err := s.rawDo(ctx, http.MethodGet, path, false, nil, "")
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, "", apierrors.NewUnexpectedResponse("failed to read login page", err)
	}
	return resp, string(body), nil
}

// PostForm issues a form-encoded POST without auth headers and returns the
// raw response, letting the caller inspect the final redirected URL and
// cookies (used by the credential-submission step of login).
func (s *Session) PostForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	return s.rawDo(ctx, http.MethodPost, path, false, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

// Get issues an authenticated GET and decodes a JSON:API success document.
func (s *Session) Get(ctx context.Context, path string) (*jsonapi.Document, error) {
	return s.request(ctx, http.MethodGet, path, nil, "", true)
}

// GetMini issues an authenticated GET against an endpoint that returns the
// provider's non-JSON:API {value, errors, meta} envelope instead of a full
// document (notably websockets/token).
func (s *Session) GetMini(ctx context.Context, path string) (*jsonapi.MiniEnvelope, error) {
	if s.ajaxKey == "" {
		return nil, apierrors.NewNotAuthorized("not logged in")
	}

	resp, err := s.rawDo(ctx, http.MethodGet, path, true, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewUnexpectedResponse("failed to read response body", err)
	}

	var env jsonapi.MiniEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, apierrors.NewUnexpectedResponse("response was not a valid mini envelope", err)
	}
	if len(env.Errors) > 0 {
		return nil, apierrors.NewUnexpectedResponse(fmt.Sprintf("mini envelope returned errors: %v", env.Errors), nil)
	}
	return &env, nil
}

// Post issues an authenticated POST with a JSON body and decodes a JSON:API
// success document.
func (s *Session) Post(ctx context.Context, path string, body map[string]any) (*jsonapi.Document, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, apierrors.NewUnexpectedResponse("failed to encode request body", err)
		}
		r = bytes.NewReader(b)
	}
	return s.request(ctx, http.MethodPost, path, r, "application/json", true)
}

// request performs one authenticated request and interprets the JSON:API
// response, including the one-shot session-repair-and-retry policy on a
// CanAutocorrect authentication failure.
func (s *Session) request(ctx context.Context, method, path string, body io.Reader, contentType string, useAuth bool) (*jsonapi.Document, error) {
	return s.requestRetryAuth(ctx, method, path, body, contentType, useAuth, true)
}

func (s *Session) requestRetryAuth(ctx context.Context, method, path string, body io.Reader, contentType string, useAuth, allowRepair bool) (*jsonapi.Document, error) {
	if useAuth && s.ajaxKey == "" {
		return nil, apierrors.NewNotAuthorized("not logged in")
	}

	resp, err := s.rawDo(ctx, method, path, useAuth, body, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewUnexpectedResponse("failed to read response body", err)
	}

	var doc jsonapi.Document
	if len(raw) > 0 {
		if jsonErr := json.Unmarshal(raw, &doc); jsonErr != nil {
			return nil, apierrors.NewUnexpectedResponse("response was not valid JSON:API format", jsonErr)
		}
	}

	if doc.IsSuccess() || doc.IsMetaOnly() {
		return &doc, nil
	}

	authErr := s.classifyFailure(method, path, doc)
	var af *apierrors.AuthenticationFailedError
	if errors.As(authErr, &af) && af.CanAutocorrect && allowRepair && s.relogin != nil {
		s.log.Info("attempting to repair session")
		if reloginErr := s.relogin(ctx); reloginErr != nil {
			return nil, apierrors.WrapAuthenticationFailed(reloginErr)
		}
		return s.requestRetryAuth(ctx, method, path, body, contentType, useAuth, false)
	}
	return nil, authErr
}

// classifyFailure maps a JSON:API failure document's error codes onto the
// public error taxonomy, following the provider's documented code meanings.
func (s *Session) classifyFailure(method, path string, doc jsonapi.Document) error {
	var codes []int
	for _, e := range doc.Errors {
		if n, ok := e.Code.Int(); ok {
			codes = append(codes, n)
		}
	}

	has := func(c int) bool {
		for _, x := range codes {
			if x == c {
				return true
			}
		}
		return false
	}

	detail := fmt.Sprintf("method=%s url=%s codes=%v", method, path, codes)

	switch {
	case has(403) && has(426):
		return apierrors.NewNotAuthorized("%s", detail)
	case has(401) && has(403):
		return apierrors.NewAuthenticationFailed(detail, true)
	case has(409):
		return apierrors.NewAuthenticationFailed("two-factor authentication required: "+detail, false)
	default:
		return apierrors.NewUnexpectedResponse(detail, nil)
	}
}
