package httpsession

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codespace-operator/adcgo/internal/apierrors"
)

func TestGet_DecodesSuccessDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.api+json")
		_, _ = w.Write([]byte(`{"data": [{"type": "devices/lock", "id": "1", "attributes": {}}]}`))
	}))
	defer server.Close()

	session, err := NewSession(server.URL, 5*time.Second, 0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	session.SetAjaxKey("key")

	doc, err := session.Get(context.Background(), "web/api/devices/locks")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(doc.Many()) != 1 {
		t.Fatalf("got %d resources, want 1", len(doc.Many()))
	}
}

func TestGet_NotLoggedInReturnsNotAuthorized(t *testing.T) {
	session, err := NewSession("http://example.invalid", 5*time.Second, 0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	_, err = session.Get(context.Background(), "web/api/devices/locks")
	if err == nil {
		t.Fatal("expected an error when ajax key is unset")
	}
	var notAuthorized *apierrors.NotAuthorizedError
	if !asNotAuthorized(err, &notAuthorized) {
		t.Errorf("err = %v, want *NotAuthorizedError", err)
	}
}

func asNotAuthorized(err error, target **apierrors.NotAuthorizedError) bool {
	e, ok := err.(*apierrors.NotAuthorizedError)
	if ok {
		*target = e
	}
	return ok
}

func TestRequest_RepairsSessionOnAutocorrectableFailureThenRetries(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"errors": [{"code": 401}, {"code": 403}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"data": [{"type": "devices/lock", "id": "1", "attributes": {}}]}`))
	}))
	defer server.Close()

	session, err := NewSession(server.URL, 5*time.Second, 0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	session.SetAjaxKey("key")

	var reloginCalled bool
	session.SetRelogin(func(ctx context.Context) error {
		reloginCalled = true
		return nil
	})

	doc, err := session.Get(context.Background(), "web/api/devices/locks")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reloginCalled {
		t.Error("expected relogin to be invoked on a 401+403 failure")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if len(doc.Many()) != 1 {
		t.Errorf("got %d resources after repair, want 1", len(doc.Many()))
	}
}

func TestRequest_NonRecoverableFailureDoesNotRetry(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		_, _ = w.Write([]byte(`{"errors": [{"code": 403}, {"code": 426}]}`))
	}))
	defer server.Close()

	session, err := NewSession(server.URL, 5*time.Second, 0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	session.SetAjaxKey("key")

	_, err = session.Get(context.Background(), "web/api/devices/locks")
	if err == nil {
		t.Fatal("expected an error for a plan/permission failure")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on non-autocorrectable failure)", attempts)
	}
}

func TestGetMini_DecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"value": "abc", "meta": {"endpoint": "wss://example"}}`))
	}))
	defer server.Close()

	session, err := NewSession(server.URL, 5*time.Second, 0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	session.SetAjaxKey("key")

	env, err := session.GetMini(context.Background(), "web/api/websockets/token")
	if err != nil {
		t.Fatalf("GetMini: %v", err)
	}
	if len(env.Value) == 0 {
		t.Fatal("expected a non-empty mini envelope value")
	}

	var token string
	if err := env.UnmarshalValue(&token); err != nil {
		t.Fatalf("UnmarshalValue: %v", err)
	}
	endpoint, _ := env.Meta["endpoint"].(string)
	if endpoint != "wss://example" || token != "abc" {
		t.Errorf("endpoint = %q, token = %q, want endpoint=wss://example token=abc", endpoint, token)
	}
}

func TestPost_EncodesBody(t *testing.T) {
	var receivedBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&receivedBody)
		_, _ = w.Write([]byte(`{"data": null}`))
	}))
	defer server.Close()

	session, err := NewSession(server.URL, 5*time.Second, 0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	session.SetAjaxKey("key")

	_, err = session.Post(context.Background(), "web/api/devices/locks/1/lock", map[string]any{"statePollOnly": false})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if receivedBody["statePollOnly"] != false {
		t.Errorf("receivedBody = %v, want statePollOnly=false", receivedBody)
	}
}
