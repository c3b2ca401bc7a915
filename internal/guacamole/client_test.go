package guacamole

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zdaasd321231/rdp-manager/internal/config"
	"github.com/zdaasd321231/rdp-manager/internal/models"
)

func testClient(baseURL string) *HTTPClient {
	return NewHTTPClient(&config.Config{
		GuacamoleURL:        baseURL,
		GuacamoleUsername:   "guacadmin",
		GuacamolePassword:   "guacadmin",
		GuacamoleDataSource: "postgresql",
		GuacamoleTimeout:    5,
	})
}

func testServer() *models.RDPServer {
	return &models.RDPServer{
		Name:     "Windows Server 2022",
		Host:     "win-server.example.com",
		Port:     3389,
		Username: "administrator",
		Password: "SecureP@ssw0rd!",
		Domain:   "EXAMPLE",
	}
}

func TestAuthenticate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/tokens" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if r.PostForm.Get("username") != "guacadmin" || r.PostForm.Get("password") != "guacadmin" {
			t.Errorf("credentials = %v", r.PostForm)
		}
		json.NewEncoder(w).Encode(map[string]string{"authToken": "tok-123"})
	}))
	defer ts.Close()

	token, err := testClient(ts.URL).Authenticate()
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("token = %q, want tok-123", token)
	}
}

func TestAuthenticateNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	if _, err := testClient(ts.URL).Authenticate(); err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestCreateConnection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/session/data/postgresql/connections" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("token"); got != "tok-123" {
			t.Errorf("token query param = %q", got)
		}

		var body struct {
			Name       string            `json:"name"`
			Protocol   string            `json:"protocol"`
			Parameters map[string]string `json:"parameters"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Protocol != "rdp" {
			t.Errorf("protocol = %q, want rdp", body.Protocol)
		}
		want := map[string]string{
			"hostname":    "win-server.example.com",
			"port":        "3389",
			"username":    "administrator",
			"password":    "SecureP@ssw0rd!",
			"security":    "any",
			"ignore-cert": "true",
			"domain":      "EXAMPLE",
		}
		for k, v := range want {
			if body.Parameters[k] != v {
				t.Errorf("parameters[%q] = %q, want %q", k, body.Parameters[k], v)
			}
		}

		json.NewEncoder(w).Encode(map[string]string{"identifier": "42"})
	}))
	defer ts.Close()

	identifier, err := testClient(ts.URL).CreateConnection("tok-123", testServer())
	if err != nil {
		t.Fatalf("CreateConnection: %v", err)
	}
	if identifier != "42" {
		t.Errorf("identifier = %q, want 42", identifier)
	}
}

func TestCreateConnectionOmitsEmptyDomain(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Parameters map[string]string `json:"parameters"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body.Parameters["domain"]; ok {
			t.Error("domain sent for a server without one")
		}
		json.NewEncoder(w).Encode(map[string]string{"identifier": "43"})
	}))
	defer ts.Close()

	server := testServer()
	server.Domain = ""
	if _, err := testClient(ts.URL).CreateConnection("tok", server); err != nil {
		t.Fatalf("CreateConnection: %v", err)
	}
}

func TestCreateConnectionFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	if _, err := testClient(ts.URL).CreateConnection("tok", testServer()); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestDeleteConnection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q", r.Method)
		}
		if r.URL.Path != "/api/session/data/postgresql/connections/42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("token"); got != "tok-123" {
			t.Errorf("token query param = %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	if err := testClient(ts.URL).DeleteConnection("tok-123", "42"); err != nil {
		t.Fatalf("DeleteConnection: %v", err)
	}
}

func TestDeleteConnectionFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	if err := testClient(ts.URL).DeleteConnection("tok", "42"); err == nil {
		t.Fatal("expected error on 403")
	}
}
