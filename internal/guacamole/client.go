package guacamole

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zdaasd321231/rdp-manager/internal/config"
	"github.com/zdaasd321231/rdp-manager/internal/models"
)

// Client mirrors server records as Guacamole connection objects. Every call is
// best-effort from the caller's point of view: an error here never aborts the
// local operation.
type Client interface {
	Authenticate() (string, error)
	CreateConnection(token string, server *models.RDPServer) (string, error)
	DeleteConnection(token, identifier string) error
}

type HTTPClient struct {
	baseURL    string
	username   string
	password   string
	dataSource string
	client     *http.Client
}

func NewHTTPClient(cfg *config.Config) *HTTPClient {
	timeout := time.Duration(cfg.GuacamoleTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.GuacamoleURL, "/"),
		username:   cfg.GuacamoleUsername,
		password:   cfg.GuacamolePassword,
		dataSource: cfg.GuacamoleDataSource,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Authenticate exchanges the fixed admin credentials for an opaque token.
func (c *HTTPClient) Authenticate() (string, error) {
	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	resp, err := c.client.Post(
		c.baseURL+"/api/tokens",
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("guacamole auth failed with status %d", resp.StatusCode)
	}

	var result struct {
		AuthToken string `json:"authToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("guacamole auth response: %w", err)
	}
	if result.AuthToken == "" {
		return "", fmt.Errorf("guacamole auth response missing token")
	}
	return result.AuthToken, nil
}

// CreateConnection registers an RDP connection object for the server and
// returns its identifier. Guacamole expects every parameter as a string.
func (c *HTTPClient) CreateConnection(token string, server *models.RDPServer) (string, error) {
	params := map[string]string{
		"hostname":    server.Host,
		"port":        strconv.Itoa(server.Port),
		"username":    server.Username,
		"password":    server.Password,
		"security":    "any",
		"ignore-cert": "true",
	}
	if server.Domain != "" {
		params["domain"] = server.Domain
	}

	payload, err := json.Marshal(map[string]interface{}{
		"name":       server.Name,
		"protocol":   "rdp",
		"parameters": params,
	})
	if err != nil {
		return "", err
	}

	reqURL := fmt.Sprintf("%s/api/session/data/%s/connections?token=%s",
		c.baseURL, c.dataSource, url.QueryEscape(token))

	resp, err := c.client.Post(reqURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("guacamole connection create failed with status %d: %s",
			resp.StatusCode, string(body))
	}

	var result struct {
		Identifier string `json:"identifier"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("guacamole create response: %w", err)
	}
	if result.Identifier == "" {
		return "", fmt.Errorf("guacamole create response missing identifier")
	}
	return result.Identifier, nil
}

// DeleteConnection removes a mirrored connection object. Guacamole answers a
// successful delete with 204.
func (c *HTTPClient) DeleteConnection(token, identifier string) error {
	reqURL := fmt.Sprintf("%s/api/session/data/%s/connections/%s?token=%s",
		c.baseURL, c.dataSource, url.PathEscape(identifier), url.QueryEscape(token))

	req, err := http.NewRequest(http.MethodDelete, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("guacamole connection delete failed with status %d", resp.StatusCode)
	}
	return nil
}
