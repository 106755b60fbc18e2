// Package auth is the trusted boundary around the remote authentication
// endpoint: it exchanges credentials for a token, sets the HTTP-only session
// cookie, and tears the session down again on logout.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/beneficios/backoffice/session"
)

type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// SecureCookies marks the session cookie Secure; on in production.
	SecureCookies bool `mapstructure:"secure_cookies"`
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return c
}

// LoginResult carries the outcome of a credential exchange. OK is false for
// rejected credentials, which is an answer, not an error; transport and
// server failures come back as errors instead.
type LoginResult struct {
	OK        bool
	Token     string
	Identity  session.Identity
	ExpiresIn int64
	Message   string
}

// Client calls the remote authentication service. It is the only outbound
// dependency this subsystem has.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type loginPayload struct {
	Email    string `json:"correo"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string           `json:"token"`
	User      session.Identity `json:"user"`
	ExpiresIn int64            `json:"expiresIn"`
	Message   string           `json:"message"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body, err := json.Marshal(loginPayload{Email: email, Password: password})
	if err != nil {
		return LoginResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return LoginResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: login request: %w", err)
	}
	defer resp.Body.Close()

	var decoded loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return LoginResult{}, fmt.Errorf("auth: decode login response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if decoded.Token == "" {
			return LoginResult{}, fmt.Errorf("auth: login response missing token")
		}
		return LoginResult{
			OK:        true,
			Token:     decoded.Token,
			Identity:  decoded.User,
			ExpiresIn: decoded.ExpiresIn,
		}, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		message := decoded.Message
		if message == "" {
			message = "credenciales inválidas"
		}
		return LoginResult{OK: false, Message: message}, nil
	default:
		return LoginResult{}, fmt.Errorf("auth: login failed with status %d", resp.StatusCode)
	}
}
