package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fmk-dating/internal/auth"
	"fmk-dating/internal/config"
)

// APIClient calls the REST backend on behalf of a Telegram user. Requests
// are authenticated by self-signing an initData payload with the shared bot
// token, the same credential the backend verifies against.
type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewAPIClient creates a client for the configured backend.
func NewAPIClient(cfg *config.Config) *APIClient {
	return &APIClient{
		baseURL: cfg.Bot.BackendURL,
		token:   cfg.Bot.Token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// initDataFor builds a signed payload identifying user.
func (c *APIClient) initDataFor(user *auth.TelegramUser) (string, error) {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return "", err
	}
	values := url.Values{}
	values.Set("user", string(rawUser))
	values.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))
	return auth.Sign(values, c.token), nil
}

// AddPhoto attaches photoURL to the user's profile via the backend.
func (c *APIClient) AddPhoto(ctx context.Context, user *auth.TelegramUser, photoURL string) error {
	return c.post(ctx, user, "/api/user/add-photo", map[string]string{"photo_url": photoURL})
}

func (c *APIClient) post(ctx context.Context, user *auth.TelegramUser, path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	initData, err := c.initDataFor(user)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.Header, initData)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error != "" {
			return fmt.Errorf("backend rejected %s: %s", path, apiErr.Error)
		}
		return fmt.Errorf("backend rejected %s: status %d", path, resp.StatusCode)
	}
	return nil
}
