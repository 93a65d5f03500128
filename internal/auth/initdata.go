// Package auth validates the signed Telegram WebApp identity payload that
// every API call carries in the X-Telegram-Init-Data header.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
)

// Header is the request header carrying the signed payload.
const Header = "X-Telegram-Init-Data"

// TelegramUser is the identity embedded in the payload's "user" field.
type TelegramUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
}

// Validate checks the payload signature against the shared bot token.
//
// The check recomputes Telegram's two-stage keyed hash: the payload fields
// minus "hash" are sorted, joined as "key=value" lines, and HMAC-SHA256'd
// with a secret derived as HMAC-SHA256("WebAppData", botToken).
func Validate(initData, botToken string) bool {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return false
	}

	supplied := values.Get("hash")
	if supplied == "" {
		return false
	}
	values.Del("hash")

	expected := computeHash(values, botToken)
	return hmac.Equal([]byte(expected), []byte(supplied))
}

// Sign computes and appends the hash field for the given payload fields.
// Used by the bot relay to authenticate its own backend calls, and by tests.
func Sign(values url.Values, botToken string) string {
	values.Del("hash")
	values.Set("hash", computeHash(values, botToken))
	return values.Encode()
}

// ParseUser extracts the "user" JSON object from a validated payload.
func ParseUser(initData string) (*TelegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, err
	}
	raw := values.Get("user")
	if raw == "" {
		return nil, errNoUser
	}
	var user TelegramUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func computeHash(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}
	dataCheckString := strings.Join(lines, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(dataCheckString))
	return hex.EncodeToString(mac.Sum(nil))
}
