package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TelegramUser is the "user" payload embedded in WebApp initData.
type TelegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"photo_url"`
}

const initDataMaxAge = 24 * time.Hour

// VerifyInitData validates a Telegram WebApp initData string against the
// bot token per the Mini App auth scheme: secret = HMAC-SHA256("WebAppData",
// botToken), signature = HMAC-SHA256(secret, sorted key=value lines).
func VerifyInitData(initData string) (*TelegramUser, error) {
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN not configured")
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("malformed init data: %w", err)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, fmt.Errorf("init data missing hash")
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}
	checkString := strings.Join(lines, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	sig := hmac.New(sha256.New, secret.Sum(nil))
	sig.Write([]byte(checkString))

	if !hmac.Equal([]byte(hex.EncodeToString(sig.Sum(nil))), []byte(gotHash)) {
		return nil, fmt.Errorf("init data signature mismatch")
	}

	if authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64); err == nil {
		if time.Since(time.Unix(authDate, 0)) > initDataMaxAge {
			return nil, fmt.Errorf("init data expired")
		}
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil {
		return nil, fmt.Errorf("init data missing user: %w", err)
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("init data missing user id")
	}
	return &user, nil
}
