package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "1234567890:TEST_TOKEN_ABCDEF"

// signInitData builds a valid initData string the same way Telegram does.
func signInitData(t *testing.T, values url.Values) string {
	t.Helper()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(testBotToken))
	sig := hmac.New(sha256.New, secret.Sum(nil))
	sig.Write([]byte(strings.Join(lines, "\n")))

	values.Set("hash", hex.EncodeToString(sig.Sum(nil)))
	return values.Encode()
}

func validValues() url.Values {
	return url.Values{
		"auth_date": {fmt.Sprintf("%d", time.Now().Unix())},
		"query_id":  {"AAF03"},
		"user":      {`{"id":987654321,"username":"lonewolf","first_name":"Lone","last_name":"Wolf"}`},
	}
}

func TestVerifyInitDataAcceptsValidSignature(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", testBotToken)

	user, err := VerifyInitData(signInitData(t, validValues()))
	require.NoError(t, err)
	assert.Equal(t, int64(987654321), user.ID)
	assert.Equal(t, "lonewolf", user.Username)
	assert.Equal(t, "Lone", user.FirstName)
}

func TestVerifyInitDataRejectsTampering(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", testBotToken)

	signed := signInitData(t, validValues())
	tampered := strings.Replace(signed,
		"987654321", "111111111", 1)

	_, err := VerifyInitData(tampered)
	require.Error(t, err)
}

func TestVerifyInitDataRejectsWrongToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "other:TOKEN")

	_, err := VerifyInitData(signInitData(t, validValues()))
	require.Error(t, err)
}

func TestVerifyInitDataRejectsStaleAuthDate(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", testBotToken)

	values := validValues()
	values.Set("auth_date", fmt.Sprintf("%d", time.Now().Add(-48*time.Hour).Unix()))

	_, err := VerifyInitData(signInitData(t, values))
	require.Error(t, err)
}

func TestVerifyInitDataRequiresHashAndToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", testBotToken)
	_, err := VerifyInitData("user=%7B%7D&auth_date=1")
	require.Error(t, err)

	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	_, err = VerifyInitData(signInitData(t, validValues()))
	require.Error(t, err)
}
