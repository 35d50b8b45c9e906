package utils

import "math/rand/v2"

const (
	referralPrefix   = "ALPHA"
	referralAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referralSuffix   = 6
)

// GenerateReferralCode produces a code like "ALPHAX7K2QD". Uniqueness is
// enforced by the DB index; callers retry on collision.
func GenerateReferralCode() string {
	buf := make([]byte, referralSuffix)
	for i := range buf {
		buf[i] = referralAlphabet[rand.IntN(len(referralAlphabet))]
	}
	return referralPrefix + string(buf)
}
