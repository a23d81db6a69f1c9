package utils

import "crypto/rand"

const sponsoringCodeLength = 8

const sponsoringCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateSponsoringCode returns a random referral code. The alphabet skips
// easily-confused characters (0/O, 1/I) since codes are typed by customers.
func GenerateSponsoringCode() string {
	buf := make([]byte, sponsoringCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("failed to read random bytes for sponsoring code: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = sponsoringCodeAlphabet[int(b)%len(sponsoringCodeAlphabet)]
	}
	return string(buf)
}
