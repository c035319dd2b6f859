package stores

import (
	"crypto/rand"
	"encoding/base64"
)

// sessionTokenBytes gives 43 characters of URL-safe base64.
const sessionTokenBytes = 32

/*
NewSessionToken mints an opaque, URL-safe, high-entropy session token.
*/
func NewSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
