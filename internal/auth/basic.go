package auth

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// BasicToken builds the Authorization header value the gateway expects
// for every /grpc and REST call: "Basic base64(user:password)".
func BasicToken(username, password string) string {
	raw := username + ":" + password
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// ParseBasicToken reverses BasicToken. It accepts the bare base64 part as
// well, which is how pre-encoded root credentials are usually stored.
func ParseBasicToken(token string) (username, password string, err error) {
	token = strings.TrimSpace(token)
	if len(token) > 6 && strings.EqualFold(token[:6], "basic ") {
		token = token[6:]
	}
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", err
	}
	user, pass, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", errors.New("malformed basic credentials")
	}
	return user, pass, nil
}

// Inject sets the Authorization header unless the request already carries one.
// It reports whether the header was added.
func Inject(r *http.Request, token string) bool {
	if token == "" || r.Header.Get("Authorization") != "" {
		return false
	}
	r.Header.Set("Authorization", token)
	return true
}
