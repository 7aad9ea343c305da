package app

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	bearerPrefix = "Bearer "
	jsonMIME     = "application/json"

	// InvalidToken is sent by the unauthorized access check.
	InvalidToken = "invalid-token"
)

var ErrMalformedAuthorization = errors.New("malformed Authorization header")

type Headers map[string]string

// AuthHeaders are sent with every regular API call.
func AuthHeaders(token string) Headers {
	return Headers{
		HeaderAuthorization: bearerPrefix + token,
		HeaderContentType:   jsonMIME,
	}
}

// BearerOnly carries just the Authorization header, no content type.
func BearerOnly(token string) Headers {
	return Headers{
		HeaderAuthorization: bearerPrefix + token,
	}
}

// Validate checks the Authorization header is "Bearer <token>" with a
// non-empty token free of whitespace and control characters.
func (h Headers) Validate() error {
	auth, ok := h[HeaderAuthorization]
	if !ok {
		return fmt.Errorf("missing: %w", ErrMalformedAuthorization)
	}

	token, found := strings.CutPrefix(auth, bearerPrefix)
	if !found {
		return fmt.Errorf("no bearer scheme: %w", ErrMalformedAuthorization)
	}

	if token == "" {
		return fmt.Errorf("empty token: %w", ErrMalformedAuthorization)
	}

	for _, r := range token {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("token contains %q: %w", r, ErrMalformedAuthorization)
		}
	}

	return nil
}
