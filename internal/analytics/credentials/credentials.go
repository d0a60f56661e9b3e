// Package credentials resolves the Google service-account key that
// authenticates the service against the Analytics Data API.
//
// Policy: an empty setting parses as "{}" and only fails later, in
// Validate, because it has no identity. A setting that is present but is not
// valid JSON is a configuration error straight away.
package credentials

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"

	apperrors "github.com/Adithya-Monish-Kumar-K/live-analytics-widget/pkg/errors"
)

// Credentials is the subset of a service-account key file the service uses.
// ClientEmail is the identity.
type Credentials struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	TokenURI     string `json:"token_uri"`
}

// Parse decodes raw. Empty input yields zero Credentials and no error.
func Parse(raw string) (*Credentials, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "{}"
	}
	var c Credentials
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, apperrors.Configuration("service account credentials are not valid JSON: %v", err)
	}
	return &c, nil
}

// Validate reports whether c can be used to authenticate.
func (c *Credentials) Validate() error {
	if c == nil || strings.TrimSpace(c.ClientEmail) == "" {
		return apperrors.Configuration("service account credentials have no client_email")
	}
	return nil
}

// Resolve is Parse followed by Validate.
func Resolve(raw string) (*Credentials, error) {
	c, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// HTTPClient returns a client that signs a JWT with the service-account key
// and attaches the exchanged access token to every request. Tokens are
// cached and refreshed by the returned client.
func (c *Credentials) HTTPClient(ctx context.Context, scopes ...string) (*http.Client, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	tokenURL := c.TokenURI
	if tokenURL == "" {
		tokenURL = google.JWTTokenURL
	}
	conf := &jwt.Config{
		Email:        c.ClientEmail,
		PrivateKey:   []byte(c.PrivateKey),
		PrivateKeyID: c.PrivateKeyID,
		Scopes:       scopes,
		TokenURL:     tokenURL,
	}
	return conf.Client(ctx), nil
}
