package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleExchanger validates Google ID tokens against the tokeninfo endpoint.
// The endpoint does the signature and expiry checks server-side; we verify
// the audience and email claims on the response.
type GoogleExchanger struct {
	// Audience is the OAuth client id tokens must be issued to. Empty
	// disables the audience check, which is only acceptable in tests.
	Audience string

	// Endpoint overrides the tokeninfo URL, for tests.
	Endpoint string

	Client *http.Client
}

func NewGoogleExchanger(audience string) *GoogleExchanger {
	return &GoogleExchanger{
		Audience: audience,
		Endpoint: defaultTokenInfoURL,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenInfo struct {
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func (g *GoogleExchanger) Exchange(ctx context.Context, assertion string) (Subject, error) {
	if assertion == "" {
		return Subject{}, ErrRejected
	}

	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = defaultTokenInfoURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		endpoint+"?id_token="+url.QueryEscape(assertion), nil)
	if err != nil {
		return Subject{}, fmt.Errorf("build tokeninfo request: %w", err)
	}

	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Subject{}, fmt.Errorf("tokeninfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Subject{}, ErrRejected
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Subject{}, fmt.Errorf("decode tokeninfo response: %w", err)
	}

	if g.Audience != "" && info.Aud != g.Audience {
		return Subject{}, ErrRejected
	}
	if info.Email == "" || info.EmailVerified != "true" {
		return Subject{}, ErrRejected
	}

	return Subject{
		Email:     info.Email,
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
		AvatarURL: info.Picture,
	}, nil
}
