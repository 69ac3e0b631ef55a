// Package auth wraps the external identity providers and the signed session token
// handed to players after login.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"golang.org/x/oauth2/google"

	"trivia-quiz-service/internal/domain"
)

const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"

	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	githubAPIBase     = "https://api.github.com"
)

// Provider is an OAuth2 identity provider.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	// Identify exchanges an authorization code and returns the logged in player.
	Identify(ctx context.Context, code string) (domain.Identity, error)
}

// ProviderOption overrides provider endpoints, mostly for tests.
type ProviderOption func(*oauthProvider)

// WithEndpoint replaces the OAuth2 authorize and token URLs.
func WithEndpoint(endpoint oauth2.Endpoint) ProviderOption {
	return func(p *oauthProvider) { p.config.Endpoint = endpoint }
}

// WithAPIBase replaces the profile API root.
func WithAPIBase(base string) ProviderOption {
	return func(p *oauthProvider) { p.apiBase = strings.TrimRight(base, "/") }
}

type oauthProvider struct {
	name    string
	config  *oauth2.Config
	apiBase string
}

func (p *oauthProvider) Name() string { return p.name }

func (p *oauthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *oauthProvider) client(ctx context.Context, code string) (*http.Client, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrapf(err, "%s token exchange", p.name)
	}
	return p.config.Client(ctx, token), nil
}

// Google signs players in with their Google account.
type Google struct {
	oauthProvider
}

func NewGoogle(clientID, clientSecret, redirectURL string, opts ...ProviderOption) *Google {
	g := &Google{oauthProvider{
		name: ProviderGoogle,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		apiBase: googleUserInfoURL,
	}}
	for _, opt := range opts {
		opt(&g.oauthProvider)
	}
	return g
}

type googleUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (g *Google) Identify(ctx context.Context, code string) (domain.Identity, error) {
	client, err := g.client(ctx, code)
	if err != nil {
		return domain.Identity{}, err
	}
	var user googleUser
	if err := getJSON(ctx, client, g.apiBase, &user); err != nil {
		return domain.Identity{}, errors.Wrap(err, "google userinfo")
	}
	return domain.Identity{
		ID:       user.ID,
		Provider: ProviderGoogle,
		Name:     user.Name,
		Email:    user.Email,
		Avatar:   user.Picture,
	}, nil
}

// GitHub signs players in with their GitHub account.
type GitHub struct {
	oauthProvider
}

func NewGitHub(clientID, clientSecret, redirectURL string, opts ...ProviderOption) *GitHub {
	g := &GitHub{oauthProvider{
		name: ProviderGitHub,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"user:email"},
			Endpoint:     endpoints.GitHub,
		},
		apiBase: githubAPIBase,
	}}
	for _, opt := range opts {
		opt(&g.oauthProvider)
	}
	return g
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *GitHub) Identify(ctx context.Context, code string) (domain.Identity, error) {
	client, err := g.client(ctx, code)
	if err != nil {
		return domain.Identity{}, err
	}
	var user githubUser
	if err := getJSON(ctx, client, g.apiBase+"/user", &user); err != nil {
		return domain.Identity{}, errors.Wrap(err, "github user")
	}

	email := user.Email
	if email == "" {
		// Private emails are only listed by the emails endpoint.
		var emails []githubEmail
		if err := getJSON(ctx, client, g.apiBase+"/user/emails", &emails); err == nil {
			email = primaryEmail(emails)
		}
	}
	name := user.Name
	if name == "" {
		name = user.Login
	}
	return domain.Identity{
		ID:       strconv.FormatInt(user.ID, 10),
		Provider: ProviderGitHub,
		Name:     name,
		Email:    email,
		Avatar:   user.AvatarURL,
		Username: user.Login,
	}, nil
}

func primaryEmail(emails []githubEmail) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	if len(emails) > 0 {
		return emails[0].Email
	}
	return ""
}

func getJSON(ctx context.Context, client *http.Client, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Registry holds the enabled providers by name.
type Registry map[string]Provider

func NewRegistry(providers ...Provider) Registry {
	r := make(Registry, len(providers))
	for _, p := range providers {
		r[p.Name()] = p
	}
	return r
}

func (r Registry) Get(name string) (Provider, error) {
	p, ok := r[name]
	if !ok {
		return nil, domain.ErrUnknownProvider
	}
	return p, nil
}

// Names lists the enabled providers.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for _, known := range []string{ProviderGoogle, ProviderGitHub} {
		if _, ok := r[known]; ok {
			names = append(names, known)
		}
	}
	return names
}
