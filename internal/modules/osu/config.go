package osu

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Config holds the osu! OAuth application settings.
type Config struct {
	ClientID     string `env:"OSU_CLIENT_ID"`
	ClientSecret string `env:"OSU_CLIENT_SECRET"`
	RedirectURL  string `env:"OSU_REDIRECT_URL"`
	// SuccessURL is where the callback sends users after linking.
	SuccessURL string `env:"OSU_SUCCESS_REDIRECT"`
}

// Enabled reports whether account linking is configured.
func (c *Config) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}

// TrackingEnabled reports whether player tracking can authenticate.
func (c *Config) TrackingEnabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// ClientCredentials returns the application token configuration used by
// player tracking.
func (c *Config) ClientCredentials() *clientcredentials.Config {
	return &clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     Endpoint.TokenURL,
		Scopes:       []string{"public"},
		AuthStyle:    Endpoint.AuthStyle,
	}
}

// OAuth2 returns the OAuth client configuration.
func (c *Config) OAuth2() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Endpoint:     Endpoint,
		Scopes:       []string{"identify", "public"},
	}
}
