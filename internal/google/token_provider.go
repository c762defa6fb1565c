package google

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenProvider is an interface for providing OAuth tokens for Google APIs
type TokenProvider interface {
	// GetTokenForAccount retrieves an OAuth token for the specified account
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)

	// HasTokenForAccount checks if a token exists for the specified account
	HasTokenForAccount(account string) bool
}

// FileTokenProvider provides tokens stored in the user cache directory
type FileTokenProvider struct{}

// NewFileTokenProvider creates a new file-based token provider
func NewFileTokenProvider() *FileTokenProvider {
	return &FileTokenProvider{}
}

// GetTokenForAccount reads the stored token. Refreshing happens in the
// token source built from it.
func (p *FileTokenProvider) GetTokenForAccount(_ context.Context, account string) (*oauth2.Token, error) {
	return readToken(account)
}

// HasTokenForAccount checks if a token file exists for the specified account
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	return HasTokenForAccount(account)
}

// StaticTokenProvider serves fixed tokens, keyed by account. Used in tests
// and for tokens injected through the environment.
type StaticTokenProvider map[string]*oauth2.Token

// GetTokenForAccount implements TokenProvider.
func (p StaticTokenProvider) GetTokenForAccount(_ context.Context, account string) (*oauth2.Token, error) {
	if token, ok := p[account]; ok {
		return token, nil
	}
	return nil, ErrNoToken
}

// HasTokenForAccount implements TokenProvider.
func (p StaticTokenProvider) HasTokenForAccount(account string) bool {
	_, ok := p[account]
	return ok
}
