// Package session turns credentials into identities and keeps one identity
// per login session. A Manager is built at startup and handed to whatever
// needs to know who is logged in.
package session

import (
	"context"
	"time"

	"civicsync/models"
	"civicsync/store"
)

// Authenticator resolves credentials into an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, creds models.Credentials) (models.Identity, error)
}

// MockAuthenticator accepts any credentials after a simulated delay and
// fabricates the demo identity for the supplied address.
type MockAuthenticator struct {
	Delay time.Duration
}

func (m MockAuthenticator) Authenticate(ctx context.Context, creds models.Credentials) (models.Identity, error) {
	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.Identity{}, ctx.Err()
		case <-timer.C:
		}
	}
	return store.DemoIdentity(creds.Email), nil
}

// Verifier checks credentials against registered accounts.
type Verifier interface {
	Verify(ctx context.Context, creds models.Credentials) (models.Identity, error)
}

// DirectoryAuthenticator only accepts registered accounts.
type DirectoryAuthenticator struct {
	Directory Verifier
}

func (d DirectoryAuthenticator) Authenticate(ctx context.Context, creds models.Credentials) (models.Identity, error) {
	return d.Directory.Verify(ctx, creds)
}
