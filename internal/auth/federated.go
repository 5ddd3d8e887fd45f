package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
)

const firebaseIssuerPrefix = "https://securetoken.google.com/"

// FederatedIdentity is the verified subset of a federated ID token.
type FederatedIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// FederatedVerifier validates ID tokens issued by an external identity provider.
type FederatedVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*FederatedIdentity, error)
}

var (
	// ErrFederatedDisabled is returned when no identity provider is configured.
	ErrFederatedDisabled = errors.New("federated: provider not configured")
	// ErrIDTokenInvalid covers signature, issuer, audience and format failures.
	ErrIDTokenInvalid = errors.New("federated: invalid id token")
	// ErrIDTokenExpired is returned for well-formed tokens past their expiry.
	ErrIDTokenExpired = errors.New("federated: expired id token")
)

// FirebaseVerifier checks Firebase ID tokens against Google's published keys.
// Discovery runs lazily on first use.
type FirebaseVerifier struct {
	projectID string
	issuer    string

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

// NewFirebaseVerifier returns a verifier for the given Firebase project.
func NewFirebaseVerifier(projectID string) *FirebaseVerifier {
	projectID = strings.TrimSpace(projectID)
	return &FirebaseVerifier{
		projectID: projectID,
		issuer:    firebaseIssuerPrefix + projectID,
	}
}

// NewFederatedVerifierFromOIDC adapts an already-built go-oidc verifier.
func NewFederatedVerifierFromOIDC(verifier *oidc.IDTokenVerifier) FederatedVerifier {
	return &FirebaseVerifier{verifier: verifier}
}

// Verify validates signature, issuer, audience and expiry of rawIDToken.
func (v *FirebaseVerifier) Verify(ctx context.Context, rawIDToken string) (*FederatedIdentity, error) {
	verifier, err := v.idTokenVerifier(ctx)
	if err != nil {
		return nil, err
	}

	token, err := verifier.Verify(ctx, strings.TrimSpace(rawIDToken))
	if err != nil {
		var expired *oidc.TokenExpiredError
		if errors.As(err, &expired) {
			return nil, ErrIDTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrIDTokenInvalid, err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIDTokenInvalid, err)
	}

	return &FederatedIdentity{
		Subject:       token.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}

func (v *FirebaseVerifier) idTokenVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.verifier != nil {
		return v.verifier, nil
	}
	if v.projectID == "" {
		return nil, ErrFederatedDisabled
	}

	provider, err := oidc.NewProvider(ctx, v.issuer)
	if err != nil {
		return nil, fmt.Errorf("federated: discover %s: %w", v.issuer, err)
	}
	v.verifier = provider.Verifier(&oidc.Config{ClientID: v.projectID})
	return v.verifier, nil
}
