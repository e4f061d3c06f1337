package azure

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/zgpcy/azure-cost-report/internal/config"
)

const (
	// tokenURLFormat is the Azure AD token endpoint for a tenant
	tokenURLFormat = "https://login.microsoftonline.com/%s/oauth2/token"

	// managementResource is the resource the token must be valid for
	managementResource = "https://management.azure.com/"
)

// AcquireToken performs an OAuth2 client-credentials exchange against Azure AD
// and returns the bearer token for the Cost Management API. The token is
// fetched once per run and passed into the query client as an explicit value.
func AcquireToken(ctx context.Context, cfg *config.Config) (string, error) {
	return acquireTokenFromURL(ctx, cfg, fmt.Sprintf(tokenURLFormat, cfg.TenantID))
}

func acquireTokenFromURL(ctx context.Context, cfg *config.Config, tokenURL string) (string, error) {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		EndpointParams: url.Values{
			"resource": {managementResource},
		},
	}

	token, err := cc.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("client credential exchange failed: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("identity provider returned no access token")
	}

	return token.AccessToken, nil
}
