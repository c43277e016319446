// Package appid resolves the application identity (binary name, env prefix,
// config name) through gofulmen/appidentity, with the compiled-in app.yaml as
// the standalone fallback.
package appid

import (
	"context"

	"github.com/fulmenhq/gofulmen/appidentity"

	appidentityassets "github.com/harulabs/mintgate/internal/assets/appidentity"
)

func init() {
	// FULMEN_APP_IDENTITY_PATH and a .fulmen/app.yaml found above the working
	// directory still take precedence over the embedded identity.
	_ = appidentity.RegisterEmbeddedIdentityYAML(appidentityassets.YAML)
}

// Get returns the process-wide identity, loading it on first use.
func Get(ctx context.Context) (*appidentity.Identity, error) {
	return appidentity.Get(ctx)
}

// Reload drops the cached identity and registers the embedded one again.
func Reload() error {
	appidentity.Reset()
	return appidentity.RegisterEmbeddedIdentityYAML(appidentityassets.YAML)
}
