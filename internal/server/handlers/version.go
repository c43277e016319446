package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/fulmenhq/gofulmen/appidentity"
)

// Build information, injected from main via SetVersionInfo.
var (
	AppVersion   = "dev"
	AppCommit    = "unknown"
	AppBuildDate = "unknown"
	appIdentity  *appidentity.Identity
)

// SetVersionInfo sets the version information for the handler
func SetVersionInfo(version, commit, buildDate string) {
	AppVersion = version
	AppCommit = commit
	AppBuildDate = buildDate
}

// SetAppIdentity sets the app identity for the handler
func SetAppIdentity(identity *appidentity.Identity) {
	appIdentity = identity
}

// VersionResponse represents the version information response
type VersionResponse struct {
	App          AppInfo           `json:"app"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
	Runtime      RuntimeInfo       `json:"runtime"`
}

// AppInfo contains application version details
type AppInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}

// RuntimeInfo contains runtime environment information
type RuntimeInfo struct {
	Platform      string `json:"platform"`
	NumCPU        int    `json:"num_cpu"`
	NumGoroutines int    `json:"num_goroutines"`
}

// reportedModules are the dependencies surfaced on /version.
var reportedModules = map[string]string{
	"github.com/go-chi/chi/v5":     "chi",
	"github.com/jackc/pgx/v5":      "pgx",
	"github.com/golang-jwt/jwt/v5": "jwt",
}

// VersionHandler handles version information requests
func VersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		App: AppInfo{
			Name:      appName(),
			Version:   AppVersion,
			Commit:    AppCommit,
			BuildDate: AppBuildDate,
			GoVersion: runtime.Version(),
		},
		Dependencies: dependencyVersions(),
		Runtime: RuntimeInfo{
			Platform:      runtime.GOOS + "/" + runtime.GOARCH,
			NumCPU:        runtime.NumCPU(),
			NumGoroutines: runtime.NumGoroutine(),
		},
	})
}

func appName() string {
	if appIdentity != nil && appIdentity.BinaryName != "" {
		return appIdentity.BinaryName
	}
	if len(os.Args) > 0 && os.Args[0] != "" {
		return filepath.Base(os.Args[0])
	}
	return "unknown"
}

func dependencyVersions() map[string]string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	deps := make(map[string]string)
	for _, mod := range info.Deps {
		if name, ok := reportedModules[mod.Path]; ok {
			deps[name] = mod.Version
		}
	}
	return deps
}
