// Package version provides application version information.
// The version can be set at build time using ldflags:
//
//	go build -ldflags "-X github.com/VictorMCorral/MagicAppVictor-sub000/internal/version.Version=v1.2.3"
package version

// Version is the application version. It defaults to "dev" and can be
// overridden at build time using ldflags.
var Version = "dev"

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}

// UserAgent returns the User-Agent string identifying this build to
// external card APIs, as Scryfall's API guidelines request.
func UserAgent() string {
	return "MagicAppVictor/" + Version
}
