package badtl

// Version information for badtl.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/badtl.GitCommit=$(git rev-parse HEAD)"
const (
	// Name is the application name.
	Name = "badtl"

	// Description is a short description of the application.
	Description = "Chained machine translation for game dialogue files"

	// Version is the semantic version of the library.
	Version = "0.3.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/badtl"
)

// Build information, set via ldflags.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version string with the short commit when known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns the User-Agent header sent by the HTTP providers.
func UserAgent() string {
	return "Mozilla/5.0 (compatible; " + Name + "/" + Version + ")"
}
