package app

// Version metadata, set with -ldflags "-X .../internal/app.Version=..." in
// release builds.
var (
	Version = "0.0.0-dev"
	Commit  = "unknown"
)

// VersionString is the one-line version shown by -version and the web footer.
func VersionString() string {
	return "buyerhunter " + Version + " (" + Commit + ")"
}
