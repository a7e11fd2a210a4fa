package version

// version is injected at build time via -ldflags.
var version = ""

// Value returns the build version, or a development placeholder when
// the binary was built without ldflags.
func Value() string {
	if version == "" {
		return "v0.0.0-dev"
	}
	return version
}
