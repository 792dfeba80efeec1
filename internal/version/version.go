// ABOUTME: Product and version constants
// ABOUTME: Shared by the binaries, the HTTP server and the speech client user agent
package version

const (
	// Product is the product name
	Product = "UK Pronunciation Generator"

	// Manufacturer is the maker shown in version output
	Manufacturer = "harperreed"

	// Version is the release version
	Version = "0.1.0"
)

// UserAgent returns the User-Agent sent with outgoing requests
func UserAgent() string {
	return "pronounce/" + Version
}
