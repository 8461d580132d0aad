// ABOUTME: Build and product identification
// ABOUTME: Version is overridden at link time with -ldflags "-X ...version.Version=..."
package version

var (
	// Version is the release version, "dev" for local builds
	Version = "dev"
	// Product is reported in logs, the status view and mDNS records
	Product = "Music Box Audio Service"
	// Manufacturer is reported alongside Product
	Manufacturer = "musicbox-go"
)

// String returns "Product Version"
func String() string {
	return Product + " " + Version
}
