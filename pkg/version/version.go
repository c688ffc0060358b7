// Package version provides version information for the price-oracle application.
package version

// Version is the current version of the price-oracle application.
const Version = "0.3.0"

// AgentString returns the full agent string with versioning.
// Format: @primex-finance/price-oracle-go@v{version}
func AgentString() string {
	return "@primex-finance/price-oracle-go@v" + Version
}
