//nolint:revive // types is a common Go package naming convention
package types

// Version is the canonical client version. The User-Agent sent with
// streaming requests and the capture file header both derive from it.
const Version = "0.2.0"
