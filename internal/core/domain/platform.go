package domain

// Platform identifies the calling surface. Each platform signs and
// validates tokens with its own secret, so a token minted for one
// platform never validates under another.
type Platform string

const (
	PlatformAdmin  Platform = "ADMIN"
	PlatformDevice Platform = "DEVICE"
	PlatformClient Platform = "CLIENT"
)
