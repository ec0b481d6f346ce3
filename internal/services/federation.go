package services

// Profile is the normalized identity asserted by an external OAuth provider.
// The handler at the federation boundary builds it from the provider's raw
// userinfo payload; the auth service never sees provider-specific shapes.
type Profile struct {
	Subject       string
	Email         string
	EmailVerified bool
	GivenName     string
	FamilyName    string
	AvatarURL     string
}
