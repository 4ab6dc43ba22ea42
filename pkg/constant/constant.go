package constant

const (
	// Cookie names for the token pair.
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	// CurrentUserKey is the fiber Locals key the request authenticator
	// stores the authenticated user under.
	CurrentUserKey = "currentUser"
)
