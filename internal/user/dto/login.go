package dto

type LoginInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

// LoginOutput carries the token pair in the body for non-cookie clients; the
// handler also sets both tokens as cookies.
type LoginOutput struct {
	User         *UserOutput `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}
