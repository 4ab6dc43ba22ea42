package dto

type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`

	// Local temp paths of the uploaded files, set by the handler after the
	// multipart parts are written to disk.
	AvatarLocalPath     string `json:"-"`
	CoverImageLocalPath string `json:"-"`
}
