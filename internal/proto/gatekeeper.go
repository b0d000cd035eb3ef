package proto

type RegisterRequest struct {
	Mail      string `json:"mail"`
	Password  string `json:"password"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest.Username carries the mail address.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Success      bool   `json:"success"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct{}

type ActivateRequest struct{}

type ResendActivationRequest struct{}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type GetUserRequest struct {
	Id string `json:"id"`
}

type User struct {
	Id               string   `json:"id"`
	Username         string   `json:"username"`
	Mail             string   `json:"mail"`
	FirstName        string   `json:"firstname"`
	LastName         string   `json:"lastname"`
	ImgUrl           string   `json:"imgUrl"`
	Disabled         bool     `json:"disabled"`
	AccountActivated bool     `json:"accountActivated"`
	Roles            []string `json:"roles"`
}

type UserResponse struct {
	User    *User `json:"user"`
	Success bool  `json:"success"`
}

type DeleteAccountRequest struct{}

type ArchiveUsersRequest struct {
	Ids []string `json:"ids"`
}

type ArchiveUsersResponse struct {
	Archived int64 `json:"archived"`
	Success  bool  `json:"success"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
