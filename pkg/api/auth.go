package api

type RequestChallengeRequest struct {
	Address string `json:"address"`
}

type RequestChallengeResponse struct {
	Message   string `json:"message"`
	ExpiresAt int64  `json:"expiresAt"`
}

type LoginRequest struct {
	Address string `json:"address"`
	// Signature is the 0x-prefixed personal_sign signature over the challenge.
	Signature string `json:"signature"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	Address   string `json:"address"`
	ExpiresAt int64  `json:"expiresAt"`
}

type WhoAmIRequest struct{}

type WhoAmIResponse struct {
	Address     string `json:"address"`
	Contributor bool   `json:"contributor"`
	Stakeholder bool   `json:"stakeholder"`
}
