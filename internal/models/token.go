package models

// TokenPair is the result of an OAuth2 refresh: a short-lived access
// token for this run plus the rotated refresh token, which is already
// persisted for the next run by the time the pair is returned.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
