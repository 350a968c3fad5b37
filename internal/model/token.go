package model

// TokenManager issues and validates bearer tokens for the KYC review API.
type TokenManager interface {
	GenerateAdminToken() (string, error)
	ParseAdminToken(token string) error
}
