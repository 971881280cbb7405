package auth

import "github.com/2beens/fitgam/pkg"

// CredentialVerifier hashes and checks user passwords.
type CredentialVerifier interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type BcryptVerifier struct {
	Cost int
}

func (v BcryptVerifier) Hash(password string) (string, error) {
	return pkg.HashPassword(password, v.Cost)
}

func (v BcryptVerifier) Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	return pkg.CheckPasswordHash(password, hash)
}
