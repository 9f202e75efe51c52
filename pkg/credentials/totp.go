package credentials

import (
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// GenerateSecondFactor creates a new TOTP key for account, using the same
// parameters VerifySecondFactor validates with.
func GenerateSecondFactor(issuer, account string) (*otp.Key, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Period:      totpOpts.Period,
		Digits:      totpOpts.Digits,
		Algorithm:   totpOpts.Algorithm,
	})
	if err != nil {
		return nil, fmt.Errorf("credentials: can't generate totp key, %w", err)
	}
	return key, nil
}
