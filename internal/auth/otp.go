package auth

import (
	"encoding/base32"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	OTPStep     = 5 * time.Minute
	otpSkew     = 2
	otpDigits   = otp.DigitsSix
	otpStepSecs = uint(OTPStep / time.Second)
)

// OTPGenerator produces six-digit time-based codes from one shared secret.
type OTPGenerator struct {
	secret string
}

func NewOTPGenerator(sharedSecret string) *OTPGenerator {
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return &OTPGenerator{secret: enc.EncodeToString([]byte(sharedSecret))}
}

func (g *OTPGenerator) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    otpStepSecs,
		Skew:      otpSkew,
		Digits:    otpDigits,
		Algorithm: otp.AlgorithmSHA1,
	}
}

func (g *OTPGenerator) Generate(at time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(g.secret, at, g.opts())
	if err != nil {
		return "", fmt.Errorf("auth: generating otp: %w", err)
	}
	return code, nil
}

// Verify accepts codes from up to two steps either side of at.
func (g *OTPGenerator) Verify(code string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, g.secret, at, g.opts())
	return err == nil && ok
}
