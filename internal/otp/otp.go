// Package otp generates one-time passcodes for email verification.
package otp

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const (
	// Length is the number of decimal digits in a generated code.
	Length = 6

	// TTL is how long a code stays valid after issuance.
	TTL = 10 * time.Minute
)

// codeRange spans the 6-digit codes 100000..999999.
var codeRange = big.NewInt(900000)

// Generate returns a uniformly random 6-digit decimal code and its expiry
// timestamp. The generator is stateless; the caller is responsible for
// attaching the code to a user record and persisting it.
func Generate() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return "", time.Time{}, err
	}
	code := strconv.FormatInt(n.Int64()+100000, 10)
	return code, time.Now().Add(TTL), nil
}
