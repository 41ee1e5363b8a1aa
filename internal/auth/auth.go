// Package auth implements the shared-secret digest scheme used to
// authenticate envelope requests.
//
// There are two identities. A regular caller signs account+login with the
// regular salt; the token is valid as long as the credentials are. The
// admin identity signs the current hour with the admin salt, so an admin
// token expires when the wall-clock hour rolls over and any client holding
// the salt (and a synchronized clock) recomputes it identically. This is a
// shared-secret scheme, not a challenge/response protocol — issuer and
// verifier must agree byte-for-byte on the salts.
package auth

import (
	"crypto/sha512"
	"encoding/hex"
	"time"

	"github.com/aanand-mishra/scoring-api/internal/types"
)

// adminHourLayout formats the hour window an admin token is valid for.
const adminHourLayout = "2006010215"

// Authenticator verifies envelope tokens against the configured secrets.
type Authenticator struct {
	AdminLogin string
	Salt       string
	AdminSalt  string
}

// New returns an Authenticator with the given shared secrets.
func New(adminLogin, salt, adminSalt string) *Authenticator {
	return &Authenticator{AdminLogin: adminLogin, Salt: salt, AdminSalt: adminSalt}
}

// Check reports whether the envelope's token matches the expected digest
// for its identity. The comparison is an exact, case-sensitive match of
// the hex encoding.
func (a *Authenticator) Check(req *types.MethodRequest) bool {
	var expected string
	if req.IsAdmin(a.AdminLogin) {
		expected = a.AdminDigest(time.Now())
	} else {
		expected = a.UserDigest(req.Account.Value, req.Login.Value)
	}
	return expected == req.Token.Value
}

// UserDigest computes the token a regular caller must present.
// An absent account contributes the empty string.
func (a *Authenticator) UserDigest(account, login string) string {
	return digest(account + login + a.Salt)
}

// AdminDigest computes the admin token for the hour containing now.
// Local server time is used on both sides of the exchange.
func (a *Authenticator) AdminDigest(now time.Time) string {
	return digest(now.Format(adminHourLayout) + a.AdminSalt)
}

func digest(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
