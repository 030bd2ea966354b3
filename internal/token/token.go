// Package token issues and verifies per-operation confirmation tokens for
// destructive requests. A token is an HMAC-SHA256 over the operation scope
// and a coarse time window, so tokens expire without any server-side state.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"time"
)

// window is the validity granularity. A token is accepted for the window it
// was issued in plus the following one, so effective lifetime is 12-24h.
const window = 12 * time.Hour

// BulkScope is the scope for bulk-delete confirmation tokens.
const BulkScope = "bulk-delete"

// DeleteScope returns the scope for a single-entry delete.
func DeleteScope(id int64) string {
	return "delete:" + strconv.FormatInt(id, 10)
}

// Issuer mints and verifies confirmation tokens with a shared secret.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

// NewIssuer creates an Issuer. The secret comes from service configuration.
func NewIssuer(secret []byte) *Issuer {
	return &Issuer{secret: secret, now: time.Now}
}

// Issue mints a token for the given scope, valid in the current window.
func (i *Issuer) Issue(scope string) string {
	return i.sign(scope, i.tick())
}

// Verify reports whether the token matches the scope in the current or
// previous window.
func (i *Issuer) Verify(scope, tok string) bool {
	t := i.tick()

	for _, tick := range []int64{t, t - 1} {
		expected := i.sign(scope, tick)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(tok)) == 1 {
			return true
		}
	}

	return false
}

func (i *Issuer) tick() int64 {
	return i.now().Unix() / int64(window/time.Second)
}

func (i *Issuer) sign(scope string, tick int64) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(scope))
	mac.Write([]byte{0})
	mac.Write([]byte(strconv.FormatInt(tick, 10)))

	return hex.EncodeToString(mac.Sum(nil))
}
