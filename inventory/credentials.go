package inventory

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// CredentialGenerator produces PPPoE credentials when an assignment does not
// supply its own. The default favors human-readable logins and makes no
// global uniqueness guarantee; hosts needing one inject a stronger
// implementation via WithCredentialGenerator.
type CredentialGenerator interface {
	Login(customerName, ip string) string
	Password() (string, error)
}

type pppoeCredentials struct{}

func (pppoeCredentials) Login(customerName, ip string) string {
	slug := slugify(customerName)
	octet := ip[strings.LastIndexByte(ip, '.')+1:]
	if slug == "" {
		slug = "user"
	}
	return slug + octet
}

func (pppoeCredentials) Password() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// slugify lowercases the name, keeps letters and digits and joins words with
// a dot: "John Doe" -> "john.doe".
func slugify(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('.')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	return b.String()
}
