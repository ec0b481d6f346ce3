package services

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateAvatar builds a deterministic gravatar identicon URL for an email
// address. The same email always maps to the same image.
func GenerateAvatar(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=identicon", hex.EncodeToString(sum[:]))
}
