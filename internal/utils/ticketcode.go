package utils

import (
	"crypto/rand"
	"fmt"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewTicketCode returns a short human-readable code for a ticket stub,
// e.g. "T-7XK2QF9M".  The alphabet omits easily confused characters
// (0/O, 1/I).  Codes are random rather than sequential so a stub does not
// reveal queue position.
func NewTicketCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return fmt.Sprintf("T-%s", buf), nil
}
