package domain

import (
	"sort"
	"strings"

	"peerchat/errors"
)

// sessionSeparator is not a valid character inside an identifier.
const sessionSeparator = "-"

// Session is the conversational channel between exactly two participants.
// Its identity is derived, never stored independently.
type Session struct {
	ID      string
	MemberA string
	MemberB string
}

// DeriveSessionID computes the stable identifier of the channel between a and b.
// The pair is sorted lexicographically before joining, so the result is
// commutative: DeriveSessionID(a, b) == DeriveSessionID(b, a). No network
// round trip is involved, both peers compute the same value independently.
func DeriveSessionID(a, b string) (string, error) {
	if a == "" || b == "" {
		return "", errors.ErrInvalidIdentifier
	}
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, sessionSeparator), nil
}

// NewSession materializes the session for an unordered pair of members.
func NewSession(a, b string) (Session, error) {
	id, err := DeriveSessionID(a, b)
	if err != nil {
		return Session{}, err
	}
	return Session{ID: id, MemberA: a, MemberB: b}, nil
}
