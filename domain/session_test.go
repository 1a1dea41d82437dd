package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"peerchat/errors"
)

func TestDeriveSessionID_Commutative(t *testing.T) {
	req := require.New(t)

	// When both peers derive the session id from opposite call orders
	id1, err := DeriveSessionID("amy", "bob")
	req.NoError(err)
	id2, err := DeriveSessionID("bob", "amy")
	req.NoError(err)

	// Then both compute the same channel
	req.Equal("amy-bob", id1)
	req.Equal(id1, id2)
}

func TestDeriveSessionID_Idempotent(t *testing.T) {
	req := require.New(t)

	first, err := DeriveSessionID("zoe", "anna")
	req.NoError(err)
	second, err := DeriveSessionID("zoe", "anna")
	req.NoError(err)

	req.Equal(first, second)
}

func TestDeriveSessionID_EmptyIdentifier(t *testing.T) {
	req := require.New(t)

	_, err := DeriveSessionID("", "bob")
	req.ErrorIs(err, errors.ErrInvalidIdentifier)

	_, err = DeriveSessionID("amy", "")
	req.ErrorIs(err, errors.ErrInvalidIdentifier)
}

func TestNewSession_KeepsMemberOrder(t *testing.T) {
	req := require.New(t)

	session, err := NewSession("bob", "amy")
	req.NoError(err)

	// The id is sorted, the members keep their call order
	req.Equal("amy-bob", session.ID)
	req.Equal("bob", session.MemberA)
	req.Equal("amy", session.MemberB)
}
