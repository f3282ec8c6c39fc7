package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barberbook/internal/models"
)

var secret = []byte("test-secret")

func TestIssueParse(t *testing.T) {
	in := Session{UserID: 42, BarbershopID: 7, Role: RoleBarber}

	token, err := Issue(in, secret, time.Hour)
	require.NoError(t, err)

	out, err := Parse(token, secret)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParse_Rejects(t *testing.T) {
	expired, err := Issue(Session{UserID: 1, Role: RoleClient}, secret, -time.Minute)
	require.NoError(t, err)
	_, err = Parse(expired, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	good, err := Issue(Session{UserID: 1, Role: RoleClient}, secret, time.Hour)
	require.NoError(t, err)
	_, err = Parse(good, []byte("other"))
	assert.ErrorIs(t, err, ErrInvalidToken)

	staffNoShop, err := Issue(Session{UserID: 1, Role: RoleOwner}, secret, time.Hour)
	require.NoError(t, err)
	_, err = Parse(staffNoShop, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badRole, err := Issue(Session{UserID: 1, Role: "admin"}, secret, time.Hour)
	require.NoError(t, err)
	_, err = Parse(badRole, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = Parse("not-a-token", secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthorization(t *testing.T) {
	clientID := uint(9)
	ap := &models.Appointment{BarberID: 3, BarbershopID: 1, ClientID: &clientID}

	assert.True(t, Session{UserID: 3, BarbershopID: 1, Role: RoleBarber}.CanManage(ap))
	assert.False(t, Session{UserID: 4, BarbershopID: 1, Role: RoleBarber}.CanManage(ap))
	assert.True(t, Session{UserID: 5, BarbershopID: 1, Role: RoleOwner}.CanManage(ap))
	assert.False(t, Session{UserID: 5, BarbershopID: 2, Role: RoleOwner}.CanManage(ap))
	assert.False(t, Session{UserID: 9, Role: RoleClient}.CanManage(ap))

	assert.True(t, Session{UserID: 9, Role: RoleClient}.Owns(ap))
	assert.False(t, Session{UserID: 10, Role: RoleClient}.Owns(ap))
	assert.False(t, Session{UserID: 9, Role: RoleClient}.Owns(&models.Appointment{}))
}
