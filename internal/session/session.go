package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barberbook/internal/models"
)

type Role string

const (
	RoleClient Role = "client"
	RoleBarber Role = "barber"
	RoleOwner  Role = "owner"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleBarber, RoleOwner:
		return true
	}
	return false
}

// Session is the authenticated caller, as issued by the auth service.
type Session struct {
	UserID       uint
	BarbershopID uint
	Role         Role
}

func (s Session) IsStaff() bool {
	return s.Role == RoleBarber || s.Role == RoleOwner
}

// Owns reports whether the caller booked ap as a client.
func (s Session) Owns(ap *models.Appointment) bool {
	return ap.ClientID != nil && *ap.ClientID == s.UserID
}

// CanManage reports whether the caller may act on ap as staff: the barber
// on it, or the owner of its shop.
func (s Session) CanManage(ap *models.Appointment) bool {
	switch s.Role {
	case RoleBarber:
		return ap.BarberID == s.UserID
	case RoleOwner:
		return s.BarbershopID != 0 && ap.BarbershopID == s.BarbershopID
	}
	return false
}

// ===============================
// JWT
// ===============================

var ErrInvalidToken = errors.New("invalid token")

// Parse validates an HS256 token and returns its session. Claims follow the
// auth service: numeric "sub", "barbershopId" and "role".
func Parse(tokenString string, secret []byte) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, fmt.Errorf("%w: claims", ErrInvalidToken)
	}

	userID, ok := claims["sub"].(float64)
	if !ok || userID <= 0 {
		return Session{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	barbershopID, _ := claims["barbershopId"].(float64)
	role, _ := claims["role"].(string)

	s := Session{UserID: uint(userID), BarbershopID: uint(barbershopID), Role: Role(role)}
	if !s.Role.Valid() {
		return Session{}, fmt.Errorf("%w: bad role %q", ErrInvalidToken, role)
	}
	if s.IsStaff() && s.BarbershopID == 0 {
		return Session{}, fmt.Errorf("%w: staff token without barbershop", ErrInvalidToken)
	}
	return s, nil
}

// Issue signs a token for s. Production tokens come from the auth service;
// this is used by tests and local tooling.
func Issue(s Session, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  s.UserID,
		"role": string(s.Role),
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}
	if s.BarbershopID != 0 {
		claims["barbershopId"] = s.BarbershopID
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
