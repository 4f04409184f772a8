/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package authority

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonconfig "github.com/conveyorworks/conveyor/pkg/config"
	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims is the payload of both access and refresh tokens. Typ
// distinguishes the two so a refresh token can never authenticate a
// request directly.
type Claims struct {
	UserId   string `json:"userId"`
	UserType string `json:"userType"`
	Typ      string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair bundles the two tokens returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// GenerateTokenPair issues a fresh access + refresh token pair for the
// given identity, signed with the configured secret.
func GenerateTokenPair(userId, userType string) (*TokenPair, error) {
	secret := commonconfig.GetTokenSecret()
	if secret == "" {
		return nil, commonerrors.NewInternalError("server token secret is not configured")
	}
	access, err := signToken(userId, userType, tokenTypeAccess, AccessTokenTTL, secret)
	if err != nil {
		return nil, err
	}
	refresh, err := signToken(userId, userType, tokenTypeRefresh, RefreshTokenTTL, secret)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ParseAccessToken validates an access token and returns its claims.
// Refresh tokens are rejected.
func ParseAccessToken(token string) (*Claims, error) {
	claims, err := parseToken(token)
	if err != nil {
		return nil, commonerrors.NewUnauthorized(err.Error())
	}
	if claims.Typ != tokenTypeAccess {
		return nil, commonerrors.NewUnauthorized("not an access token")
	}
	return claims, nil
}

// ParseRefreshToken validates a refresh token and returns its claims.
func ParseRefreshToken(token string) (*Claims, error) {
	claims, err := parseToken(token)
	if err != nil {
		return nil, commonerrors.NewInvalidRefresh(err.Error())
	}
	if claims.Typ != tokenTypeRefresh {
		return nil, commonerrors.NewInvalidRefresh("not a refresh token")
	}
	return claims, nil
}

// ValidateCredentials checks a login attempt against the configured
// service account.
func ValidateCredentials(email, password string) error {
	if email == "" || password == "" {
		return commonerrors.NewLoginFailed("email and password are required")
	}
	if email != commonconfig.GetAuthEmail() || password != commonconfig.GetAuthPassword() {
		return commonerrors.NewLoginFailed("invalid email or password")
	}
	return nil
}

func signToken(userId, userType, typ string, ttl time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserId:   userId,
		UserType: userType,
		Typ:      typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", commonerrors.NewInternalError(fmt.Sprintf("failed to sign token: %v", err))
	}
	return token, nil
}

func parseToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(commonconfig.GetTokenSecret()), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	return claims, nil
}
