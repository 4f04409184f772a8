/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conveyorworks/conveyor/pkg/common"
	commonconfig "github.com/conveyorworks/conveyor/pkg/config"
	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
)

func initTestSecret() {
	commonconfig.SetValue("server.token_secret", "unit-test-secret")
}

func TestTokenPairRoundTrip(t *testing.T) {
	initTestSecret()
	pair, err := GenerateTokenPair("worker-1", common.UserTypeWorker)
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := ParseAccessToken(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "worker-1", claims.UserId)
	assert.Equal(t, common.UserTypeWorker, claims.UserType)

	refreshClaims, err := ParseRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
	assert.Equal(t, "worker-1", refreshClaims.UserId)
}

func TestRefreshTokenCannotAuthenticate(t *testing.T) {
	initTestSecret()
	pair, err := GenerateTokenPair("worker-1", common.UserTypeWorker)
	assert.NoError(t, err)

	_, err = ParseAccessToken(pair.RefreshToken)
	assert.Error(t, err)
	assert.True(t, commonerrors.IsUnauthorized(err))

	_, err = ParseRefreshToken(pair.AccessToken)
	assert.Error(t, err)
	assert.True(t, commonerrors.IsInvalidRefresh(err))
}

func TestParseRefreshTokenMalformed(t *testing.T) {
	initTestSecret()
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := ParseRefreshToken(token)
		assert.Error(t, err, token)
		assert.True(t, commonerrors.IsInvalidRefresh(err), token)
	}
}

func TestValidateCredentials(t *testing.T) {
	commonconfig.SetValue("auth.email", "worker@example.com")
	commonconfig.SetValue("auth.password", "hunter2")

	assert.NoError(t, ValidateCredentials("worker@example.com", "hunter2"))

	for _, tc := range [][2]string{
		{"", ""},
		{"worker@example.com", "wrong"},
		{"other@example.com", "hunter2"},
	} {
		err := ValidateCredentials(tc[0], tc[1])
		assert.Error(t, err)
		assert.True(t, commonerrors.IsUnauthorized(err))
	}
}
