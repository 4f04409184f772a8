/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

func TestIsConflict(t *testing.T) {
	err := NewConflict("test")
	assert.Equal(t, IsConflict(err), true)
	err2 := fmt.Errorf("test")
	assert.Equal(t, IsConflict(err2), false)
	err3 := NewIllegalTransition("assign on non-pending job")
	assert.Equal(t, IsConflict(err3), true)
	err4 := apierrors.NewConflict(schema.GroupResource{}, "test", fmt.Errorf("test"))
	assert.Equal(t, IsConflict(err4), false)
}

func TestIsNotFound(t *testing.T) {
	assert.Equal(t, IsNotFound(NewJobNotFound("j-1")), true)
	assert.Equal(t, IsNotFound(NewAssignmentNotFound("a-1")), true)
	assert.Equal(t, IsNotFound(NewNotFoundWithMessage("test")), true)
	assert.Equal(t, IsNotFound(NewBadRequest("test")), false)
	assert.Equal(t, IgnoreFound(NewJobNotFound("j-1")), nil)
}

func TestIsUnauthorized(t *testing.T) {
	assert.Equal(t, IsUnauthorized(NewUnauthorized("no token")), true)
	assert.Equal(t, IsUnauthorized(NewLoginFailed("bad credentials")), true)
	assert.Equal(t, IsUnauthorized(NewInvalidRefresh("malformed")), true)
	assert.Equal(t, IsInvalidRefresh(NewInvalidRefresh("malformed")), true)
	assert.Equal(t, IsInvalidRefresh(NewUnauthorized("no token")), false)
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, GetErrorCode(NewBadRequest("test")), BadRequest)
	assert.Equal(t, GetErrorCode(fmt.Errorf("test")), "")
}
