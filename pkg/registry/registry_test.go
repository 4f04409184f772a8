/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package registry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
)

func TestValidateInputTest(t *testing.T) {
	normalized, err := ValidateInput(JobTypeTest, json.RawMessage(`{"id": 7}`))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"id": 7}`, string(normalized))
}

func TestValidateInputUnknownField(t *testing.T) {
	_, err := ValidateInput(JobTypeTest, json.RawMessage(`{"id": 7, "extra": true}`))
	assert.Error(t, err)
	assert.True(t, commonerrors.IsBadRequest(err))
}

func TestValidateInputMissingRequired(t *testing.T) {
	_, err := ValidateInput(JobTypeCriteriaPolygons, json.RawMessage(`{"reef_type": "fringing"}`))
	assert.Error(t, err)
	assert.True(t, commonerrors.IsBadRequest(err))
}

func TestValidateInputUnknownType(t *testing.T) {
	_, err := ValidateInput(JobType("NOPE"), json.RawMessage(`{}`))
	assert.Error(t, err)
	assert.True(t, commonerrors.IsBadRequest(err))
}

func TestValidateInputNormalizes(t *testing.T) {
	normalized, err := ValidateInput(JobTypeCriteriaPolygons,
		json.RawMessage(`{"reef_type": "  fringing   reef ", "region": "moore"}`))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"region": "moore", "reef_type": "fringing reef"}`, string(normalized))
}

func TestValidateResultWithoutSchema(t *testing.T) {
	// TEST carries no result schema, anything goes.
	assert.NoError(t, ValidateResult(JobTypeTest, json.RawMessage(`{"whatever": 1}`)))
	assert.NoError(t, ValidateResult(JobTypeTest, nil))
}

func TestValidateResultWithSchema(t *testing.T) {
	assert.NoError(t, ValidateResult(JobTypeCriteriaPolygons, json.RawMessage(`{"polygonCount": 12}`)))
	err := ValidateResult(JobTypeCriteriaPolygons, json.RawMessage(`{"polygonCount": -1}`))
	assert.Error(t, err)
	err = ValidateResult(JobTypeCriteriaPolygons, json.RawMessage(`{"unexpected": true}`))
	assert.Error(t, err)
}

func TestTimeout(t *testing.T) {
	assert.Equal(t, time.Hour, Timeout(JobTypeTest))
	assert.Equal(t, 2*time.Hour, Timeout(JobTypeCriteriaPolygons))
	assert.Equal(t, DefaultAssignmentTimeout, Timeout(JobType("NOPE")))
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown(JobTypeTest))
	assert.True(t, IsKnown(JobTypeCriteriaPolygons))
	assert.False(t, IsKnown(JobType("NOPE")))
}
