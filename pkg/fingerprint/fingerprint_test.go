/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package fingerprint

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDeterministic(t *testing.T) {
	payload := json.RawMessage(`{"id": 7, "name": "reef"}`)
	first, err := ComputeRaw("TEST", payload)
	assert.NoError(t, err)
	second, err := ComputeRaw("TEST", payload)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestComputeKeyOrderIndependent(t *testing.T) {
	a, err := ComputeRaw("TEST", json.RawMessage(`{"a": 1, "b": [1, 2]}`))
	assert.NoError(t, err)
	b, err := ComputeRaw("TEST", json.RawMessage(`{"b": [1, 2], "a": 1}`))
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComputeArrayOrderPreserved(t *testing.T) {
	a, err := ComputeRaw("TEST", json.RawMessage(`{"b": [1, 2]}`))
	assert.NoError(t, err)
	b, err := ComputeRaw("TEST", json.RawMessage(`{"b": [2, 1]}`))
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestComputeWhitespaceCollapsed(t *testing.T) {
	a, err := ComputeRaw("TEST", json.RawMessage(`{"name": "  coral   reef "}`))
	assert.NoError(t, err)
	b, err := ComputeRaw("TEST", json.RawMessage(`{"name": "coral reef"}`))
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComputeClassPrefixed(t *testing.T) {
	a, err := ComputeRaw("TEST", json.RawMessage(`{"id": 7}`))
	assert.NoError(t, err)
	b, err := ComputeRaw("CRITERIA_POLYGONS", json.RawMessage(`{"id": 7}`))
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNormalizeNonFiniteNumbers(t *testing.T) {
	v := Normalize(map[string]interface{}{
		"nan": nan(),
		"ok":  float64(1),
	})
	m := v.(map[string]interface{})
	assert.Nil(t, m["nan"])
	assert.Equal(t, float64(1), m["ok"])
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestNormalizeNested(t *testing.T) {
	v := Normalize(map[string]interface{}{
		"outer": []interface{}{map[string]interface{}{"s": " a  b "}},
	})
	outer := v.(map[string]interface{})["outer"].([]interface{})
	inner := outer[0].(map[string]interface{})
	assert.Equal(t, "a b", inner["s"])
}
