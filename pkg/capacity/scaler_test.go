/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scalingConfig(min, max int, sensitivity, factor float64) *ClassConfig {
	return &ClassConfig{
		TaskDefinitionArn: "arn:aws:ecs:td/test",
		ClusterArn:        "arn:aws:ecs:cluster/test",
		SecurityGroup:     "sg-1",
		MinCapacity:       min,
		MaxCapacity:       max,
		Sensitivity:       sensitivity,
		Factor:            factor,
	}
}

func TestTargetCapacityCurve(t *testing.T) {
	cfg := scalingConfig(0, 10, 2, 5)
	assert.Equal(t, 0, targetCapacity(0, cfg))
	assert.Equal(t, 1, targetCapacity(5, cfg))
	assert.Equal(t, 5, targetCapacity(50, cfg))
	assert.Equal(t, 10, targetCapacity(10000, cfg))
}

func TestTargetCapacityMonotonic(t *testing.T) {
	cfg := scalingConfig(0, 20, 3, 2)
	previous := 0
	for pending := 0; pending <= 500; pending += 7 {
		target := targetCapacity(pending, cfg)
		assert.GreaterOrEqual(t, target, previous, "pending=%d", pending)
		previous = target
	}
}

func TestTargetCapacityBounds(t *testing.T) {
	cfg := scalingConfig(2, 6, 10, 1)
	assert.Equal(t, 2, targetCapacity(0, cfg))
	assert.Equal(t, 6, targetCapacity(1000, cfg))

	// very low curve output still yields one worker while backlog exists
	flat := scalingConfig(0, 10, 0.01, 100)
	assert.Equal(t, 1, targetCapacity(1, flat))
}

func TestTargetCapacityNegativePending(t *testing.T) {
	cfg := scalingConfig(3, 10, 2, 5)
	assert.Equal(t, 3, targetCapacity(-1, cfg))
}
