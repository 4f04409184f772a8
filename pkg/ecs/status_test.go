/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]TaskStatus{
		"PROVISIONING":   TaskStatusPending,
		"PENDING":        TaskStatusPending,
		"ACTIVATING":     TaskStatusPending,
		"RUNNING":        TaskStatusRunning,
		"DEACTIVATING":   TaskStatusStopped,
		"STOPPING":       TaskStatusStopped,
		"STOPPED":        TaskStatusStopped,
		"DEPROVISIONING": TaskStatusStopped,
		"DEPROVISIONED":  TaskStatusStopped,
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizeStatus(raw, TaskStatusPending), raw)
	}
}

func TestNormalizeStatusUnknownKeepsPrevious(t *testing.T) {
	assert.Equal(t, TaskStatusRunning, NormalizeStatus("HIBERNATING", TaskStatusRunning))
	assert.Equal(t, TaskStatusPending, NormalizeStatus("", TaskStatusPending))
}
