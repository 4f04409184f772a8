/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"strings"
	"testing"

	"gotest.tools/assert"
)

func TestGenInsertJobCmd(t *testing.T) {
	job := Job{}
	cmd := generateCommand(job, insertJobFormat, "")
	assert.Assert(t, strings.HasPrefix(cmd, `INSERT INTO "Job" (`))
	assert.Assert(t, strings.Contains(cmd, "input_payload"))
	assert.Assert(t, strings.Contains(cmd, ":hash"))
}

func TestGetJobFieldTags(t *testing.T) {
	tags := GetJobFieldTags()
	assert.Equal(t, GetFieldTag(tags, "inputPayload"), "input_payload")
	assert.Equal(t, GetFieldTag(tags, "userId"), "user_id")
	assert.Equal(t, GetFieldTag(tags, "createdAt"), "created_at")
}

func TestGetJobAssignmentFieldTags(t *testing.T) {
	tags := GetJobAssignmentFieldTags()
	assert.Equal(t, GetFieldTag(tags, "ecsTaskArn"), "ecs_task_arn")
	assert.Equal(t, GetFieldTag(tags, "expiresAt"), "expires_at")
	assert.Equal(t, GetFieldTag(tags, "completedAt"), "completed_at")
}

func TestIsTerminalStatus(t *testing.T) {
	assert.Assert(t, !IsTerminalStatus(JobStatusPending))
	assert.Assert(t, !IsTerminalStatus(JobStatusInProgress))
	assert.Assert(t, IsTerminalStatus(JobStatusSucceeded))
	assert.Assert(t, IsTerminalStatus(JobStatusFailed))
	assert.Assert(t, IsTerminalStatus(JobStatusCancelled))
	assert.Assert(t, IsTerminalStatus(JobStatusTimedOut))
}
