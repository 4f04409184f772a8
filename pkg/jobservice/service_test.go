/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package jobservice

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	dbclient "github.com/conveyorworks/conveyor/pkg/database/client"
	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
	"github.com/conveyorworks/conveyor/pkg/registry"
)

func TestCreateRejectsUnknownClass(t *testing.T) {
	s := NewService(nil, nil)
	_, err := s.Create(context.Background(), "user-1", registry.JobType("NOPE"), json.RawMessage(`{}`))
	assert.Error(t, err)
	assert.True(t, commonerrors.IsBadRequest(err))
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	s := NewService(nil, nil)
	_, err := s.Create(context.Background(), "user-1", registry.JobTypeTest, json.RawMessage(`{"unexpected": 1}`))
	assert.Error(t, err)
	assert.True(t, commonerrors.IsBadRequest(err))
}

func TestPollRejectsUnknownClass(t *testing.T) {
	s := NewService(nil, nil)
	_, err := s.Poll(context.Background(), "NOPE")
	assert.Error(t, err)
	assert.True(t, commonerrors.IsBadRequest(err))
}

func TestAssignRequiresWorkerIdentity(t *testing.T) {
	s := NewService(nil, nil)
	_, err := s.Assign(context.Background(), "job-1", "", "cluster-1")
	assert.Error(t, err)
	assert.True(t, commonerrors.IsBadRequest(err))
}

func TestSubmitResultRejectsNonTerminalStatus(t *testing.T) {
	s := NewService(nil, nil)
	for _, status := range []string{"", dbclient.JobStatusPending, dbclient.JobStatusInProgress, dbclient.JobStatusCancelled, "DONE"} {
		err := s.SubmitResult(context.Background(), &SubmitInput{AssignmentId: "a-1", Status: status})
		assert.Error(t, err, status)
		assert.True(t, commonerrors.IsBadRequest(err), status)
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	s := NewService(nil, nil)
	_, _, err := s.List(context.Background(), "user-1", false, "RUNNING", 10, 0)
	assert.Error(t, err)
	assert.True(t, commonerrors.IsBadRequest(err))
}

func TestJobStatusTransitionTable(t *testing.T) {
	all := []string{
		dbclient.JobStatusPending, dbclient.JobStatusInProgress, dbclient.JobStatusSucceeded,
		dbclient.JobStatusFailed, dbclient.JobStatusCancelled, dbclient.JobStatusTimedOut,
	}
	legal := map[string]map[string]bool{
		dbclient.JobStatusPending: {
			dbclient.JobStatusInProgress: true,
			dbclient.JobStatusCancelled:  true,
		},
		dbclient.JobStatusInProgress: {
			dbclient.JobStatusSucceeded: true,
			dbclient.JobStatusFailed:    true,
			dbclient.JobStatusCancelled: true,
			dbclient.JobStatusTimedOut:  true,
		},
	}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, legal[from][to], canTransition(from, to), from+" -> "+to)
		}
	}
}

func TestTerminalJobCannotComplete(t *testing.T) {
	// a job cancelled or swept while its worker was still running must not
	// flip back to SUCCEEDED/FAILED when the worker reports in
	for _, from := range []string{
		dbclient.JobStatusCancelled, dbclient.JobStatusTimedOut,
		dbclient.JobStatusSucceeded, dbclient.JobStatusFailed,
	} {
		assert.False(t, canTransition(from, dbclient.JobStatusSucceeded), from)
		assert.False(t, canTransition(from, dbclient.JobStatusFailed), from)
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range []string{
		dbclient.JobStatusPending, dbclient.JobStatusInProgress, dbclient.JobStatusSucceeded,
		dbclient.JobStatusFailed, dbclient.JobStatusCancelled, dbclient.JobStatusTimedOut,
	} {
		assert.True(t, isValidStatus(status), status)
	}
	assert.False(t, isValidStatus("RUNNING"))
	assert.False(t, isValidStatus(""))
}
