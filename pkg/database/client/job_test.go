/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lib/pq"
	"gotest.tools/assert"
)

func TestPollPendingJobsCmdShape(t *testing.T) {
	cmd := fmt.Sprintf(pollPendingJobsFormat, "", 10)
	assert.Assert(t, strings.Contains(cmd, `j.status = '`+JobStatusPending+`'`))
	assert.Assert(t, strings.Contains(cmd, "NOT EXISTS"))
	assert.Assert(t, strings.Contains(cmd, "a.completed_at IS NULL AND a.expires_at > $1"))
	assert.Assert(t, strings.Contains(cmd, "ORDER BY j.created_at ASC, j.id ASC"))
	assert.Assert(t, strings.HasSuffix(cmd, "LIMIT 10"))
	// the class filter must slot in before the ordering clause
	filtered := fmt.Sprintf(pollPendingJobsFormat, "\n		  AND j.type = $2", 10)
	assert.Assert(t, strings.Index(filtered, "j.type = $2") < strings.Index(filtered, "ORDER BY"))
}

func TestSweepTimedOutJobsCmdShape(t *testing.T) {
	assert.Assert(t, strings.Contains(sweepTimedOutJobsCmd, `SET status = '`+JobStatusTimedOut+`'`))
	assert.Assert(t, strings.Contains(sweepTimedOutJobsCmd, `j.status = '`+JobStatusInProgress+`'`))
	// only jobs with no live lease but at least one expired lease qualify
	assert.Assert(t, strings.Contains(sweepTimedOutJobsCmd, "NOT EXISTS"))
	assert.Assert(t, strings.Contains(sweepTimedOutJobsCmd, "a.expires_at > $1"))
	assert.Assert(t, strings.Contains(sweepTimedOutJobsCmd, "a.expires_at <= $2"))
	assert.Assert(t, strings.Contains(sweepTimedOutJobsCmd, "RETURNING j.id"))
}

func TestIsRetryableTxError(t *testing.T) {
	assert.Assert(t, IsRetryableTxError(&pq.Error{Code: "40001"}))
	assert.Assert(t, IsRetryableTxError(&pq.Error{Code: "23505"}))
	assert.Assert(t, IsRetryableTxError(fmt.Errorf("wrapped: %w", &pq.Error{Code: "40001"})))
	assert.Assert(t, !IsRetryableTxError(&pq.Error{Code: "23502"}))
	assert.Assert(t, !IsRetryableTxError(fmt.Errorf("plain failure")))
	assert.Assert(t, !IsRetryableTxError(nil))
}
