/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"k8s.io/klog/v2"

	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
)

const (
	TJobAssignment = `"JobAssignment"`
)

var (
	insertAssignmentFormat     = `INSERT INTO ` + TJobAssignment + ` (%s) VALUES (%s)`
	getAssignmentForUpdateCmd  = fmt.Sprintf(`SELECT * FROM %s WHERE id = $1 FOR UPDATE`, TJobAssignment)
	getLiveAssignmentCmd       = fmt.Sprintf(`SELECT * FROM %s WHERE job_id = $1 AND completed_at IS NULL AND expires_at > $2 LIMIT 1`, TJobAssignment)
	setAssignmentCompletedCmd  = fmt.Sprintf(`UPDATE %s SET completed_at = $2, updated_at = $2 WHERE id = $1`, TJobAssignment)
	setAssignmentHeartbeatCmd  = fmt.Sprintf(`UPDATE %s SET heartbeat_at = $2, updated_at = $2 WHERE id = $1`, TJobAssignment)
	getCompletedAssignmentsCmd = fmt.Sprintf(`SELECT * FROM %s WHERE job_id = $1 AND completed_at IS NOT NULL ORDER BY completed_at DESC`, TJobAssignment)
	getJobAssignmentsCmd       = fmt.Sprintf(`SELECT * FROM %s WHERE job_id = $1 ORDER BY created_at ASC, id ASC`, TJobAssignment)
)

// InsertJobAssignment adds a new assignment row.
func (c *Client) InsertJobAssignment(ctx context.Context, ext sqlx.ExtContext, assignment *JobAssignment) error {
	if assignment == nil || assignment.Id == "" {
		return commonerrors.NewBadRequest("the input is empty")
	}
	ext, err := c.extOrDB(ext)
	if err != nil {
		return err
	}
	_, err = sqlx.NamedExecContext(ctx, ext, generateCommand(*assignment, insertAssignmentFormat, ""), assignment)
	if err != nil {
		klog.ErrorS(err, "failed to insert assignment db", "id", assignment.Id, "jobId", assignment.JobId)
	}
	return err
}

// GetJobAssignmentForUpdate locks the assignment row for the duration of
// the transaction.
func (c *Client) GetJobAssignmentForUpdate(ctx context.Context, tx *sqlx.Tx, assignmentId string) (*JobAssignment, error) {
	var assignments []*JobAssignment
	if err := tx.Unsafe().SelectContext(ctx, &assignments, getAssignmentForUpdateCmd, assignmentId); err != nil {
		klog.ErrorS(err, "failed to lock assignment", "id", assignmentId)
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, commonerrors.NewAssignmentNotFound(assignmentId)
	}
	return assignments[0], nil
}

// GetLiveAssignment returns the assignment currently leasing the job, or
// nil when the job has no live assignment.
func (c *Client) GetLiveAssignment(ctx context.Context, ext sqlx.ExtContext, jobId string) (*JobAssignment, error) {
	ext, err := c.extOrDB(ext)
	if err != nil {
		return nil, err
	}
	var assignments []*JobAssignment
	if err = sqlx.SelectContext(ctx, ext, &assignments, getLiveAssignmentCmd, jobId, time.Now().UTC()); err != nil {
		klog.ErrorS(err, "failed to select live assignment", "jobId", jobId)
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, nil
	}
	return assignments[0], nil
}

// SelectJobAssignments returns every assignment of the job, oldest first.
func (c *Client) SelectJobAssignments(ctx context.Context, jobId string) ([]*JobAssignment, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var assignments []*JobAssignment
	if err = db.SelectContext(ctx, &assignments, getJobAssignmentsCmd, jobId); err != nil {
		klog.ErrorS(err, "failed to select assignments", "jobId", jobId)
		return nil, err
	}
	return assignments, nil
}

// GetCompletedAssignments returns the completed assignments of a job,
// newest first.
func (c *Client) GetCompletedAssignments(ctx context.Context, jobId string) ([]*JobAssignment, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var assignments []*JobAssignment
	if err = db.SelectContext(ctx, &assignments, getCompletedAssignmentsCmd, jobId); err != nil {
		klog.ErrorS(err, "failed to select completed assignments", "jobId", jobId)
		return nil, err
	}
	return assignments, nil
}

// SetAssignmentCompleted stamps the assignment's completion time.
func (c *Client) SetAssignmentCompleted(ctx context.Context, ext sqlx.ExtContext, assignmentId string, completedAt time.Time) error {
	ext, err := c.extOrDB(ext)
	if err != nil {
		return err
	}
	_, err = ext.ExecContext(ctx, setAssignmentCompletedCmd, assignmentId, completedAt)
	if err != nil {
		klog.ErrorS(err, "failed to complete assignment db", "id", assignmentId)
	}
	return err
}

// SetAssignmentHeartbeat records a liveness report from the worker.
func (c *Client) SetAssignmentHeartbeat(ctx context.Context, ext sqlx.ExtContext, assignmentId string, heartbeatAt time.Time) error {
	ext, err := c.extOrDB(ext)
	if err != nil {
		return err
	}
	_, err = ext.ExecContext(ctx, setAssignmentHeartbeatCmd, assignmentId, heartbeatAt)
	if err != nil {
		klog.ErrorS(err, "failed to update assignment heartbeat", "id", assignmentId)
	}
	return err
}
