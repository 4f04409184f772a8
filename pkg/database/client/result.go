/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"k8s.io/klog/v2"

	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
)

const (
	TJobResult = `"JobResult"`
)

var (
	insertResultFormat       = `INSERT INTO ` + TJobResult + ` (%s) VALUES (%s)`
	getResultByAssignmentCmd = fmt.Sprintf(`SELECT * FROM %s WHERE assignment_id = $1 LIMIT 1`, TJobResult)
)

// InsertJobResult adds the outcome record of a completed assignment. The
// unique constraint on assignment_id makes duplicate submissions fail.
func (c *Client) InsertJobResult(ctx context.Context, ext sqlx.ExtContext, result *JobResult) error {
	if result == nil || result.Id == "" {
		return commonerrors.NewBadRequest("the input is empty")
	}
	ext, err := c.extOrDB(ext)
	if err != nil {
		return err
	}
	_, err = sqlx.NamedExecContext(ctx, ext, generateCommand(*result, insertResultFormat, ""), result)
	if err != nil {
		klog.ErrorS(err, "failed to insert result db", "assignmentId", result.AssignmentId)
	}
	return err
}

// GetJobResultByAssignment returns the result bound to an assignment, or
// nil when the assignment never produced one.
func (c *Client) GetJobResultByAssignment(ctx context.Context, assignmentId string) (*JobResult, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var results []*JobResult
	if err = db.SelectContext(ctx, &results, getResultByAssignmentCmd, assignmentId); err != nil {
		klog.ErrorS(err, "failed to select result", "assignmentId", assignmentId)
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}
