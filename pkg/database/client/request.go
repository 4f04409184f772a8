/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"fmt"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"k8s.io/klog/v2"

	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
)

const (
	TJobRequest = `"JobRequest"`
)

var (
	insertRequestFormat = `INSERT INTO ` + TJobRequest + ` (%s) VALUES (%s)`
)

// InsertJobRequest records one submission, whether it was served from the
// de-duplication cache or created a fresh job.
func (c *Client) InsertJobRequest(ctx context.Context, ext sqlx.ExtContext, request *JobRequest) error {
	if request == nil || request.Id == "" {
		return commonerrors.NewBadRequest("the input is empty")
	}
	ext, err := c.extOrDB(ext)
	if err != nil {
		return err
	}
	_, err = sqlx.NamedExecContext(ctx, ext, generateCommand(*request, insertRequestFormat, ""), request)
	if err != nil {
		klog.ErrorS(err, "failed to insert request db", "jobId", request.JobId)
	}
	return err
}

// CountJobRequests returns the total count of requests matching the criteria.
func (c *Client) CountJobRequests(ctx context.Context, query sqrl.Sqlizer) (int, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	sql, args, err := sqrl.Select("COUNT(*)").PlaceholderFormat(sqrl.Dollar).From(TJobRequest).Where(query).ToSql()
	if err != nil {
		return 0, err
	}
	var cnt int
	err = db.GetContext(ctx, &cnt, sql, args...)
	return cnt, err
}

// SelectJobRequests retrieves request records for a user, newest first.
func (c *Client) SelectJobRequests(ctx context.Context, userId string, limit, offset int) ([]*JobRequest, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	cmd := fmt.Sprintf(`SELECT * FROM %s WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, TJobRequest)
	var requests []*JobRequest
	if err = db.SelectContext(ctx, &requests, cmd, userId, limit, offset); err != nil {
		klog.ErrorS(err, "failed to select requests", "userId", userId)
		return nil, err
	}
	return requests, nil
}
