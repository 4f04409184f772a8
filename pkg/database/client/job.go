/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"fmt"
	"time"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"k8s.io/klog/v2"

	dbutils "github.com/conveyorworks/conveyor/pkg/database/utils"
	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
)

const (
	TJob = `"Job"`
)

var (
	insertJobFormat       = `INSERT INTO ` + TJob + ` (%s) VALUES (%s)`
	getJobForUpdateCmd    = fmt.Sprintf(`SELECT * FROM %s WHERE id = $1 FOR UPDATE`, TJob)
	getLiveJobByHashCmd   = fmt.Sprintf(`SELECT * FROM %s WHERE hash = $1 AND status IN ('%s', '%s') FOR UPDATE`, TJob, JobStatusPending, JobStatusInProgress)
	updateJobStatusCmd    = fmt.Sprintf(`UPDATE %s SET status = $2, updated_at = $3 WHERE id = $1`, TJob)
	pollPendingJobsFormat = `SELECT * FROM ` + TJob + ` j
		WHERE j.status = '` + JobStatusPending + `'
		  AND NOT EXISTS (
			SELECT 1 FROM ` + TJobAssignment + ` a
			WHERE a.job_id = j.id AND a.completed_at IS NULL AND a.expires_at > $1
		  )%s
		ORDER BY j.created_at ASC, j.id ASC
		LIMIT %d`
	sweepTimedOutJobsCmd = fmt.Sprintf(`UPDATE %s j SET status = '%s', updated_at = $1
		WHERE j.status = '%s'
		  AND NOT EXISTS (
			SELECT 1 FROM %s a
			WHERE a.job_id = j.id AND a.completed_at IS NULL AND a.expires_at > $1
		  )
		  AND EXISTS (
			SELECT 1 FROM %s a
			WHERE a.job_id = j.id AND a.completed_at IS NULL AND a.expires_at <= $2
		  )
		RETURNING j.id`,
		TJob, JobStatusTimedOut, JobStatusInProgress, TJobAssignment, TJobAssignment)
)

// InsertJob adds a new job row. The ext argument scopes the write to an
// open transaction; pass nil to use the pool directly.
func (c *Client) InsertJob(ctx context.Context, ext sqlx.ExtContext, job *Job) error {
	if job == nil || job.Id == "" {
		return commonerrors.NewBadRequest("the input is empty")
	}
	ext, err := c.extOrDB(ext)
	if err != nil {
		return err
	}
	_, err = sqlx.NamedExecContext(ctx, ext, generateCommand(*job, insertJobFormat, ""), job)
	if err != nil {
		klog.ErrorS(err, "failed to insert job db", "id", job.Id)
	}
	return err
}

// GetJob retrieves a job by ID.
func (c *Client) GetJob(ctx context.Context, jobId string) (*Job, error) {
	if jobId == "" {
		return nil, commonerrors.NewBadRequest("jobId is empty")
	}
	dbTags := GetJobFieldTags()
	dbSql := sqrl.Eq{GetFieldTag(dbTags, "Id"): jobId}
	jobs, err := c.SelectJobs(ctx, dbSql, nil, 1, 0)
	if err != nil {
		klog.ErrorS(err, "failed to select job", "sql", dbutils.CvtToSqlStr(dbSql))
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, commonerrors.NewJobNotFound(jobId)
	}
	return jobs[0], nil
}

// GetJobForUpdate locks the job row for the duration of the transaction.
func (c *Client) GetJobForUpdate(ctx context.Context, tx *sqlx.Tx, jobId string) (*Job, error) {
	var jobs []*Job
	if err := tx.Unsafe().SelectContext(ctx, &jobs, getJobForUpdateCmd, jobId); err != nil {
		klog.ErrorS(err, "failed to lock job", "id", jobId)
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, commonerrors.NewJobNotFound(jobId)
	}
	return jobs[0], nil
}

// GetLiveJobByHashForUpdate returns the non-terminal job with the given
// fingerprint, locking it, or nil when no such job exists.
func (c *Client) GetLiveJobByHashForUpdate(ctx context.Context, tx *sqlx.Tx, hash string) (*Job, error) {
	var jobs []*Job
	if err := tx.Unsafe().SelectContext(ctx, &jobs, getLiveJobByHashCmd, hash); err != nil {
		klog.ErrorS(err, "failed to select job by hash")
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	return jobs[0], nil
}

// UpdateJobStatus sets the status of one job.
func (c *Client) UpdateJobStatus(ctx context.Context, ext sqlx.ExtContext, jobId, status string) error {
	ext, err := c.extOrDB(ext)
	if err != nil {
		return err
	}
	_, err = ext.ExecContext(ctx, updateJobStatusCmd, jobId, status, time.Now().UTC())
	if err != nil {
		klog.ErrorS(err, "failed to update job status", "id", jobId, "status", status)
	}
	return err
}

// PollPendingJobs returns up to limit PENDING jobs without a live
// assignment, oldest first. An empty jobType matches every class.
func (c *Client) PollPendingJobs(ctx context.Context, jobType string, limit int) ([]*Job, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	classFilter := ""
	args := []interface{}{time.Now().UTC()}
	if jobType != "" {
		classFilter = "\n		  AND j.type = $2"
		args = append(args, jobType)
	}
	cmd := fmt.Sprintf(pollPendingJobsFormat, classFilter, limit)
	var jobs []*Job
	if err = db.SelectContext(ctx, &jobs, cmd, args...); err != nil {
		klog.ErrorS(err, "failed to poll pending jobs", "type", jobType)
		return nil, err
	}
	return jobs, nil
}

// SelectJobs retrieves multiple job records.
func (c *Client) SelectJobs(ctx context.Context, query sqrl.Sqlizer, orderBy []string, limit, offset int) ([]*Job, error) {
	startTime := time.Now().UTC()
	defer func() {
		if query != nil {
			strQuery := dbutils.CvtToSqlStr(query)
			klog.V(4).Infof("select job, query: %s, orderBy: %v, limit: %d, offset: %d, cost (%v)",
				strQuery, orderBy, limit, offset, time.Since(startTime))
		}
	}()
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	sql, args, err := sqrl.Select("*").PlaceholderFormat(sqrl.Dollar).
		From(TJob).
		Where(query).
		OrderBy(orderBy...).
		Limit(uint64(limit)).
		Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, err
	}

	var jobs []*Job
	if c.RequestTimeout > 0 {
		ctx2, cancel := context.WithTimeout(ctx, c.RequestTimeout)
		defer cancel()
		err = db.SelectContext(ctx2, &jobs, sql, args...)
	} else {
		err = db.SelectContext(ctx, &jobs, sql, args...)
	}
	return jobs, err
}

// CountJobs returns the total count of jobs matching the criteria.
func (c *Client) CountJobs(ctx context.Context, query sqrl.Sqlizer) (int, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	sql, args, err := sqrl.Select("COUNT(*)").PlaceholderFormat(sqrl.Dollar).From(TJob).Where(query).ToSql()
	if err != nil {
		return 0, err
	}
	var cnt int
	err = db.GetContext(ctx, &cnt, sql, args...)
	return cnt, err
}

// SweepTimedOutJobs transitions IN_PROGRESS jobs whose last assignment
// expired before the grace cutoff to TIMED_OUT and returns their ids.
func (c *Client) SweepTimedOutJobs(ctx context.Context, grace time.Duration) ([]string, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	var jobIds []string
	if err = db.SelectContext(ctx, &jobIds, sweepTimedOutJobsCmd, now, now.Add(-grace)); err != nil {
		klog.ErrorS(err, "failed to sweep timed out jobs")
		return nil, err
	}
	return jobIds, nil
}

// extOrDB falls back to the pool when no transaction scope was supplied.
func (c *Client) extOrDB(ext sqlx.ExtContext) (sqlx.ExtContext, error) {
	if ext != nil {
		return ext, nil
	}
	return c.getDB()
}
