/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package jobservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"k8s.io/klog/v2"

	dbclient "github.com/conveyorworks/conveyor/pkg/database/client"
	dbutils "github.com/conveyorworks/conveyor/pkg/database/utils"
	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
	"github.com/conveyorworks/conveyor/pkg/fingerprint"
	"github.com/conveyorworks/conveyor/pkg/registry"
	"github.com/conveyorworks/conveyor/pkg/storage"
)

const pollLimit = 10

// Service implements the job lifecycle: submission with content-addressed
// de-duplication, worker assignment leases, result submission and output
// download.
type Service struct {
	dbClient *dbclient.Client
	locator  *storage.Locator
}

// NewService creates a Service on the shared database client and blob
// locator.
func NewService(db *dbclient.Client, locator *storage.Locator) *Service {
	return &Service{dbClient: db, locator: locator}
}

// Create validates and fingerprints the payload, then either returns the
// existing non-terminal job with the same fingerprint (cached) or inserts a
// fresh PENDING job. Every call records a JobRequest row.
func (s *Service) Create(ctx context.Context, userId string, class registry.JobType, payload json.RawMessage) (*CreateResult, error) {
	normalized, err := registry.ValidateInput(class, payload)
	if err != nil {
		return nil, err
	}
	hash, err := fingerprint.ComputeRaw(string(class), normalized)
	if err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("failed to fingerprint payload: %v", err))
	}

	result := &CreateResult{RequestId: uuid.NewString()}
	now := time.Now().UTC()
	createTx := func(tx *sqlx.Tx) error {
		existing, err := s.dbClient.GetLiveJobByHashForUpdate(ctx, tx, hash)
		if err != nil {
			return err
		}
		if existing != nil {
			result.JobId = existing.Id
			result.Cached = true
		} else {
			job := &dbclient.Job{
				Id:           uuid.NewString(),
				CreatedAt:    dbutils.NullTime(now),
				UpdatedAt:    dbutils.NullTime(now),
				Type:         string(class),
				Status:       dbclient.JobStatusPending,
				UserId:       userId,
				InputPayload: normalized,
				Hash:         hash,
			}
			if err = s.dbClient.InsertJob(ctx, tx, job); err != nil {
				return err
			}
			result.JobId = job.Id
		}
		request := &dbclient.JobRequest{
			Id:           result.RequestId,
			CreatedAt:    dbutils.NullTime(now),
			UserId:       userId,
			Type:         string(class),
			InputPayload: normalized,
			CacheHit:     result.Cached,
			JobId:        result.JobId,
		}
		return s.dbClient.InsertJobRequest(ctx, tx, request)
	}
	err = s.dbClient.Transact(ctx, sql.LevelSerializable, createTx)
	if err != nil && dbclient.IsRetryableTxError(err) {
		// a concurrent duplicate committed first; the retry finds its row
		// and answers with cached=true instead of surfacing the conflict
		klog.V(4).Infof("retrying job create after transaction conflict: %v", err)
		result.JobId, result.Cached = "", false
		err = s.dbClient.Transact(ctx, sql.LevelSerializable, createTx)
	}
	if err != nil {
		return nil, err
	}
	klog.Infof("created job request %s, job: %s, cached: %v", result.RequestId, result.JobId, result.Cached)
	return result, nil
}

// Poll returns up to 10 PENDING jobs with no live assignment, oldest
// first. It never mutates state.
func (s *Service) Poll(ctx context.Context, class string) ([]*dbclient.Job, error) {
	if class != "" && !registry.IsKnown(registry.JobType(class)) {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("unknown job type %q", class))
	}
	jobs, err := s.dbClient.PollPendingJobs(ctx, class, pollLimit)
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// Assign leases a PENDING job to a worker task. The lease expires after
// the class timeout; expired leases make the job pollable again without
// any explicit reassignment step.
func (s *Service) Assign(ctx context.Context, jobId, taskArn, clusterArn string) (*dbclient.JobAssignment, error) {
	if jobId == "" || taskArn == "" || clusterArn == "" {
		return nil, commonerrors.NewBadRequest("jobId, ecsTaskArn and ecsClusterArn are required")
	}
	var assignment *dbclient.JobAssignment
	err := s.dbClient.Transact(ctx, sql.LevelRepeatableRead, func(tx *sqlx.Tx) error {
		job, err := s.dbClient.GetJobForUpdate(ctx, tx, jobId)
		if err != nil {
			return err
		}
		if job.Status != dbclient.JobStatusPending {
			return commonerrors.NewConflict(fmt.Sprintf("job %s is %s, not %s", jobId, job.Status, dbclient.JobStatusPending))
		}
		scheme, uri := s.locator.StorageFor(registry.JobType(job.Type), job.Id)
		now := time.Now().UTC()
		assignment = &dbclient.JobAssignment{
			Id:            uuid.NewString(),
			CreatedAt:     dbutils.NullTime(now),
			UpdatedAt:     dbutils.NullTime(now),
			JobId:         job.Id,
			EcsTaskArn:    taskArn,
			EcsClusterArn: clusterArn,
			ExpiresAt:     dbutils.NullTime(now.Add(registry.Timeout(registry.JobType(job.Type)))),
			StorageScheme: dbutils.NullString(scheme),
			StorageUri:    dbutils.NullString(uri),
		}
		if err = s.dbClient.InsertJobAssignment(ctx, tx, assignment); err != nil {
			return err
		}
		return s.dbClient.UpdateJobStatus(ctx, tx, job.Id, dbclient.JobStatusInProgress)
	})
	if err != nil {
		return nil, err
	}
	klog.Infof("assigned job %s to task %s, expires: %s", jobId, taskArn, dbutils.ParseNullTimeToString(assignment.ExpiresAt))
	return assignment, nil
}

// SubmitResult records the final outcome of an assignment. Submissions
// against an already-completed assignment, or a job that reached a
// terminal status in the meantime, fail with a conflict and leave no
// partial writes.
func (s *Service) SubmitResult(ctx context.Context, input *SubmitInput) error {
	if input == nil || input.AssignmentId == "" {
		return commonerrors.NewBadRequest("assignmentId is required")
	}
	if input.Status != dbclient.JobStatusSucceeded && input.Status != dbclient.JobStatusFailed {
		return commonerrors.NewBadRequest(fmt.Sprintf("status must be %s or %s",
			dbclient.JobStatusSucceeded, dbclient.JobStatusFailed))
	}
	err := s.dbClient.Transact(ctx, sql.LevelRepeatableRead, func(tx *sqlx.Tx) error {
		assignment, err := s.dbClient.GetJobAssignmentForUpdate(ctx, tx, input.AssignmentId)
		if err != nil {
			return err
		}
		if assignment.CompletedAt.Valid {
			return commonerrors.NewConflict(fmt.Sprintf("assignment %s already completed", assignment.Id))
		}
		job, err := s.dbClient.GetJobForUpdate(ctx, tx, assignment.JobId)
		if err != nil {
			return err
		}
		if !canTransition(job.Status, input.Status) {
			return commonerrors.NewConflict(fmt.Sprintf("job %s is %s and cannot become %s",
				job.Id, job.Status, input.Status))
		}
		if input.ResultPayload != nil {
			if err = registry.ValidateResult(registry.JobType(job.Type), input.ResultPayload); err != nil {
				return err
			}
		}
		now := time.Now().UTC()
		result := &dbclient.JobResult{
			Id:            uuid.NewString(),
			CreatedAt:     dbutils.NullTime(now),
			JobId:         job.Id,
			AssignmentId:  assignment.Id,
			ResultPayload: input.ResultPayload,
			StorageScheme: assignment.StorageScheme,
			StorageUri:    assignment.StorageUri,
			Metadata:      input.Metadata,
		}
		if err = s.dbClient.InsertJobResult(ctx, tx, result); err != nil {
			return err
		}
		if err = s.dbClient.SetAssignmentCompleted(ctx, tx, assignment.Id, now); err != nil {
			return err
		}
		return s.dbClient.UpdateJobStatus(ctx, tx, job.Id, input.Status)
	})
	if err != nil {
		return err
	}
	klog.Infof("assignment %s completed with %s", input.AssignmentId, input.Status)
	return nil
}

// Heartbeat records a liveness report against a live assignment. The
// check and the write share one row-locked transaction so a submission
// racing the heartbeat cannot slip in between.
func (s *Service) Heartbeat(ctx context.Context, assignmentId string) error {
	if assignmentId == "" {
		return commonerrors.NewBadRequest("assignmentId is required")
	}
	return s.dbClient.Transact(ctx, sql.LevelRepeatableRead, func(tx *sqlx.Tx) error {
		assignment, err := s.dbClient.GetJobAssignmentForUpdate(ctx, tx, assignmentId)
		if err != nil {
			return err
		}
		if assignment.CompletedAt.Valid {
			return commonerrors.NewConflict(fmt.Sprintf("assignment %s already completed", assignmentId))
		}
		return s.dbClient.SetAssignmentHeartbeat(ctx, tx, assignmentId, time.Now().UTC())
	})
}

// Cancel moves a job to CANCELLED. Only the owner or an admin may cancel;
// jobs already in a terminal status conflict. The running worker, if any,
// is not terminated here.
func (s *Service) Cancel(ctx context.Context, jobId, callerId string, isAdmin bool) (*dbclient.Job, error) {
	var job *dbclient.Job
	err := s.dbClient.Transact(ctx, sql.LevelRepeatableRead, func(tx *sqlx.Tx) error {
		var err error
		job, err = s.dbClient.GetJobForUpdate(ctx, tx, jobId)
		if err != nil {
			return err
		}
		if job.UserId != callerId && !isAdmin {
			return commonerrors.NewForbidden(fmt.Sprintf("job %s does not belong to the caller", jobId))
		}
		if !canTransition(job.Status, dbclient.JobStatusCancelled) {
			return commonerrors.NewConflict(fmt.Sprintf("job %s is already %s", jobId, job.Status))
		}
		if err = s.dbClient.UpdateJobStatus(ctx, tx, jobId, dbclient.JobStatusCancelled); err != nil {
			return err
		}
		job.Status = dbclient.JobStatusCancelled
		live, err := s.dbClient.GetLiveAssignment(ctx, tx, jobId)
		if err != nil {
			return err
		}
		if live != nil {
			klog.Infof("cancelled job %s still has live assignment %s on task %s; the worker is not terminated",
				jobId, live.Id, live.EcsTaskArn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	klog.Infof("cancelled job %s by %s", jobId, callerId)
	return job, nil
}

// Get returns the job with its assignment history and each assignment's
// result. Non-admin callers may only view their own jobs.
func (s *Service) Get(ctx context.Context, jobId, callerId string, isAdmin bool) (*JobDetail, error) {
	job, err := s.dbClient.GetJob(ctx, jobId)
	if err != nil {
		return nil, err
	}
	if job.UserId != callerId && !isAdmin {
		return nil, commonerrors.NewForbidden(fmt.Sprintf("job %s does not belong to the caller", jobId))
	}
	assignments, err := s.dbClient.SelectJobAssignments(ctx, jobId)
	if err != nil {
		return nil, err
	}
	detail := &JobDetail{Job: job, Assignments: make([]*AssignmentDetail, 0, len(assignments))}
	for _, assignment := range assignments {
		result, err := s.dbClient.GetJobResultByAssignment(ctx, assignment.Id)
		if err != nil {
			return nil, err
		}
		detail.Assignments = append(detail.Assignments, &AssignmentDetail{Assignment: assignment, Result: result})
	}
	return detail, nil
}

// List returns jobs with an optional status filter. Non-admin callers see
// only their own jobs.
func (s *Service) List(ctx context.Context, callerId string, isAdmin bool, status string, limit, offset int) ([]*dbclient.Job, int, error) {
	if status != "" && !isValidStatus(status) {
		return nil, 0, commonerrors.NewBadRequest(fmt.Sprintf("unknown status %q", status))
	}
	if limit <= 0 {
		limit = 100
	}
	dbTags := dbclient.GetJobFieldTags()
	query := sqrl.And{}
	if !isAdmin {
		query = append(query, sqrl.Eq{dbclient.GetFieldTag(dbTags, "UserId"): callerId})
	}
	if status != "" {
		query = append(query, sqrl.Eq{dbclient.GetFieldTag(dbTags, "Status"): status})
	}
	jobs, err := s.dbClient.SelectJobs(ctx, query, []string{dbclient.CreatedAt + " " + dbclient.DESC}, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.dbClient.CountJobs(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// ListRequests returns the caller's own submission history, newest first,
// including submissions that were served from the de-duplication cache.
func (s *Service) ListRequests(ctx context.Context, callerId string, limit, offset int) ([]*dbclient.JobRequest, int, error) {
	if limit <= 0 {
		limit = 100
	}
	requests, err := s.dbClient.SelectJobRequests(ctx, callerId, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	dbTags := dbclient.GetJobRequestFieldTags()
	total, err := s.dbClient.CountJobRequests(ctx, sqrl.Eq{dbclient.GetFieldTag(dbTags, "UserId"): callerId})
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Download presigns every output file of a finished job. The job must be
// SUCCEEDED and have an assignment that produced a result with a storage
// location.
func (s *Service) Download(ctx context.Context, jobId, callerId string, isAdmin bool, expiry time.Duration) (*DownloadResult, error) {
	job, err := s.dbClient.GetJob(ctx, jobId)
	if err != nil {
		return nil, err
	}
	if job.UserId != callerId && !isAdmin {
		return nil, commonerrors.NewForbidden(fmt.Sprintf("job %s does not belong to the caller", jobId))
	}
	if job.Status != dbclient.JobStatusSucceeded {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("job %s is %s, outputs are only available once %s",
			jobId, job.Status, dbclient.JobStatusSucceeded))
	}
	assignments, err := s.dbClient.GetCompletedAssignments(ctx, jobId)
	if err != nil {
		return nil, err
	}
	var uri string
	for _, assignment := range assignments {
		if u := dbutils.ParseNullString(assignment.StorageUri); u != "" {
			uri = u
			break
		}
	}
	if uri == "" {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("job %s has no stored outputs", jobId))
	}
	files, err := s.locator.PresignList(ctx, uri, expiry)
	if err != nil {
		return nil, err
	}
	return &DownloadResult{Job: job, Files: files}, nil
}

// jobTransitions lists the legal status moves. Terminal statuses accept
// none, which is what keeps a cancelled or swept job immutable.
var jobTransitions = map[string][]string{
	dbclient.JobStatusPending: {
		dbclient.JobStatusInProgress, dbclient.JobStatusCancelled,
	},
	dbclient.JobStatusInProgress: {
		dbclient.JobStatusSucceeded, dbclient.JobStatusFailed,
		dbclient.JobStatusCancelled, dbclient.JobStatusTimedOut,
	},
}

func canTransition(from, to string) bool {
	for _, next := range jobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func isValidStatus(status string) bool {
	switch status {
	case dbclient.JobStatusPending, dbclient.JobStatusInProgress, dbclient.JobStatusSucceeded,
		dbclient.JobStatusFailed, dbclient.JobStatusCancelled, dbclient.JobStatusTimedOut:
		return true
	}
	return false
}
