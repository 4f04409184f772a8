/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/conveyorworks/conveyor/pkg/apiserver/authority"
	"github.com/conveyorworks/conveyor/pkg/apiserver/handlers/types"
	apiutils "github.com/conveyorworks/conveyor/pkg/apiserver/utils"
	"github.com/conveyorworks/conveyor/pkg/common"
	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
	"github.com/conveyorworks/conveyor/pkg/jobservice"
	"github.com/conveyorworks/conveyor/pkg/registry"
	"github.com/conveyorworks/conveyor/pkg/storage"
)

// CreateJob submits a job. Identical payloads of the same class share one
// non-terminal job, reported through the cached flag.
func (h *Handler) CreateJob(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		req := &types.CreateJobRequest{}
		if _, err := apiutils.ParseRequestBody(c.Request, req); err != nil {
			return nil, err
		}
		result, err := h.service.Create(c.Request.Context(), authority.CallerId(c),
			registry.JobType(req.Type), req.InputPayload)
		if err != nil {
			return nil, err
		}
		return &types.CreateJobResponse{JobId: result.JobId, RequestId: result.RequestId, Cached: result.Cached}, nil
	})
}

// ListJobs lists jobs with an optional status filter. Regular users see
// only their own jobs.
func (h *Handler) ListJobs(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		limit := parseIntQuery(c, "limit", 100)
		offset := parseIntQuery(c, "offset", 0)
		jobs, total, err := h.service.List(c.Request.Context(), authority.CallerId(c),
			authority.IsAdminScope(c), c.Query("status"), limit, offset)
		if err != nil {
			return nil, err
		}
		return &types.ListJobsResponse{Jobs: jobs, Total: total}, nil
	})
}

// ListRequests lists the caller's own submission history, cache hits
// included.
func (h *Handler) ListRequests(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		limit := parseIntQuery(c, "limit", 100)
		offset := parseIntQuery(c, "offset", 0)
		requests, total, err := h.service.ListRequests(c.Request.Context(), authority.CallerId(c), limit, offset)
		if err != nil {
			return nil, err
		}
		return &types.ListJobRequestsResponse{Requests: requests, Total: total}, nil
	})
}

// PollJobs returns up to 10 pending jobs with no live assignment.
func (h *Handler) PollJobs(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		jobs, err := h.service.Poll(c.Request.Context(), c.Query("jobType"))
		if err != nil {
			return nil, err
		}
		return &types.PollJobsResponse{Jobs: jobs}, nil
	})
}

// AssignJob leases a pending job to a worker task.
func (h *Handler) AssignJob(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		req := &types.AssignJobRequest{}
		if _, err := apiutils.ParseRequestBody(c.Request, req); err != nil {
			return nil, err
		}
		assignment, err := h.service.Assign(c.Request.Context(), req.JobId, req.EcsTaskArn, req.EcsClusterArn)
		if err != nil {
			return nil, err
		}
		return &types.AssignJobResponse{Assignment: assignment}, nil
	})
}

// SubmitResult records the outcome of an assignment.
func (h *Handler) SubmitResult(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		req := &types.SubmitResultRequest{}
		if _, err := apiutils.ParseRequestBody(c.Request, req); err != nil {
			return nil, err
		}
		err := h.service.SubmitResult(c.Request.Context(), &jobservice.SubmitInput{
			AssignmentId:  c.Param(common.AssignmentId),
			Status:        req.Status,
			ResultPayload: req.ResultPayload,
			Metadata:      req.Metadata,
		})
		if err != nil {
			return nil, err
		}
		return gin.H{}, nil
	})
}

// HeartbeatAssignment records a liveness report for a live assignment.
func (h *Handler) HeartbeatAssignment(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		if err := h.service.Heartbeat(c.Request.Context(), c.Param(common.AssignmentId)); err != nil {
			return nil, err
		}
		return gin.H{}, nil
	})
}

// GetJob returns a job with its assignment history and results.
func (h *Handler) GetJob(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		return h.service.Get(c.Request.Context(), c.Param(common.JobId),
			authority.CallerId(c), authority.IsAdminScope(c))
	})
}

// CancelJob cancels a job that has not yet succeeded or failed.
func (h *Handler) CancelJob(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		job, err := h.service.Cancel(c.Request.Context(), c.Param(common.JobId),
			authority.CallerId(c), authority.IsAdminScope(c))
		if err != nil {
			return nil, err
		}
		return &types.CancelJobResponse{Job: job}, nil
	})
}

// DownloadJob presigns the output files of a succeeded job.
func (h *Handler) DownloadJob(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		expiry := storage.DefaultExpiry
		if raw := c.Query("expirySeconds"); raw != "" {
			seconds, err := strconv.Atoi(raw)
			if err != nil || seconds <= 0 {
				return nil, commonerrors.NewBadRequest("expirySeconds must be a positive integer")
			}
			expiry = time.Duration(seconds) * time.Second
		}
		return h.service.Download(c.Request.Context(), c.Param(common.JobId),
			authority.CallerId(c), authority.IsAdminScope(c), expiry)
	})
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return defaultValue
	}
	return val
}
