/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package types

import (
	"encoding/json"

	dbclient "github.com/conveyorworks/conveyor/pkg/database/client"
	"github.com/conveyorworks/conveyor/pkg/jobservice"
)

type CreateJobRequest struct {
	Type         string          `json:"type"`
	InputPayload json.RawMessage `json:"inputPayload"`
}

type CreateJobResponse struct {
	JobId     string `json:"jobId"`
	RequestId string `json:"requestId"`
	Cached    bool   `json:"cached"`
}

type ListJobsResponse struct {
	Jobs  []*dbclient.Job `json:"jobs"`
	Total int             `json:"total"`
}

type PollJobsResponse struct {
	Jobs []*dbclient.Job `json:"jobs"`
}

type ListJobRequestsResponse struct {
	Requests []*dbclient.JobRequest `json:"requests"`
	Total    int                    `json:"total"`
}

type AssignJobRequest struct {
	JobId         string `json:"jobId"`
	EcsTaskArn    string `json:"ecsTaskArn"`
	EcsClusterArn string `json:"ecsClusterArn"`
}

type AssignJobResponse struct {
	Assignment *dbclient.JobAssignment `json:"assignment"`
}

type SubmitResultRequest struct {
	Status        string          `json:"status"`
	ResultPayload json.RawMessage `json:"resultPayload,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
}

type CancelJobResponse struct {
	Job *dbclient.Job `json:"job"`
}

type DownloadJobResponse = jobservice.DownloadResult

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
