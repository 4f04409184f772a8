/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/conveyorworks/conveyor/pkg/apiserver/authority"
	apiutils "github.com/conveyorworks/conveyor/pkg/apiserver/utils"
	"github.com/conveyorworks/conveyor/pkg/common"
	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
)

// InitRouters initializes and registers all API routes with the Gin engine.
// It sets up two route groups: authenticated job routes and public auth
// routes.
func InitRouters(e *gin.Engine, h *Handler) {
	e.NoRoute(func(c *gin.Context) {
		apiutils.AbortWithApiError(c, commonerrors.NewNotFoundWithMessage(c.Request.RequestURI+" not found"))
	})

	// Job API requires authentication.
	group := e.Group(common.ConveyorRouterRootPath, authority.Authorize())
	{
		group.POST("jobs", h.CreateJob)
		group.GET("jobs", h.ListJobs)
		group.GET("requests", h.ListRequests)
		group.GET("jobs/poll", h.PollJobs)
		group.POST("jobs/assign", h.AssignJob)
		group.POST(fmt.Sprintf("jobs/assignments/:%s/result", common.AssignmentId), h.SubmitResult)
		group.POST(fmt.Sprintf("jobs/assignments/:%s/heartbeat", common.AssignmentId), h.HeartbeatAssignment)
		group.GET(fmt.Sprintf("jobs/:%s", common.JobId), h.GetJob)
		group.POST(fmt.Sprintf("jobs/:%s/cancel", common.JobId), h.CancelJob)
		group.GET(fmt.Sprintf("jobs/:%s/download", common.JobId), h.DownloadJob)
	}

	// Auth API without authentication.
	noAuthGroup := e.Group(common.ConveyorRouterRootPath)
	{
		noAuthGroup.POST("auth/login", h.Login)
		noAuthGroup.POST("auth/refresh", h.Refresh)
	}

	e.GET("/healthz", h.Healthz)
}
