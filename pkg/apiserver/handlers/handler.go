/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	apiutils "github.com/conveyorworks/conveyor/pkg/apiserver/utils"
	"github.com/conveyorworks/conveyor/pkg/jobservice"
)

// Handler handles HTTP requests for job lifecycle and authentication.
type Handler struct {
	service *jobservice.Service
}

// NewHandler creates a new job handler.
func NewHandler(service *jobservice.Service) *Handler {
	return &Handler{service: service}
}

// handle is a common handler wrapper for HTTP requests.
func handle(c *gin.Context, fn func(c *gin.Context) (interface{}, error)) {
	result, err := fn(c)
	if err != nil {
		klog.ErrorS(err, "handler error", "path", c.Request.URL.Path)
		apiutils.AbortWithApiError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
