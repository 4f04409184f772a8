/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/conveyorworks/conveyor/pkg/apiserver/authority"
	"github.com/conveyorworks/conveyor/pkg/apiserver/handlers/types"
	apiutils "github.com/conveyorworks/conveyor/pkg/apiserver/utils"
	"github.com/conveyorworks/conveyor/pkg/common"
	commonconfig "github.com/conveyorworks/conveyor/pkg/config"
)

// Login exchanges the configured service-account credentials for a token
// pair.
func (h *Handler) Login(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		req := &types.LoginRequest{}
		if _, err := apiutils.ParseRequestBody(c.Request, req); err != nil {
			return nil, err
		}
		if err := authority.ValidateCredentials(req.Email, req.Password); err != nil {
			return nil, err
		}
		return authority.GenerateTokenPair(commonconfig.GetAuthEmail(), common.UserTypeWorker)
	})
}

// Refresh rotates a token pair given a valid refresh token.
func (h *Handler) Refresh(c *gin.Context) {
	handle(c, func(c *gin.Context) (interface{}, error) {
		req := &types.RefreshRequest{}
		if _, err := apiutils.ParseRequestBody(c.Request, req); err != nil {
			return nil, err
		}
		claims, err := authority.ParseRefreshToken(req.RefreshToken)
		if err != nil {
			return nil, err
		}
		return authority.GenerateTokenPair(claims.UserId, claims.UserType)
	})
}

// Healthz is the unauthenticated liveness probe.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
