/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/conveyorworks/conveyor/pkg/apiserver/handlers"
	apiutils "github.com/conveyorworks/conveyor/pkg/apiserver/utils"
	commonconfig "github.com/conveyorworks/conveyor/pkg/config"
	dbclient "github.com/conveyorworks/conveyor/pkg/database/client"
	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
	"github.com/conveyorworks/conveyor/pkg/jobservice"
	commonklog "github.com/conveyorworks/conveyor/pkg/klog"
	"github.com/conveyorworks/conveyor/pkg/options"
	"github.com/conveyorworks/conveyor/pkg/s3"
	"github.com/conveyorworks/conveyor/pkg/storage"
)

type Server struct {
	opts       *options.Options
	httpServer *http.Server
	sweeper    *jobservice.Sweeper
	ctx        context.Context
	cancelFunc context.CancelFunc
	isInited   bool
}

// NewServer creates and returns a new Server instance.
func NewServer() (*Server, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	s := &Server{
		opts:       &options.Options{},
		ctx:        ctx,
		cancelFunc: cancel,
	}
	if err := s.init(); err != nil {
		cancel()
		return nil, err
	}
	return s, nil
}

// init performs the initial setup of the server including flag parsing,
// logging initialization, configuration loading, and the background
// sweeper setup. It marks the server as initialized.
func (s *Server) init() error {
	gin.SetMode(gin.ReleaseMode)
	var err error
	if err = s.opts.InitFlags(); err != nil {
		klog.ErrorS(err, "failed to parse flags")
		return err
	}
	if err = commonklog.Init(s.opts.LogfilePath, s.opts.LogFileSize); err != nil {
		klog.ErrorS(err, "failed to init logs")
		return err
	}
	if err = s.initConfig(); err != nil {
		klog.ErrorS(err, "failed to init config")
		return err
	}
	database := dbclient.NewClient()
	if database == nil {
		return commonerrors.NewInternalError("failed to init db client")
	}
	s.sweeper = jobservice.NewSweeper(s.ctx, database)
	s.isInited = true
	return nil
}

// Start begins the server operation by starting the HTTP server and the
// job sweeper in separate goroutines. It waits for a signal to stop and
// then calls Stop to shut down services.
func (s *Server) Start() {
	if !s.isInited {
		klog.Errorf("please init api-server first")
		return
	}
	gin.EnableJsonDecoderDisallowUnknownFields()

	klog.Infof("starting api-server")
	go func() {
		if err := s.startHttpServer(); err != nil && err != http.ErrServerClosed {
			klog.ErrorS(err, "failed to start http-server")
			os.Exit(-1)
		}
	}()

	go s.sweeper.Start()

	<-s.ctx.Done()
	s.Stop()
}

// Stop gracefully shuts down the HTTP server and the sweeper.
// It cancels the context and flushes logs before exiting.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	klog.Info("shutting down http server...")
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			klog.ErrorS(err, "failed to shutdown httpserver")
		}
	}
	s.sweeper.Stop()
	s.cancelFunc()
	klog.Info("apiserver is stopped")
	klog.Flush()
}

// initConfig loads the server configuration from the specified config file path.
func (s *Server) initConfig() error {
	fullPath, err := filepath.Abs(s.opts.Config)
	if err != nil {
		return err
	}
	if err = commonconfig.LoadConfig(fullPath); err != nil {
		return fmt.Errorf("config path: %s, err: %v", fullPath, err)
	}
	return nil
}

// startHttpServer initializes and starts the HTTP server.
// It sets up the HTTP handlers, configures the server address based on the
// configured port, and starts listening for HTTP requests.
func (s *Server) startHttpServer() error {
	if commonconfig.GetServerPort() <= 0 {
		return fmt.Errorf("the apiserver port is not defined")
	}
	s3Client, err := s3.NewClient(s.ctx)
	if err != nil {
		return err
	}
	service := jobservice.NewService(dbclient.NewClient(), storage.NewLocator(s3Client))

	engine := gin.New()
	engine.Use(apiutils.Logger(), gin.Recovery())
	handlers.InitRouters(engine, handlers.NewHandler(service))

	addr := fmt.Sprintf(":%d", commonconfig.GetServerPort())
	s.httpServer = &http.Server{Addr: addr, Handler: engine}
	klog.Infof("http-server listen port: %d", commonconfig.GetServerPort())
	if err = s.httpServer.ListenAndServe(); err != nil {
		return err
	}
	return nil
}
