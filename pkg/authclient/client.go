/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package authclient

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"k8s.io/klog/v2"

	"github.com/conveyorworks/conveyor/pkg/common"
	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
	"github.com/conveyorworks/conveyor/pkg/utils/httpclient"
)

// refreshThreshold is how close to expiry an access token may get before
// the client proactively refreshes it.
const refreshThreshold = 60 * time.Second

const (
	loginPath   = "/api/auth/login"
	refreshPath = "/api/auth/refresh"
)

// Client is the authenticated HTTP helper used by the capacity manager
// and by worker binaries. It transparently keeps the access token fresh:
// refresh first, full login as fallback. Safe for concurrent use; only
// one refresh is in flight at a time.
type Client struct {
	endpoint string
	email    string
	password string
	http     httpclient.Interface

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// NewClient creates a Client for the given API endpoint and service
// account credentials. No network call is made until the first request.
func NewClient(endpoint, email, password string) (*Client, error) {
	if endpoint == "" || email == "" || password == "" {
		return nil, commonerrors.NewBadRequest("endpoint, email and password are required")
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		email:    email,
		password: password,
		http:     httpclient.NewHttpClient(),
	}, nil
}

// Get performs an authenticated GET against the API.
func (c *Client) Get(path string, out interface{}) error {
	token, err := c.ensureToken()
	if err != nil {
		return err
	}
	result, err := c.http.Get(c.endpoint+path, common.AuthorizationHeader, common.BearerPrefix+token)
	if err != nil {
		return err
	}
	return decodeResult(result, out)
}

// Post performs an authenticated POST against the API.
func (c *Client) Post(path string, body, out interface{}) error {
	token, err := c.ensureToken()
	if err != nil {
		return err
	}
	result, err := c.http.Post(c.endpoint+path, body, common.AuthorizationHeader, common.BearerPrefix+token)
	if err != nil {
		return err
	}
	return decodeResult(result, out)
}

// ensureToken returns a usable access token, refreshing or re-logging-in
// under the lock when the current one expires within the threshold.
func (c *Client) ensureToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && !expiringSoon(c.accessToken, refreshThreshold) {
		return c.accessToken, nil
	}
	if c.refreshToken != "" {
		if err := c.refresh(); err == nil {
			return c.accessToken, nil
		} else {
			klog.Warningf("token refresh failed, falling back to login: %v", err)
		}
	}
	if err := c.login(); err != nil {
		return "", err
	}
	return c.accessToken, nil
}

// login exchanges credentials for a token pair. Both auth endpoints skip
// the bearer header.
func (c *Client) login() error {
	body := map[string]string{"email": c.email, "password": c.password}
	result, err := c.http.Post(c.endpoint+loginPath, body)
	if err != nil {
		return commonerrors.NewLoginFailed(err.Error())
	}
	if !result.IsSuccess() {
		return commonerrors.NewLoginFailed(fmt.Sprintf("login returned %d: %s", result.StatusCode, string(result.Body)))
	}
	return c.storeTokens(result.Body)
}

func (c *Client) refresh() error {
	body := map[string]string{"refreshToken": c.refreshToken}
	result, err := c.http.Post(c.endpoint+refreshPath, body)
	if err != nil {
		return err
	}
	if !result.IsSuccess() {
		return commonerrors.NewInvalidRefresh(fmt.Sprintf("refresh returned %d: %s", result.StatusCode, string(result.Body)))
	}
	return c.storeTokens(result.Body)
}

func (c *Client) storeTokens(body []byte) error {
	pair := &tokenPair{}
	if err := json.Unmarshal(body, pair); err != nil {
		return commonerrors.NewLoginFailed(fmt.Sprintf("malformed token response: %v", err))
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return commonerrors.NewLoginFailed("token response is missing tokens")
	}
	c.accessToken = pair.AccessToken
	c.refreshToken = pair.RefreshToken
	return nil
}

// expiringSoon inspects the token's exp claim without verifying the
// signature; the server is the authority, the client only schedules its
// own refreshes.
func expiringSoon(token string, threshold time.Duration) bool {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return time.Until(exp.Time) < threshold
}

func decodeResult(result *httpclient.Result, out interface{}) error {
	if !result.IsSuccess() {
		return fmt.Errorf("request failed with %d: %s", result.StatusCode, string(result.Body))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(result.Body, out); err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}
