/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package authclient

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	commonerrors "github.com/conveyorworks/conveyor/pkg/errors"
	"github.com/conveyorworks/conveyor/pkg/utils/httpclient"
)

type fakeHttp struct {
	mu           sync.Mutex
	loginCount   int
	refreshCount int
	loginFail    bool
	refreshFail  bool
	accessTTL    time.Duration
	getResponses map[string]string
}

func (f *fakeHttp) Get(url string, headers ...string) (*httpclient.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for path, body := range f.getResponses {
		if strings.HasSuffix(url, path) {
			return &httpclient.Result{StatusCode: 200, Body: []byte(body)}, nil
		}
	}
	return &httpclient.Result{StatusCode: 404, Body: []byte(`{}`)}, nil
}

func (f *fakeHttp) Post(url string, body interface{}, headers ...string) (*httpclient.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case strings.HasSuffix(url, loginPath):
		f.loginCount++
		if f.loginFail {
			return &httpclient.Result{StatusCode: 401, Body: []byte(`{"errorCode":"Conveyor.02001"}`)}, nil
		}
		return f.tokenResponse()
	case strings.HasSuffix(url, refreshPath):
		f.refreshCount++
		if f.refreshFail {
			return &httpclient.Result{StatusCode: 401, Body: []byte(`{"errorCode":"Conveyor.02002"}`)}, nil
		}
		return f.tokenResponse()
	}
	return &httpclient.Result{StatusCode: 200, Body: []byte(`{}`)}, nil
}

func (f *fakeHttp) Put(url string, body interface{}, headers ...string) (*httpclient.Result, error) {
	return &httpclient.Result{StatusCode: 200, Body: []byte(`{}`)}, nil
}

func (f *fakeHttp) Delete(url string, headers ...string) (*httpclient.Result, error) {
	return &httpclient.Result{StatusCode: 200, Body: []byte(`{}`)}, nil
}

func (f *fakeHttp) Do(req *http.Request) (*httpclient.Result, error) {
	return &httpclient.Result{StatusCode: 200, Body: []byte(`{}`)}, nil
}

func (f *fakeHttp) tokenResponse() (*httpclient.Result, error) {
	ttl := f.accessTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	body, _ := json.Marshal(map[string]string{
		"accessToken":  signedToken(ttl),
		"refreshToken": signedToken(7 * 24 * time.Hour),
	})
	return &httpclient.Result{StatusCode: 200, Body: body}, nil
}

func signedToken(ttl time.Duration) string {
	claims := jwt.RegisteredClaims{
		Subject:   "worker@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	return token
}

func newTestClient(fake *fakeHttp) *Client {
	c, _ := NewClient("http://server:8080", "worker@example.com", "hunter2")
	c.http = fake
	return c
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", "a@b.c", "pw")
	assert.Error(t, err)
	_, err = NewClient("http://server", "", "pw")
	assert.Error(t, err)
}

func TestFirstCallLogsIn(t *testing.T) {
	fake := &fakeHttp{getResponses: map[string]string{"/api/jobs/poll": `{"jobs":[]}`}}
	c := newTestClient(fake)

	var out struct {
		Jobs []json.RawMessage `json:"jobs"`
	}
	assert.NoError(t, c.Get("/api/jobs/poll", &out))
	assert.Equal(t, 1, fake.loginCount)
	assert.Equal(t, 0, fake.refreshCount)

	// second call reuses the still-fresh token
	assert.NoError(t, c.Get("/api/jobs/poll", &out))
	assert.Equal(t, 1, fake.loginCount)
}

func TestExpiringTokenTriggersRefresh(t *testing.T) {
	fake := &fakeHttp{
		accessTTL:    30 * time.Second, // inside the 60s threshold
		getResponses: map[string]string{"/api/jobs/poll": `{"jobs":[]}`},
	}
	c := newTestClient(fake)

	var out struct {
		Jobs []json.RawMessage `json:"jobs"`
	}
	assert.NoError(t, c.Get("/api/jobs/poll", &out))
	assert.Equal(t, 1, fake.loginCount)

	// the cached token already sits inside the threshold, so the next call
	// refreshes instead of reusing it
	assert.NoError(t, c.Get("/api/jobs/poll", &out))
	assert.Equal(t, 1, fake.refreshCount)
	assert.Equal(t, 1, fake.loginCount)
}

func TestRefreshFailureFallsBackToLogin(t *testing.T) {
	fake := &fakeHttp{
		accessTTL:    30 * time.Second,
		refreshFail:  true,
		getResponses: map[string]string{"/api/jobs/poll": `{"jobs":[]}`},
	}
	c := newTestClient(fake)

	var out struct {
		Jobs []json.RawMessage `json:"jobs"`
	}
	assert.NoError(t, c.Get("/api/jobs/poll", &out))
	assert.NoError(t, c.Get("/api/jobs/poll", &out))
	assert.Equal(t, 1, fake.refreshCount)
	assert.Equal(t, 2, fake.loginCount)
}

func TestLoginFailureSurfaces(t *testing.T) {
	fake := &fakeHttp{loginFail: true}
	c := newTestClient(fake)

	err := c.Get("/api/jobs/poll", nil)
	assert.Error(t, err)
	assert.True(t, commonerrors.IsUnauthorized(err))
	assert.Equal(t, 1, fake.loginCount)
}

func TestSingleFlightRefresh(t *testing.T) {
	fake := &fakeHttp{getResponses: map[string]string{"/api/jobs/poll": `{"jobs":[]}`}}
	c := newTestClient(fake)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out struct {
				Jobs []json.RawMessage `json:"jobs"`
			}
			assert.NoError(t, c.Get("/api/jobs/poll", &out))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, fake.loginCount)
}

func TestExpiringSoon(t *testing.T) {
	assert.True(t, expiringSoon("garbage", refreshThreshold))
	assert.True(t, expiringSoon(signedToken(10*time.Second), refreshThreshold))
	assert.False(t, expiringSoon(signedToken(time.Hour), refreshThreshold))
}
