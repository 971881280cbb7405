//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/2beens/fitgam/internal/auth"
	"github.com/2beens/fitgam/internal/forms"
	"github.com/2beens/fitgam/internal/store"

	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path, token string, body any) (int, []byte) {
	t := s.T()

	var reqBody io.Reader
	if body != nil {
		bodyJSON, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(bodyJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) loginDemo(ctx context.Context, t *testing.T) auth.Session {
	status, respBytes := s.doRequest(ctx, http.MethodPost, "/a/login", "", forms.LoginForm{
		Email:    store.DemoUserEmail,
		Password: testDemoPassword,
	})
	require.Equal(t, http.StatusOK, status, string(respBytes))

	var session auth.Session
	require.NoError(t, json.Unmarshal(respBytes, &session))
	require.NotEmpty(t, session.Token)
	return session
}
