// Package services provides the benchmark service for QBench API operations.
//
// This file implements the BenchmarkService which submits a circuit and a list
// of simulator ids to the remote benchmark endpoint and decodes the per-backend
// result list it answers with. The service performs a single request/response
// exchange; it does not interpret the results beyond decoding them.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"qbench/models"
)

// RunBenchmarkPath is the endpoint that runs a circuit on the requested simulators
const RunBenchmarkPath = "/api/run-benchmark"

type BenchmarkService struct {
	client ClientInterface
}

func NewBenchmarkService(client ClientInterface) *BenchmarkService {
	return &BenchmarkService{
		client: client,
	}
}

// Run submits the circuit and returns the results in the order the service sent them
func (s *BenchmarkService) Run(ctx context.Context, req *models.BenchmarkRequest) ([]*models.BackendResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	op := "POST " + RunBenchmarkPath
	httpReq, err := s.client.NewRequest(ctx, http.MethodPost, RunBenchmarkPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(bodyBytes)}
	}

	return DecodeResults(bodyBytes)
}

// DecodeResults parses a response body into a result list. The body must be a
// JSON array and every entry must name its backend.
func DecodeResults(data []byte) ([]*models.BackendResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &DecodeError{Reason: "empty body"}
	}
	if trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, &DecodeError{Reason: "body is not valid JSON"}
		}
		return nil, &DecodeError{Reason: "expected a JSON array"}
	}

	var results []*models.BackendResult
	if err := json.Unmarshal(trimmed, &results); err != nil {
		return nil, &DecodeError{Reason: "malformed result list", Err: err}
	}

	for i, r := range results {
		if r == nil {
			return nil, &DecodeError{Reason: fmt.Sprintf("entry %d is null", i)}
		}
		if r.Backend == "" {
			return nil, &DecodeError{Reason: fmt.Sprintf("entry %d has no backend", i)}
		}
	}

	return results, nil
}

// errorMessage extracts {"error": "..."} from an error body, falling back to the raw text
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	msg := string(bytes.TrimSpace(body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return msg
}
