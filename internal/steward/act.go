package steward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ApplyRequest is the payload for POST /api/v1/interventions.
type ApplyRequest struct {
	ID     string `json:"id"`
	Target *int   `json:"target,omitempty"`
}

// ApplyResult is the response from POST /api/v1/interventions.
type ApplyResult struct {
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Day        int    `json:"day"`
	Remaining  int    `json:"remaining"`
}

// Act sends the decided intervention to the admin endpoint.
func (r *Remote) Act(ctx context.Context, d *Decision) error {
	if d.Action != ActionApply {
		return nil
	}

	body, err := json.Marshal(ApplyRequest{ID: d.InterventionID, Target: d.Target})
	if err != nil {
		return fmt.Errorf("marshal intervention: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/api/v1/interventions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.AdminKey)

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST intervention: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var result ApplyResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("intervention failed (%d): %s", resp.StatusCode, string(respBody))
	}
	if resp.StatusCode != http.StatusOK || !result.Success {
		return fmt.Errorf("intervention %s failed (%d): %s", d.InterventionID, resp.StatusCode, result.Error)
	}
	return nil
}
