package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"screenai/payment"
)

// SendDetails submits the resume-creation profile, with the payment proof
// attached when one was captured. It implements payment.Submitter and is
// only ever called by the flow after an affirmative confirmation.
func (c *Client) SendDetails(ctx context.Context, p payment.Profile) error {
	fields := map[string]string{
		"name":         p.Name,
		"email":        p.Email,
		"phone":        p.Phone,
		"senderNumber": p.SenderNumber,
		"role":         p.Role,
		"skills":       p.Skills,
		"projects":     p.Projects,
		"achievements": p.Achievements,
	}

	req := c.http.R().SetContext(ctx).SetFormData(fields)
	if len(p.Proof) > 0 {
		req.SetFileReader("paymentProof", p.ProofName, bytes.NewReader(p.Proof))
	}

	resp, err := req.Post("/api/save")
	if err != nil {
		return fmt.Errorf("send details: %w", err)
	}
	if resp.IsError() {
		return surfaceError(resp)
	}

	var out struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return fmt.Errorf("decode save response: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("server did not accept the details")
	}
	return nil
}
