package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"screenai/models"
)

// ErrMissingAdminKey blocks admin calls before any request is issued.
var ErrMissingAdminKey = errors.New("admin key is required")

// AdminClient drives the admin console endpoints. The credential is an
// explicit field injected at construction, never read from ambient storage;
// an empty key fails closed on every call.
type AdminClient struct {
	api *Client
	key string
}

func NewAdminClient(api *Client, key string) *AdminClient {
	return &AdminClient{api: api, key: strings.TrimSpace(key)}
}

// JobDraft is the posting form as the admin typed it. MinExpYears stays a
// string here because it arrives from a text field; CreateJob coerces it.
type JobDraft struct {
	Title       string
	Company     string
	Role        string
	Location    string
	JDText      string
	MustHave    []string
	NiceToHave  []string
	MinExpYears string
}

// ParseSkills splits comma-separated skill text. Entries are trimmed,
// empties dropped, order preserved.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}

// CreateJobResult is the server's acknowledgement of a new posting.
type CreateJobResult struct {
	OK    bool   `json:"ok"`
	JobID string `json:"job_id"`
}

// CreateJob publishes a posting. The minimum-experience text is coerced to
// a number so the payload matches what the scorer expects; unparseable
// input is rejected here rather than stored as zero.
func (a *AdminClient) CreateJob(ctx context.Context, draft JobDraft) (CreateJobResult, error) {
	var out CreateJobResult
	if a.key == "" {
		return out, ErrMissingAdminKey
	}

	minExp := 0.0
	if s := strings.TrimSpace(draft.MinExpYears); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return out, fmt.Errorf("minimum experience %q is not a number", draft.MinExpYears)
		}
		minExp = v
	}

	payload := map[string]interface{}{
		"title":         draft.Title,
		"company":       draft.Company,
		"role":          draft.Role,
		"location":      draft.Location,
		"jd_text":       draft.JDText,
		"must_have":     draft.MustHave,
		"nice_to_have":  draft.NiceToHave,
		"min_exp_years": minExp,
	}

	resp, err := a.api.http.R().
		SetContext(ctx).
		SetHeader("X-API-Key", a.key).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/admin/job/create")
	if err != nil {
		return out, fmt.Errorf("create job: %w", err)
	}
	if resp.IsError() {
		return out, surfaceError(resp)
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return out, fmt.Errorf("decode create job response: %w", err)
	}
	return out, nil
}

// UserListing is the admin view of registered candidates.
type UserListing struct {
	OK         bool               `json:"ok"`
	TotalUsers int                `json:"total_users"`
	Users      []models.AdminUser `json:"users"`
}

// ListUsers fetches the registered-candidate roster.
func (a *AdminClient) ListUsers(ctx context.Context) (UserListing, error) {
	var out UserListing
	if a.key == "" {
		return out, ErrMissingAdminKey
	}

	resp, err := a.api.http.R().
		SetContext(ctx).
		SetQueryParam("admin_key", a.key).
		Get("/admin/users")
	if err != nil {
		return out, fmt.Errorf("list users: %w", err)
	}
	if resp.IsError() {
		return out, surfaceError(resp)
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return out, fmt.Errorf("decode user listing: %w", err)
	}
	return out, nil
}
