// Package client is the Go front end for the screening API. It wraps the
// HTTP surface in typed calls and keeps the validation that must happen
// before any bytes hit the wire (candidate IDs, admin credentials, upload
// preconditions) on this side of the connection.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"screenai/models"
	"screenai/utils"
)

var (
	ErrMissingJob     = errors.New("job must be selected before upload")
	ErrBadCandidateID = errors.New("candidate id must be exactly 6 digits")
	ErrMissingFile    = errors.New("no resume file provided")
)

var candidateIDRe = regexp.MustCompile(`^\d{6}$`)

// Config for the API client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the screening server.
type Client struct {
	http    *resty.Client
	session *SessionTracker
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &Client{http: cli, session: NewSessionTracker()}
}

// Session exposes the tracker the views read to decide what to render.
func (c *Client) Session() *SessionTracker {
	return c.session
}

// detailPayload is the error envelope the screening endpoints return.
type detailPayload struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// surfaceError extracts the server's own wording from a non-2xx response so
// the caller can show it verbatim; it falls back to a generic message when
// the body carries neither detail nor message.
func surfaceError(resp *resty.Response) error {
	var payload detailPayload
	if err := json.Unmarshal(resp.Body(), &payload); err == nil {
		if payload.Detail != "" {
			return errors.New(payload.Detail)
		}
		if payload.Message != "" {
			return errors.New(payload.Message)
		}
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode())
}

// ListJobs fetches the job directory. The server returns a bare array, but
// older deployments wrapped it in {"jobs": [...]}; both shapes normalize to
// a slice. Anything else normalizes to an empty directory rather than an
// error, so a malformed payload never blanks the whole page.
func (c *Client) ListJobs(ctx context.Context) ([]models.Job, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/jobs")
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	if resp.IsError() {
		return []models.Job{}, nil
	}

	body := resp.Body()

	var jobs []models.Job
	if err := json.Unmarshal(body, &jobs); err == nil {
		return jobs, nil
	}

	var wrapped struct {
		Jobs []models.Job `json:"jobs"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Jobs != nil {
		return wrapped.Jobs, nil
	}

	utils.LogWarn("unrecognized jobs payload shape, treating as empty")
	return []models.Job{}, nil
}

// CandidateIDResult is the response to a candidate ID request.
type CandidateIDResult struct {
	CandidateID string `json:"candidate_id"`
	Message     string `json:"message"`
}

// GenerateCandidateID asks the server for the candidate's screening ID.
// The call is idempotent per email: an existing ID comes back unchanged.
func (c *Client) GenerateCandidateID(ctx context.Context, email string) (CandidateIDResult, error) {
	var out CandidateIDResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"email": email}).
		Post("/generate_candidate_id")
	if err != nil {
		return out, fmt.Errorf("generate candidate id: %w", err)
	}
	if resp.IsError() {
		return out, surfaceError(resp)
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return out, fmt.Errorf("decode candidate id response: %w", err)
	}
	return out, nil
}

// UploadResult is the analysis returned for an accepted resume.
type UploadResult struct {
	CandidateID string          `json:"candidate_id"`
	JobID       string          `json:"job_id"`
	Analysis    models.Analysis `json:"analysis"`
	Message     string          `json:"message"`
}

// UploadResume submits a resume for scoring. Preconditions are checked
// before any network I/O: a job must be chosen, the candidate ID must be
// exactly six digits, and the file must be present.
func (c *Client) UploadResume(ctx context.Context, jobID, candidateID, filename string, file io.Reader) (UploadResult, error) {
	var out UploadResult
	if strings.TrimSpace(jobID) == "" {
		return out, ErrMissingJob
	}
	if !candidateIDRe.MatchString(candidateID) {
		return out, ErrBadCandidateID
	}
	if file == nil || strings.TrimSpace(filename) == "" {
		return out, ErrMissingFile
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, file).
		SetFormData(map[string]string{
			"job_id":       jobID,
			"candidate_id": candidateID,
		}).
		Post("/resume/upload_file")
	if err != nil {
		return out, fmt.Errorf("upload resume: %w", err)
	}
	if resp.IsError() {
		return out, surfaceError(resp)
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return out, fmt.Errorf("decode upload response: %w", err)
	}
	return out, nil
}

// Submit uploads a resume and, on success, immediately re-fetches the
// candidate's rankings for that job so the dashboard reflects the new score.
// A rankings fetch failure after a successful upload is logged, not fatal:
// the analysis already happened.
func (c *Client) Submit(ctx context.Context, jobID, candidateID, filename string, file io.Reader) (UploadResult, []models.Ranking, error) {
	out, err := c.UploadResume(ctx, jobID, candidateID, filename, file)
	if err != nil {
		return out, nil, err
	}

	rankings, err := c.Rankings(ctx, jobID, candidateID)
	if err != nil {
		utils.LogWarn("rankings refresh after upload failed", map[string]string{"job_id": jobID})
		return out, nil, nil
	}
	return out, rankings, nil
}

// Rankings fetches the candidate's rows for a job. When either id is
// missing there is nothing meaningful to ask for, so the call is a silent
// no-op rather than a guaranteed 4xx round trip.
func (c *Client) Rankings(ctx context.Context, jobID, candidateID string) ([]models.Ranking, error) {
	if strings.TrimSpace(jobID) == "" || strings.TrimSpace(candidateID) == "" {
		return nil, nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("candidate_id", candidateID).
		Get("/rankings/" + jobID)
	if err != nil {
		utils.LogWarn("rankings fetch failed", map[string]string{"job_id": jobID})
		return nil, fmt.Errorf("fetch rankings: %w", err)
	}
	if resp.IsError() {
		return nil, surfaceError(resp)
	}

	var rankings []models.Ranking
	if err := json.Unmarshal(resp.Body(), &rankings); err != nil {
		return nil, fmt.Errorf("decode rankings: %w", err)
	}
	return rankings, nil
}

// AllRankings fetches the global submission feed, newest first.
func (c *Client) AllRankings(ctx context.Context) ([]models.Ranking, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/rankings")
	if err != nil {
		return nil, fmt.Errorf("fetch all rankings: %w", err)
	}
	if resp.IsError() {
		return nil, surfaceError(resp)
	}

	var rankings []models.Ranking
	if err := json.Unmarshal(resp.Body(), &rankings); err != nil {
		return nil, fmt.Errorf("decode rankings: %w", err)
	}
	return rankings, nil
}

const leaderboardSize = 8

// Leaderboard orders rankings newest first and keeps the top 8 for the
// home-page strip. The input slice is not modified.
func Leaderboard(rankings []models.Ranking) []models.Ranking {
	out := make([]models.Ranking, len(rankings))
	copy(out, rankings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if len(out) > leaderboardSize {
		out = out[:leaderboardSize]
	}
	return out
}
