package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenai/models"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(Config{BaseURL: srv.URL}), srv
}

// failIfCalled makes any request a test failure, for asserting that
// client-side guards fire before network I/O.
func failIfCalled(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})
}

func TestListJobs_BareArray(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"job_id":"j1","title":"Google - UI/UX Designer","company":"Google"}]`))
	}))
	defer srv.Close()

	jobs, err := c.ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "j1", jobs[0].JobID)
	assert.Equal(t, "Google", jobs[0].Company)
}

func TestListJobs_WrappedShape(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jobs":[{"job_id":"j1"},{"job_id":"j2"}]}`))
	}))
	defer srv.Close()

	jobs, err := c.ListJobs(context.Background())
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestListJobs_UnknownShapeIsEmpty(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":true}`))
	}))
	defer srv.Close()

	jobs, err := c.ListJobs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestUploadResume_PreconditionsBlockNetwork(t *testing.T) {
	c, srv := newTestClient(failIfCalled(t))
	defer srv.Close()

	ctx := context.Background()
	file := strings.NewReader("resume text")

	_, err := c.UploadResume(ctx, "", "123456", "cv.txt", file)
	assert.ErrorIs(t, err, ErrMissingJob)

	tests := []string{"", "12345", "1234567", "12a456", "abcdef"}
	for _, id := range tests {
		_, err = c.UploadResume(ctx, "j1", id, "cv.txt", file)
		assert.ErrorIs(t, err, ErrBadCandidateID, "candidate id %q", id)
	}

	_, err = c.UploadResume(ctx, "j1", "123456", "", nil)
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestUploadResume_SurfacesServerDetail(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"Add correct candidate ID before trying again."}`))
	}))
	defer srv.Close()

	_, err := c.UploadResume(context.Background(), "j1", "123456", "cv.txt", strings.NewReader("text"))
	require.Error(t, err)
	assert.Equal(t, "Add correct candidate ID before trying again.", err.Error())
}

func TestUploadResume_Success(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "j1", r.FormValue("job_id"))
		assert.Equal(t, "123456", r.FormValue("candidate_id"))
		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "cv.txt", hdr.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"candidate_id":"123456","job_id":"j1","analysis":{"accuracy":71.3,"bucket":"frontend"},"message":"Resume analyzed successfully."}`))
	}))
	defer srv.Close()

	out, err := c.UploadResume(context.Background(), "j1", "123456", "cv.txt", strings.NewReader("5 years react"))
	require.NoError(t, err)
	assert.Equal(t, 71.3, out.Analysis.Accuracy)
	assert.Equal(t, "frontend", out.Analysis.Bucket)
}

func TestSubmit_RefetchesRankingsAfterUpload(t *testing.T) {
	var calls []string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/resume/upload_file":
			w.Write([]byte(`{"ok":true,"candidate_id":"123456","job_id":"j1","analysis":{"accuracy":66.0},"message":"Resume analyzed successfully."}`))
		case "/rankings/j1":
			w.Write([]byte(`[{"candidate_id":"123456","score":66.0}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	out, rankings, err := c.Submit(context.Background(), "j1", "123456", "cv.txt", strings.NewReader("text"))

	require.NoError(t, err)
	assert.Equal(t, 66.0, out.Analysis.Accuracy)
	require.Len(t, rankings, 1)
	assert.Equal(t, []string{"/resume/upload_file", "/rankings/j1"}, calls)
}

func TestGenerateCandidateID(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "me@example.com", r.FormValue("email"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"candidate_id":"654321","msg":"Created new"}`))
	}))
	defer srv.Close()

	out, err := c.GenerateCandidateID(context.Background(), "me@example.com")
	require.NoError(t, err)
	assert.Equal(t, "654321", out.CandidateID)
}

func TestRankings_SilentNoOpWithoutIDs(t *testing.T) {
	c, srv := newTestClient(failIfCalled(t))
	defer srv.Close()

	for _, pair := range [][2]string{{"", "123456"}, {"j1", ""}, {"", ""}} {
		got, err := c.Rankings(context.Background(), pair[0], pair[1])
		assert.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestRankings_ScopedFetch(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rankings/j1", r.URL.Path)
		assert.Equal(t, "123456", r.URL.Query().Get("candidate_id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"candidate_id":"123456","score":71.3,"created_at":"2026-08-01T00:00:00Z"}]`))
	}))
	defer srv.Close()

	got, err := c.Rankings(context.Background(), "j1", "123456")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 71.3, got[0].Score)
}

func TestLeaderboard(t *testing.T) {
	var in []models.Ranking
	for i := 0; i < 12; i++ {
		in = append(in, models.Ranking{
			CandidateID: string(rune('a' + i)),
			CreatedAt:   "2026-08-0" + string(rune('1'+i%9)) + "T00:00:00Z",
		})
	}

	out := Leaderboard(in)

	assert.Len(t, out, 8)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].CreatedAt, out[i].CreatedAt)
	}
	// input untouched
	assert.Equal(t, "a", in[0].CandidateID)
}

func TestLeaderboard_ShortInput(t *testing.T) {
	in := []models.Ranking{
		{CandidateID: "old", CreatedAt: "2026-01-01T00:00:00Z"},
		{CandidateID: "new", CreatedAt: "2026-06-01T00:00:00Z"},
	}

	out := Leaderboard(in)

	require.Len(t, out, 2)
	assert.Equal(t, "new", out[0].CandidateID)
}
