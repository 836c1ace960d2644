package oura

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest captures the parts of an upstream request the tests
// assert on.
type recordedRequest struct {
	path          string
	query         map[string]string
	authorization string
	contentType   string
}

// newFakeUpstream returns a client pointed at an httptest server that
// replies with the given status and body, recording each request.
func newFakeUpstream(t *testing.T, status int, body string) (*Client, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			path:          r.URL.Path,
			query:         map[string]string{},
			authorization: r.Header.Get("Authorization"),
			contentType:   r.Header.Get("Content-Type"),
		}
		for k := range r.URL.Query() {
			rec.query[k] = r.URL.Query().Get(k)
		}
		requests = append(requests, rec)

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return NewClient("test-token", Config{BaseURL: srv.URL}), &requests
}

func TestClientExplicitRange(t *testing.T) {
	client, requests := newFakeUpstream(t, http.StatusOK, `{"data":[],"next_token":null}`)

	r := DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
	}
	_, err := client.GetDailyActivity(context.Background(), r)
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "/usercollection/daily_activity", req.path)
	assert.Equal(t, "2024-01-01", req.query["start_date"])
	assert.Equal(t, "2024-01-07", req.query["end_date"])
	assert.Equal(t, "Bearer test-token", req.authorization)
	assert.Equal(t, "application/json", req.contentType)
}

func TestClientDefaultWindow(t *testing.T) {
	client, requests := newFakeUpstream(t, http.StatusOK, `{"data":[],"next_token":null}`)
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	_, err := client.GetDailySleep(context.Background(), DateRange{})
	require.NoError(t, err)

	req := (*requests)[0]
	assert.Equal(t, "2024-03-14", req.query["start_date"])
	assert.Equal(t, "2024-03-15", req.query["end_date"])
}

func TestClientWorkoutsDefaultWindowIsSevenDays(t *testing.T) {
	client, requests := newFakeUpstream(t, http.StatusOK, `{"data":[],"next_token":null}`)
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	_, err := client.GetWorkouts(context.Background(), DateRange{})
	require.NoError(t, err)

	req := (*requests)[0]
	assert.Equal(t, "/usercollection/workout", req.path)
	assert.Equal(t, "2024-03-08", req.query["start_date"])
	assert.Equal(t, "2024-03-15", req.query["end_date"])
}

func TestClientPartialRangeResolvesBothBounds(t *testing.T) {
	// A range with only one bound set is treated the same as no range
	// at all: both bounds come from the default window.
	client, requests := newFakeUpstream(t, http.StatusOK, `{"data":[],"next_token":null}`)
	now := time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	_, err := client.GetDailyReadiness(context.Background(), DateRange{
		Start: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	req := (*requests)[0]
	assert.Equal(t, "2024-06-01", req.query["start_date"])
	assert.Equal(t, "2024-06-02", req.query["end_date"])
}

func TestClientPayloadForwardedVerbatim(t *testing.T) {
	body := `{"data":[{"id":"a1","score":82},{"id":"a2","score":91}],"next_token":"page2"}`
	client, _ := newFakeUpstream(t, http.StatusOK, body)

	resp, err := client.GetDailyReadiness(context.Background(), DateRange{})
	require.NoError(t, err)

	require.Len(t, resp.Data, 2)
	assert.JSONEq(t, `{"id":"a1","score":82}`, string(resp.Data[0]))
	require.NotNil(t, resp.NextToken)
	assert.Equal(t, "page2", *resp.NextToken)
}

func TestClientClassifiesFailure(t *testing.T) {
	client, _ := newFakeUpstream(t, http.StatusUnauthorized, `{"detail":"revoked"}`)

	_, err := client.GetDailyActivity(context.Background(), DateRange{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindUnauthorized, apiErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.JSONEq(t, `{"detail":"revoked"}`, string(apiErr.Body))
}

func TestClientServerErrorPreservesStatus(t *testing.T) {
	client, _ := newFakeUpstream(t, http.StatusBadGateway, "bad gateway")

	_, err := client.GetDailyStress(context.Background(), DateRange{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindServerError, apiErr.Kind)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestClientPersonalInfo(t *testing.T) {
	body := `{"id":"u-1","age":31,"weight":70.5,"height":1.8,"biological_sex":"female","email":"user@example.com"}`
	client, requests := newFakeUpstream(t, http.StatusOK, body)

	info, err := client.GetPersonalInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", info.Email)
	assert.Equal(t, 31, info.Age)

	req := (*requests)[0]
	assert.Equal(t, "/usercollection/personal_info", req.path)
	assert.Empty(t, req.query)
}

func TestClientNoRetries(t *testing.T) {
	client, requests := newFakeUpstream(t, http.StatusTooManyRequests, "")

	_, err := client.GetDailySpO2(context.Background(), DateRange{})
	require.Error(t, err)
	assert.Len(t, *requests, 1)
}

func TestClientDecodeError(t *testing.T) {
	client, _ := newFakeUpstream(t, http.StatusOK, "{not json")

	_, err := client.GetDailyActivity(context.Background(), DateRange{})
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "decode failures are not APIErrors")
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := NewClient("tok", Config{BaseURL: srv.URL})
	_, err := client.GetDailyActivity(context.Background(), DateRange{})
	require.Error(t, err)
}

func TestListResponseNullToken(t *testing.T) {
	var resp ListResponse
	require.NoError(t, json.Unmarshal([]byte(`{"data":[],"next_token":null}`), &resp))
	assert.Nil(t, resp.NextToken)
}
