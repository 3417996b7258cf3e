package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"slotpoll/modules/poll/dto"
	"slotpoll/modules/poll/repository"
	"slotpoll/modules/poll/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) *PollController {
	t.Helper()
	svc := service.NewPollService(repository.NewMemoryEventRepository(), time.UTC, 0)
	return NewPollController(svc)
}

func doJSON(t *testing.T, handler echo.HandlerFunc, method, path, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	for k, v := range params {
		ctx.SetParamNames(k)
		ctx.SetParamValues(v)
	}

	err := handler(ctx)
	if err != nil {
		// Bind failures surface as *echo.HTTPError; render them the way the
		// echo server would.
		e.HTTPErrorHandler(err, ctx)
	}
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Status  int             `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestPollController_CreatePoll(t *testing.T) {
	c := newTestController(t)

	body := `{"title":"Team Sync","start_date":"2026-03-02","end_date":"2026-03-03","start_time":"09:00","end_time":"10:00","slot_minutes":30}`
	rec := doJSON(t, c.CreatePoll, http.MethodPost, "/api/v1/polls", body, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var poll dto.PollResponse
	decodeData(t, rec, &poll)
	assert.NotEmpty(t, poll.ID)
	assert.Equal(t, "Team Sync", poll.Title)
	assert.Equal(t, 2, poll.Grid.SlotsPerDay)
}

func TestPollController_CreatePoll_InvalidInput(t *testing.T) {
	c := newTestController(t)

	body := `{"title":"","start_date":"2026-03-02","end_date":"2026-03-03","start_time":"09:00","end_time":"10:00","slot_minutes":30}`
	rec := doJSON(t, c.CreatePoll, http.MethodPost, "/api/v1/polls", body, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPollController_GetPoll_NotFound(t *testing.T) {
	c := newTestController(t)

	rec := doJSON(t, c.GetPoll, http.MethodGet, "/api/v1/polls/missing", "", map[string]string{"id": "missing"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPollController_SaveAvailability_FractionalSlotsAccepted(t *testing.T) {
	c := newTestController(t)

	create := `{"title":"Team Sync","start_date":"2026-03-02","end_date":"2026-03-03","start_time":"09:00","end_time":"10:00","slot_minutes":30}`
	rec := doJSON(t, c.CreatePoll, http.MethodPost, "/api/v1/polls", create, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var poll dto.PollResponse
	decodeData(t, rec, &poll)

	// Fractional and out-of-range indices must not fail the request; they
	// are dropped at the save boundary.
	save := `{"participant_name":"Alice","slots":[2,1.5,99]}`
	rec = doJSON(t, c.SaveAvailability, http.MethodPut, "/api/v1/polls/"+poll.ID+"/availability", save, map[string]string{"id": poll.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated dto.PollResponse
	decodeData(t, rec, &updated)
	assert.Equal(t, [][]int{{0, 1}, {0, 0}}, updated.Grid.Aggregate)
}

func TestPollController_BestSlots_BadLimit(t *testing.T) {
	c := newTestController(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/polls/x/best?limit=abc", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("x")

	err := c.BestSlots(ctx)
	if err != nil {
		e.HTTPErrorHandler(err, ctx)
	}

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
