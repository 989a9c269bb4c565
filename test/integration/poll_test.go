package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

type pollPayload struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	OwnerID string `json:"owner_id"`
	Options []struct {
		ID       string `json:"id"`
		Text     string `json:"text"`
		Position int    `json:"position"`
	} `json:"options"`
}

func (app *TestApp) doJSON(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req, err := http.NewRequest(method, app.Server.URL+path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) apiResponse {
	t.Helper()
	defer resp.Body.Close()
	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (app *TestApp) createPoll(t *testing.T, token string, title string, options []string) pollPayload {
	t.Helper()

	resp := app.doJSON(t, http.MethodPost, "/api/polls", token, map[string]any{
		"title":       title,
		"description": "An integration flow fixture poll",
		"options":     options,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decodeResponse(t, resp)
	require.True(t, out.Success)

	var poll pollPayload
	require.NoError(t, json.Unmarshal(out.Data, &poll))
	return poll
}

func TestPollLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	token := app.createUserAndToken(t)

	// Create
	poll := app.createPoll(t, token, "Lifecycle Poll", []string{"Option A", "Option B"})
	require.Len(t, poll.Options, 2)
	assert.Equal(t, 0, poll.Options[0].Position)
	assert.Equal(t, 1, poll.Options[1].Position)

	// Get
	resp := app.doJSON(t, http.MethodGet, "/api/polls/"+poll.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeResponse(t, resp)
	var fetched pollPayload
	require.NoError(t, json.Unmarshal(out.Data, &fetched))
	assert.Equal(t, "Lifecycle Poll", fetched.Title)

	// Update through the stored function path
	resp = app.doJSON(t, http.MethodPut, "/api/polls/"+poll.ID, token, map[string]any{
		"title":       "Lifecycle Poll Updated",
		"description": "An integration flow fixture poll",
		"options":     []string{"Option A", "Option B", "Option C"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out = decodeResponse(t, resp)
	var updated pollPayload
	require.NoError(t, json.Unmarshal(out.Data, &updated))
	assert.Equal(t, "Lifecycle Poll Updated", updated.Title)
	assert.Len(t, updated.Options, 3)

	// Delete
	resp = app.doJSON(t, http.MethodDelete, "/api/polls/"+poll.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, http.MethodGet, "/api/polls/"+poll.ID, "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	var optionCount int
	require.NoError(t, app.DB.QueryRow("SELECT COUNT(*) FROM poll_options").Scan(&optionCount))
	assert.Zero(t, optionCount, "options are removed with the poll")
}

func TestPollUpdateFallsBackWithoutStoredFunction(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	token := app.createUserAndToken(t)
	poll := app.createPoll(t, token, "Fallback Poll", []string{"Yes", "No"})

	_, err := app.DB.Exec("DROP FUNCTION update_poll_with_options(uuid, text, text, boolean, boolean, jsonb)")
	require.NoError(t, err)

	resp := app.doJSON(t, http.MethodPut, "/api/polls/"+poll.ID, token, map[string]any{
		"title":       "Fallback Poll Updated",
		"description": "An integration flow fixture poll",
		"options":     []string{"Yes", "No", "Maybe"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	var updated pollPayload
	require.NoError(t, json.Unmarshal(out.Data, &updated))
	assert.Equal(t, "Fallback Poll Updated", updated.Title)
	require.Len(t, updated.Options, 3)
	assert.Equal(t, "Maybe", updated.Options[2].Text)
}

func TestPollMutationRequiresOwnership(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	ownerToken := app.createUserAndToken(t)
	strangerToken := app.createUserAndToken(t)

	poll := app.createPoll(t, ownerToken, "Guarded Poll", []string{"A", "B"})

	resp := app.doJSON(t, http.MethodDelete, "/api/polls/"+poll.ID, strangerToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	out := decodeResponse(t, resp)
	assert.Equal(t,
		[]string{"Poll not found or you do not have permission to edit it"},
		out.Errors["root"],
	)

	// The rows survive the rejected delete.
	var pollCount int
	require.NoError(t, app.DB.QueryRow("SELECT COUNT(*) FROM polls WHERE id = $1", poll.ID).Scan(&pollCount))
	assert.Equal(t, 1, pollCount)

	// Anonymous callers get a plain 401.
	resp = app.doJSON(t, http.MethodDelete, "/api/polls/"+poll.ID, "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestPollValidationRejectsBadInput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	token := app.createUserAndToken(t)

	resp := app.doJSON(t, http.MethodPost, "/api/polls", token, map[string]any{
		"title":       "Hi",
		"description": "short",
		"options":     []string{"Only one"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.False(t, out.Success)
	assert.Contains(t, out.Errors["title"], "Title must be at least 5 characters")
	assert.Contains(t, out.Errors["description"], "Description must be at least 10 characters")
	assert.Contains(t, out.Errors["options"], "At least 2 options are required")

	var pollCount int
	require.NoError(t, app.DB.QueryRow("SELECT COUNT(*) FROM polls").Scan(&pollCount))
	assert.Zero(t, pollCount)
}
