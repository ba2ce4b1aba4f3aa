package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubServer mimics the API's wire contract: snake_case rows out,
// camelCase payloads in, bearer token required on mutations.
func stubServer(t *testing.T) (*httptest.Server, *struct {
	lastAuth   string
	lastMethod string
	lastBody   map[string]any
}) {
	t.Helper()
	state := &struct {
		lastAuth   string
		lastMethod string
		lastBody   map[string]any
	}{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "test-token"})
	})
	mux.HandleFunc("/api/registrations", func(w http.ResponseWriter, r *http.Request) {
		state.lastMethod = r.Method
		if r.Method == http.MethodPost {
			var body map[string][]map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{
				"message": "registrations created",
				"count":   len(body["registrations"]),
			})
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id": 1, "full_name": "Jane Doe", "is_new_user": false,
				"gender": nil, "contact_date": "2024-03-01",
				"contact_method": "contact", "contact_sub_method": "phone",
				"country": "MN", "is_registered": false,
				"created_at": "2024-03-01T10:00:00Z", "updated_at": "2024-03-01T10:00:00Z",
			},
			{
				"id": 2, "full_name": "John Roe", "is_new_user": true,
				"gender": "male", "contact_date": "2024-03-04",
				"contact_method": "meeting", "contact_sub_method": "online",
				"country": "DE", "is_registered": true,
				"created_at": "2024-03-04T10:00:00Z", "updated_at": "2024-03-04T10:00:00Z",
			},
		})
	})
	mux.HandleFunc("/api/registrations/", func(w http.ResponseWriter, r *http.Request) {
		state.lastAuth = r.Header.Get("Authorization")
		state.lastMethod = r.Method
		if strings.HasSuffix(r.URL.Path, "/404") {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "registration not found"})
			return
		}
		if r.Method == http.MethodPut || r.Method == http.MethodPatch {
			state.lastBody = map[string]any{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&state.lastBody))
			json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, state
}

func TestClient_ListNormalizesAndTracksMonthWeeks(t *testing.T) {
	srv, _ := stubServer(t)
	c := New(srv.URL)

	records, err := c.List(context.Background(), ListOptions{SortBy: "contactDate", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "Jane Doe", records[0].FullName)
	require.Equal(t, "", records[0].Gender, "null gender normalizes to empty string")
	require.Equal(t, "3-1", records[0].MonthWeekLabel)
	require.Equal(t, "male", records[1].Gender)
	require.Equal(t, "3-2", records[1].MonthWeekLabel)

	require.Equal(t, []string{"3-1", "3-2"}, c.MonthWeeks())
}

func TestClient_CreateReturnsCount(t *testing.T) {
	srv, _ := stubServer(t)
	c := New(srv.URL)

	count, err := c.Create(context.Background(), []NewRegistration{
		{FirstName: "Jane", LastName: "Doe", ContactDate: "2024-01-10", ContactMethod: "contact", ContactSubMethod: "phone"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestClient_MutationsCarryToken(t *testing.T) {
	srv, state := stubServer(t)
	c := New(srv.URL)

	require.NoError(t, c.Login(context.Background(), "secret"))

	require.NoError(t, c.SetRegistered(context.Background(), 1, true))
	require.Equal(t, "Bearer test-token", state.lastAuth)
	require.Equal(t, map[string]any{"isRegistered": true}, state.lastBody)

	require.NoError(t, c.Update(context.Background(), 1, Record{
		FullName:    "Jane Doe",
		ContactDate: "2024-03-05T00:00:00Z",
	}))
	require.Equal(t, http.MethodPut, state.lastMethod)
	require.Equal(t, "2024-03-05", state.lastBody["contactDate"], "dates reformatted to ISO before sending")
}

func TestClient_LoginFailure(t *testing.T) {
	srv, _ := stubServer(t)
	c := New(srv.URL)

	err := c.Login(context.Background(), "wrong")
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "invalid credentials", apiErr.Message)
}

func TestClient_NotFound(t *testing.T) {
	srv, _ := stubServer(t)
	c := New(srv.URL)

	_, err := c.Get(context.Background(), 404)
	require.Error(t, err)
	require.True(t, IsNotFound(err))
}
