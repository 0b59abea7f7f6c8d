package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"cropdesk/internal/advisory"
	"cropdesk/internal/auth"
	"cropdesk/internal/config"
	"cropdesk/internal/crop"
	"cropdesk/internal/db"
	httpx "cropdesk/internal/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Client {
	t.Helper()

	gdb, err := db.Connect("sqlite", filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))

	cfg := config.Config{APIPrefix: "/api"}
	srv := httptest.NewServer(httpx.NewRouter(cfg, gdb, auth.NewJWT("client-secret", time.Hour)))
	t.Cleanup(srv.Close)

	return New(srv.URL + "/api/")
}

func login(t *testing.T, c *Client) *Session {
	t.Helper()
	ctx := context.Background()

	_, err := c.Signup(ctx, SignupRequest{Email: "ravi@example.com", Password: "secret123", Name: "Ravi", Location: "Ludhiana"})
	require.NoError(t, err)
	s, u, err := c.Login(ctx, "ravi@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", u.Name)
	return s
}

func TestSessionLifecycle(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()
	s := login(t, c)

	resumed, err := c.Resume(ctx, s.Token())
	require.NoError(t, err)

	prof, err := c.Profile(ctx, resumed)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", prof.Email)
	assert.Equal(t, "Ludhiana", prof.Profile.Location)

	resumed.Close()
	assert.Empty(t, resumed.Token())
	_, err = c.Profile(ctx, resumed)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = c.Resume(ctx, "not-a-token")
	assert.True(t, IsUnauthorized(err))

	_, err = c.Resume(ctx, "")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLogin_WrongPassword(t *testing.T) {
	c := newServer(t)
	login(t, c)

	_, _, err := c.Login(context.Background(), "ravi@example.com", "nope-nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
}

func TestCropCalls(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()
	s := login(t, c)

	planted, err := crop.ParseDate("2024-01-01")
	require.NoError(t, err)
	harvest, err := crop.ParseDate("2024-04-01")
	require.NoError(t, err)
	area := 1.5

	created, err := c.CreateCrop(ctx, s, crop.NewCrop{Name: "Wheat", PlantedDate: &planted, ExpectedHarvest: &harvest, Area: &area})
	require.NoError(t, err)
	assert.Equal(t, crop.StatusPlanted, created.Status)
	assert.Equal(t, "2024-01-01", created.PlantedDate.String())

	anon, err := c.ListCrops(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, anon)

	mine, err := c.ListCrops(ctx, s)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	notes := "first irrigation done"
	updated, err := c.UpdateCrop(ctx, s, created.ID, crop.Patch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, 1.5, updated.Area)
	require.NotNil(t, updated.UpdatedAt)

	_, err = c.UpdateCrop(ctx, s, "missing", crop.Patch{Notes: &notes})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	require.NoError(t, c.DeleteCrop(ctx, s, created.ID))
	require.NoError(t, c.DeleteCrop(ctx, s, created.ID))

	mine, err = c.ListCrops(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, mine)

	_, err = c.CreateCrop(ctx, nil, crop.NewCrop{Name: "Wheat", PlantedDate: &planted})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestAdvisoryCalls(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()
	s := login(t, c)

	recs, err := c.Recommend(ctx, s, advisory.Request{Location: "Punjab", Season: "winter", SoilType: "loam"})
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	cons, err := c.Consult(ctx, s, advisory.ConsultationInput{Question: "When to sow mustard?", Urgency: "high"})
	require.NoError(t, err)
	assert.Equal(t, "high", cons.Urgency)
	assert.Equal(t, "pending", cons.Status)

	_, err = c.Recommend(ctx, nil, advisory.Request{Location: "Punjab", Season: "winter"})
	assert.ErrorIs(t, err, ErrNoSession)
}
