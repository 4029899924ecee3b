package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordPostsEmbeds(t *testing.T) {
	var got []DiscordMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg DiscordMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got = append(got, msg)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	d := NewDiscord(server.URL, server.URL)
	ctx := context.Background()

	require.NoError(t, d.Success(ctx, "3 annotations"))
	require.NoError(t, d.Warning(ctx, "every acquisition failed"))
	require.NoError(t, d.Error(ctx, "boom"))

	require.Len(t, got, 3)
	assert.Equal(t, colorGreen, got[0].Embeds[0].Color)
	assert.Equal(t, "3 annotations", got[0].Embeds[0].Description)
	assert.Equal(t, colorOrange, got[1].Embeds[0].Color)
	assert.Contains(t, got[2].Embeds[0].Description, "boom")
}

func TestDiscordDisabledWithoutURL(t *testing.T) {
	d := NewDiscord("", "")
	assert.NoError(t, d.Success(context.Background(), "ignored"))
	assert.NoError(t, d.Error(context.Background(), "ignored"))
}

func TestDiscordRejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	err := NewDiscord(server.URL, "").Error(context.Background(), "boom")
	assert.ErrorContains(t, err, "429")
}
