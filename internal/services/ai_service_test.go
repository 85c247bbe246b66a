package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Leeseryong88/logbook/internal/config"
	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aiTestConfig(url string) *config.Config {
	return &config.Config{
		AIAPIKey:      "test-key",
		AIAPIURL:      url,
		AIModel:       "chat-model",
		AIVisionModel: "vision-model",
		AITimeout:     5 * time.Second,
	}
}

func chatReply(content string) []byte {
	b, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"content": content}},
		},
	})
	return b
}

func TestEnrichNotes_NotConfigured(t *testing.T) {
	svc := NewAIService(&config.Config{AITimeout: time.Second})

	_, err := svc.EnrichNotes(&dto.EnrichNotesRequest{Notes: "great dive"})
	require.ErrorIs(t, err, ErrAINotConfigured)
}

func TestEnrichNotes_RequiresNotes(t *testing.T) {
	svc := NewAIService(aiTestConfig("http://unused.example"))

	_, err := svc.EnrichNotes(&dto.EnrichNotesRequest{Notes: "   "})
	require.Error(t, err)
	require.Contains(t, err.Error(), "required")
}

func TestEnrichNotes_Success(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write(chatReply("  A polished paragraph about the dive.  "))
	}))
	defer server.Close()

	svc := NewAIService(aiTestConfig(server.URL))
	resp, err := svc.EnrichNotes(&dto.EnrichNotesRequest{
		Notes:    "saw turtle, cold",
		Site:     "House Reef",
		MaxDepth: 18.5,
		Duration: 42,
	})
	require.NoError(t, err)

	assert.Equal(t, "A polished paragraph about the dive.", resp.Enriched)
	assert.Equal(t, "chat-model", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
}

func TestIdentifySpecies_ParsesFencedJSON(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write(chatReply("```json\n{\"species\":\"Green Sea Turtle\",\"scientific_name\":\"Chelonia mydas\",\"confidence\":0.92,\"facts\":\"Grazes on seagrass.\"}\n```"))
	}))
	defer server.Close()

	svc := NewAIService(aiTestConfig(server.URL))
	resp, err := svc.IdentifySpecies(&dto.IdentifySpeciesRequest{ImageData: "aGVsbG8="})
	require.NoError(t, err)

	assert.Equal(t, "Green Sea Turtle", resp.Species)
	assert.Equal(t, "Chelonia mydas", resp.ScientificName)
	assert.InDelta(t, 0.92, resp.Confidence, 0.001)
	assert.Equal(t, "vision-model", captured.Model)
}

func TestIdentifySpecies_RequiresImage(t *testing.T) {
	svc := NewAIService(aiTestConfig("http://unused.example"))

	_, err := svc.IdentifySpecies(&dto.IdentifySpeciesRequest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "required")
}

func TestComplete_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewAIService(aiTestConfig(server.URL))
	_, err := svc.EnrichNotes(&dto.EnrichNotesRequest{Notes: "raw notes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestStripJSONFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripJSONFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripJSONFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripJSONFences(`{"a":1}`))
}
