package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Leeseryong88/logbook/internal/config"
	"github.com/Leeseryong88/logbook/internal/dto"
)

var ErrAINotConfigured = errors.New("AI provider is not configured")

const enrichSystemPrompt = `You are a dive-log writing assistant. Rewrite the diver's raw notes into one
polished paragraph. Keep every factual detail (depths, species, conditions),
keep the first person, and do not invent sightings or numbers.
Return only the rewritten paragraph, no preamble.`

const identifySystemPrompt = `You are a marine biologist. Identify the most prominent marine species in
this underwater photo. Return your answer as a JSON object with these exact fields:
{"species":"common name","scientific_name":"...","confidence":0.0-1.0,"facts":"one or two sentences"}
Return ONLY the JSON object, no extra text.`

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content interface{} `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AIService wraps an OpenAI-compatible chat-completions API. Stateless;
// one request per call, no retries.
type AIService struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewAIService(cfg *config.Config) *AIService {
	return &AIService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.AITimeout},
	}
}

// EnrichNotes rewrites raw dive notes into a polished paragraph, given
// a few metrics as context.
func (s *AIService) EnrichNotes(req *dto.EnrichNotesRequest) (*dto.EnrichNotesResponse, error) {
	if strings.TrimSpace(req.Notes) == "" {
		return nil, errors.New("notes are required")
	}

	var sb strings.Builder
	sb.WriteString("Raw notes: ")
	sb.WriteString(req.Notes)
	if req.Site != "" {
		fmt.Fprintf(&sb, "\nDive site: %s", req.Site)
	}
	if req.MaxDepth > 0 {
		fmt.Fprintf(&sb, "\nMax depth: %.1fm", req.MaxDepth)
	}
	if req.Duration > 0 {
		fmt.Fprintf(&sb, "\nDuration: %d minutes", req.Duration)
	}

	content, err := s.complete(s.cfg.AIModel, []chatMessage{
		{Role: "system", Content: enrichSystemPrompt},
		{Role: "user", Content: sb.String()},
	})
	if err != nil {
		return nil, err
	}

	return &dto.EnrichNotesResponse{Enriched: strings.TrimSpace(content)}, nil
}

// IdentifySpecies sends a photo to the vision model and parses the
// JSON identification out of the reply.
func (s *AIService) IdentifySpecies(req *dto.IdentifySpeciesRequest) (*dto.IdentifySpeciesResponse, error) {
	imageURL := strings.TrimSpace(req.ImageURL)
	if imageURL == "" && req.ImageData != "" {
		imageURL = "data:image/jpeg;base64," + req.ImageData
	}
	if imageURL == "" {
		return nil, errors.New("image_url or image_data is required")
	}

	content, err := s.complete(s.cfg.AIVisionModel, []chatMessage{
		{Role: "system", Content: identifySystemPrompt},
		{Role: "user", Content: []chatContentPart{
			{Type: "text", Text: "Identify the species in this photo."},
			{Type: "image_url", ImageURL: &chatImageURL{URL: imageURL, Detail: "low"}},
		}},
	})
	if err != nil {
		return nil, err
	}

	var result dto.IdentifySpeciesResponse
	if err := json.Unmarshal([]byte(stripJSONFences(content)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse identification: %w", err)
	}
	return &result, nil
}

func (s *AIService) complete(model string, messages []chatMessage) (string, error) {
	if s.cfg.AIAPIKey == "" {
		return "", ErrAINotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, s.cfg.AIAPIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.AIAPIKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("AI request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read AI response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI provider returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode AI response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("AI response has no choices")
	}

	content, ok := parsed.Choices[0].Message.Content.(string)
	if !ok {
		return "", errors.New("AI response content is not text")
	}
	return content, nil
}

// stripJSONFences tolerates models that wrap JSON in markdown fences.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
