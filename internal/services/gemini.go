package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiService backs the generator's TextGenerator and QuestionAnswerer
// capabilities with the Gemini API. Calls can take seconds; a token bucket
// caps concurrent requests so the worker pool cannot stampede the API.
type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{}
}

func NewGeminiService(apiKey string, concurrentReqs int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)

	if concurrentReqs < 1 {
		concurrentReqs = 1
	}
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// GenerateText produces free text from a prompt, bounded to roughly
// maxWords words.
func (s *GeminiService) GenerateText(ctx context.Context, prompt string, maxWords int) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	full := fmt.Sprintf("%s\n\nRespond with at most %d words and no preamble.", prompt, maxWords)
	resp, err := s.model.GenerateContent(ctx, genai.Text(full))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(stripCodeFences(extractText(resp)))
	if text == "" {
		return "", fmt.Errorf("Gemini returned an empty response")
	}
	return text, nil
}

// ExtractAnswer answers a question with a verbatim span copied from the
// given context. Output that is not a substring of the context is rejected,
// keeping the extractive contract honest even with a generative model.
func (s *GeminiService) ExtractAnswer(ctx context.Context, question, passage string) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	prompt := fmt.Sprintf(
		"Answer the question using ONLY an exact phrase copied verbatim from the context. "+
			"Reply with the phrase alone, nothing else.\n\nContext: %s\n\nQuestion: %s",
		passage, question,
	)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	answer := strings.TrimSpace(stripCodeFences(extractText(resp)))
	answer = strings.Trim(answer, `"'`)
	if answer == "" {
		return "", fmt.Errorf("Gemini returned an empty answer")
	}
	if !strings.Contains(strings.ToLower(passage), strings.ToLower(answer)) {
		return "", fmt.Errorf("extracted answer %q is not a span of the context", answer)
	}
	return answer, nil
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String()
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
