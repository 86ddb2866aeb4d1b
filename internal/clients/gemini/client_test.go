package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), "  ")
	require.Error(t, err)
}

func TestExtractTextFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "재무 "}, {Text: "분석"}}},
		}},
	}
	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "재무 분석", text)
}

func TestExtractTextFromResponse_Empty(t *testing.T) {
	_, err := extractTextFromResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = extractTextFromResponse(nil)
	assert.Error(t, err)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: ""}}}}},
	})
	assert.Error(t, err)
}
