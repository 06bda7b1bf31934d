package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mastermind6482/WordWise/pkg/models"
)

// RandomWord is one entry of the Random Word API response
type RandomWord struct {
	Word          string `json:"word"`
	Definition    string `json:"definition"`
	Pronunciation string `json:"pronunciation"`
}

// RandomWordClient fetches random English words by part of speech
type RandomWordClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRandomWordClient creates a client for the Random Word API
func NewRandomWordClient(baseURL string, timeout time.Duration) *RandomWordClient {
	return &RandomWordClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

// PartOfSpeech maps a level to the category requested from the service
func PartOfSpeech(level models.Level) string {
	switch level {
	case models.Intermediate:
		return "verb"
	case models.Advanced:
		return "adjective"
	default:
		return "noun"
	}
}

// RandomWord returns one random word for the level
func (c *RandomWordClient) RandomWord(ctx context.Context, level models.Level) (*RandomWord, error) {
	category := PartOfSpeech(level)
	url := joinURL(c.baseURL, "word/english/"+category)

	var response []RandomWord
	if err := getJSON(ctx, c.httpClient, url, &response); err != nil {
		return nil, fmt.Errorf("get random word (category: %s): %w", category, err)
	}

	for _, w := range response {
		if word := strings.TrimSpace(w.Word); word != "" {
			w.Word = word
			return &w, nil
		}
	}
	return nil, fmt.Errorf("get random word (category: %s): %w", category, ErrNoWord)
}
