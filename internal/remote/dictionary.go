package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Entry is one Free Dictionary API entry
type Entry struct {
	Word      string     `json:"word"`
	Phonetic  string     `json:"phonetic,omitempty"`
	Phonetics []Phonetic `json:"phonetics,omitempty"`
	Meanings  []Meaning  `json:"meanings,omitempty"`
}

type Phonetic struct {
	Text  string `json:"text,omitempty"`
	Audio string `json:"audio,omitempty"`
}

type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
}

type Definition struct {
	Definition string `json:"definition"`
	Example    string `json:"example,omitempty"`
}

// Transcription returns the first non-empty phonetic spelling
func (e *Entry) Transcription() string {
	if e.Phonetic != "" {
		return e.Phonetic
	}
	for _, p := range e.Phonetics {
		if p.Text != "" {
			return p.Text
		}
	}
	return ""
}

// EntryCache stores dictionary lookups. Get returns (nil, nil) on a miss.
type EntryCache interface {
	Get(ctx context.Context, word string) ([]Entry, error)
	Set(ctx context.Context, word string, entries []Entry) error
}

// DictionaryClient looks words up in the Free Dictionary API
type DictionaryClient struct {
	baseURL    string
	httpClient *http.Client
	cache      EntryCache
}

// NewDictionaryClient creates a dictionary client. cache may be nil.
func NewDictionaryClient(baseURL string, timeout time.Duration, cache EntryCache) *DictionaryClient {
	return &DictionaryClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
		cache:      cache,
	}
}

// Lookup returns dictionary entries for word. Cache failures only cost a request.
func (c *DictionaryClient) Lookup(ctx context.Context, word string) ([]Entry, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, fmt.Errorf("lookup word: %w", ErrNoWord)
	}

	if c.cache != nil {
		entries, err := c.cache.Get(ctx, word)
		if err != nil {
			zap.S().Warnw("Dictionary cache read failed", "word", word, "error", err)
		} else if entries != nil {
			return entries, nil
		}
	}

	var entries []Entry
	endpoint := joinURL(c.baseURL, "api/v2/entries/en/"+url.PathEscape(word))
	if err := getJSON(ctx, c.httpClient, endpoint, &entries); err != nil {
		return nil, fmt.Errorf("lookup word (word: %s): %w", word, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("lookup word (word: %s): %w", word, ErrNoWord)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, word, entries); err != nil {
			zap.S().Warnw("Dictionary cache write failed", "word", word, "error", err)
		}
	}
	return entries, nil
}
