package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/models"
)

// chatServer stands in for the completion endpoint and replies with the given
// message content.
func chatServer(t *testing.T, content string, capture *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			var body struct {
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil && len(body.Messages) > 0 {
				*capture = body.Messages[len(body.Messages)-1].Content
			}
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}]}`,
			mustJSON(t, content))
	}))
}

func mustJSON(t *testing.T, s string) string {
	t.Helper()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func testConfig(baseURL string) Config {
	return Config{
		APIKey:        "test-key",
		BaseURL:       baseURL,
		Model:         "gpt-4o-mini",
		Temperature:   0.3,
		MaxTokens:     1000,
		MaxInputChars: 4000,
		Timeout:       5 * time.Second,
	}
}

func TestAnalyze_WellFormedReply(t *testing.T) {
	reply := `{"classification":"Resume","summary":"A software engineer resume.","tags":["resume","engineering","career"],"sentiment":"positive","insights":"Strong backend focus."}`
	srv := chatServer(t, reply, nil)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)
	got, err := client.Analyze(context.Background(), "some resume text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Classification != models.ClassResume {
		t.Errorf("Classification = %q, want %q", got.Classification, models.ClassResume)
	}
	if got.Sentiment != "positive" {
		t.Errorf("Sentiment = %q, want positive", got.Sentiment)
	}
	if len(got.Tags) != 3 {
		t.Errorf("Tags = %v, want 3 entries", got.Tags)
	}
}

func TestAnalyze_FencedReply(t *testing.T) {
	reply := "```json\n{\"classification\":\"Invoice\",\"summary\":\"An invoice.\",\"tags\":[\"billing\"],\"sentiment\":\"neutral\"}\n```"
	srv := chatServer(t, reply, nil)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)
	got, err := client.Analyze(context.Background(), "invoice text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Classification != models.ClassInvoice {
		t.Errorf("Classification = %q, want %q", got.Classification, models.ClassInvoice)
	}
}

func TestAnalyze_MalformedReplyFallsBack(t *testing.T) {
	srv := chatServer(t, "Sorry, I cannot help with that.", nil)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)
	got, err := client.Analyze(context.Background(), "some text")
	if err != nil {
		t.Fatalf("malformed reply must not be an error, got %v", err)
	}

	want := Fallback()
	if got.Classification != want.Classification || got.Summary != want.Summary || got.Sentiment != want.Sentiment {
		t.Errorf("expected fallback record, got %+v", got)
	}
}

func TestAnalyze_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad request","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)
	_, err := client.Analyze(context.Background(), "some text")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestAnalyze_TruncatesInput(t *testing.T) {
	reply := `{"classification":"Others","summary":"Long document.","tags":["long"],"sentiment":"neutral"}`
	var sent string
	srv := chatServer(t, reply, &sent)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxInputChars = 10
	client := NewClient(cfg, nil)

	if _, err := client.Analyze(context.Background(), "0123456789abcdef"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != "0123456789" {
		t.Errorf("sent text = %q, want truncated to 10 chars", sent)
	}
}

func TestAnalyze_TruncationKeepsRunesWhole(t *testing.T) {
	reply := `{"classification":"Others","summary":"Accented document.","tags":["text"],"sentiment":"neutral"}`
	var sent string
	srv := chatServer(t, reply, &sent)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxInputChars = 10
	client := NewClient(cfg, nil)

	// "é" is two bytes and straddles the 10-byte cut point.
	if _, err := client.Analyze(context.Background(), "123456789é suite"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != "123456789" {
		t.Errorf("sent text = %q, want cut back to the rune boundary", sent)
	}
	if !utf8.ValidString(sent) {
		t.Errorf("sent text is not valid UTF-8: %q", sent)
	}
}

func TestParseReply_Coercions(t *testing.T) {
	client := NewClient(Config{APIKey: "test"}, nil)

	tests := []struct {
		name              string
		content           string
		wantClass         string
		wantSentiment     string
		wantFallbackShape bool
	}{
		{
			name:          "unknown label becomes Others",
			content:       `{"classification":"Poetry","summary":"s","tags":["t"],"sentiment":"positive"}`,
			wantClass:     models.ClassOthers,
			wantSentiment: "positive",
		},
		{
			name:          "invalid sentiment becomes neutral",
			content:       `{"classification":"Resume","summary":"s","tags":["t"],"sentiment":"ecstatic"}`,
			wantClass:     models.ClassResume,
			wantSentiment: "neutral",
		},
		{
			name:              "missing summary falls back",
			content:           `{"classification":"Resume","tags":["t"],"sentiment":"neutral"}`,
			wantFallbackShape: true,
		},
		{
			name:              "empty tags falls back",
			content:           `{"classification":"Resume","summary":"s","tags":[],"sentiment":"neutral"}`,
			wantFallbackShape: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := client.parseReply(tt.content)
			if tt.wantFallbackShape {
				want := Fallback()
				if got.Summary != want.Summary {
					t.Errorf("expected fallback, got %+v", got)
				}
				return
			}
			if got.Classification != tt.wantClass {
				t.Errorf("Classification = %q, want %q", got.Classification, tt.wantClass)
			}
			if got.Sentiment != tt.wantSentiment {
				t.Errorf("Sentiment = %q, want %q", got.Sentiment, tt.wantSentiment)
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
