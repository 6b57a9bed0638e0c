package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/silenthink/memo-cli/internal/models"
)

// SuggestionCategories is the closed vocabulary the suggester may answer
// with. Every suggestion resolves to one of these, "Other" being the
// catch-all.
var SuggestionCategories = []string{
	"Work",
	"Study",
	"Life",
	"Health",
	"Travel",
	"Shopping",
	"Entertainment",
	"Relationships",
	"Finance",
	"Planning",
	"Ideas",
	"Other",
}

// categoryOther is the fallback when nothing else matches.
const categoryOther = "Other"

// keywordRule maps a free-form word the model may emit to a vocabulary
// category. Rules are checked in order; the first hit wins.
type keywordRule struct {
	keyword  string
	category string
}

var keywordRules = []keywordRule{
	{"job", "Work"},
	{"office", "Work"},
	{"meeting", "Work"},
	{"project", "Work"},
	{"business", "Work"},
	{"school", "Study"},
	{"learning", "Study"},
	{"course", "Study"},
	{"reading", "Study"},
	{"exam", "Study"},
	{"daily", "Life"},
	{"home", "Life"},
	{"family", "Life"},
	{"food", "Life"},
	{"fitness", "Health"},
	{"exercise", "Health"},
	{"medical", "Health"},
	{"doctor", "Health"},
	{"trip", "Travel"},
	{"vacation", "Travel"},
	{"flight", "Travel"},
	{"hotel", "Travel"},
	{"buy", "Shopping"},
	{"purchase", "Shopping"},
	{"order", "Shopping"},
	{"store", "Shopping"},
	{"movie", "Entertainment"},
	{"game", "Entertainment"},
	{"music", "Entertainment"},
	{"show", "Entertainment"},
	{"friend", "Relationships"},
	{"partner", "Relationships"},
	{"social", "Relationships"},
	{"money", "Finance"},
	{"budget", "Finance"},
	{"investment", "Finance"},
	{"bill", "Finance"},
	{"plan", "Planning"},
	{"schedule", "Planning"},
	{"todo", "Planning"},
	{"goal", "Planning"},
	{"idea", "Ideas"},
	{"thought", "Ideas"},
	{"inspiration", "Ideas"},
}

// Suggester wraps the chat client with prompt construction, response
// post-processing and concurrent-request coalescing.
type Suggester struct {
	client *Client
	model  string
	group  singleflight.Group
}

// NewSuggester returns a suggester backed by the given client.
func NewSuggester(client *Client) *Suggester {
	return &Suggester{client: client, model: DefaultModel}
}

// Suggest asks the model to categorize a memo. Concurrent calls for the same
// title and content share one request. Once the network call has succeeded,
// Suggest always returns a valid suggestion, degrading through keyword
// matching down to "Other" rather than failing on malformed model output.
func (s *Suggester) Suggest(ctx context.Context, title, content string) (*models.CategorySuggestion, error) {
	key := title + "\x00" + content
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.suggest(ctx, title, content)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.CategorySuggestion), nil
}

// CategorizeMemo picks the category to store for a new memo. Memos that
// already carry a real category keep it; for blank or Default categories the
// adapter is consulted, and any failure falls back to the original value.
func (s *Suggester) CategorizeMemo(ctx context.Context, memo *models.Memo) string {
	if memo.Category != "" && memo.Category != models.DefaultCategory {
		return memo.Category
	}
	suggestion, err := s.Suggest(ctx, memo.Title, memo.Content)
	if err != nil {
		return memo.Category
	}
	return suggestion.Category
}

func (s *Suggester) suggest(ctx context.Context, title, content string) (*models.CategorySuggestion, error) {
	req := ChatRequest{
		Model: s.model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt()},
			{Role: "user", Content: userPrompt(title, content)},
		},
		Temperature: 0.3,
		MaxTokens:   100,
	}

	resp, err := s.client.Chat(ctx, req)
	if err != nil {
		return nil, err
	}

	return ParseSuggestion(resp.Choices[0].Message.Content), nil
}

func systemPrompt() string {
	return "You are a note categorization assistant. Categorize the note into exactly one of these categories: " +
		strings.Join(SuggestionCategories, ", ") +
		`. Respond with a JSON object only, in this form: {"category": "...", "confidence": 0.0, "reason": "..."}. ` +
		"Confidence is between 0 and 1. Keep the reason to one short sentence."
}

func userPrompt(title, content string) string {
	return fmt.Sprintf("Title: %s\nContent: %s", title, content)
}

// ParseSuggestion turns raw model output into a valid suggestion. It never
// fails: the ladder runs JSON extraction, category validation, keyword
// matching and finally the "Other" fallback.
func ParseSuggestion(raw string) *models.CategorySuggestion {
	jsonPart, ok := extractJSON(raw)
	if !ok {
		// No JSON at all: fall back to keyword matching over the raw text.
		return &models.CategorySuggestion{
			Category:   matchKeywords(raw),
			Confidence: 0.5,
			Reason:     "Inferred from response text",
		}
	}

	var parsed struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
		Reason     string  `json:"reason"`
	}
	if err := json.Unmarshal([]byte(jsonPart), &parsed); err != nil {
		// Broken JSON still gets the keyword pass over the whole response.
		return &models.CategorySuggestion{
			Category:   matchKeywords(raw),
			Confidence: 0.3,
			Reason:     "Could not parse AI response",
		}
	}

	category := parsed.Category
	if !validCategory(category) {
		category = matchKeywords(parsed.Category)
	}

	return &models.CategorySuggestion{
		Category:   category,
		Confidence: clampConfidence(parsed.Confidence),
		Reason:     parsed.Reason,
	}
}

// extractJSON returns the first balanced top-level {...} block in the text.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func validCategory(category string) bool {
	for _, c := range SuggestionCategories {
		if c == category {
			return true
		}
	}
	return false
}

// matchKeywords maps arbitrary text to the closest vocabulary category.
// Exact vocabulary names win, then the keyword table, then "Other".
func matchKeywords(text string) string {
	lowered := strings.ToLower(text)
	for _, c := range SuggestionCategories {
		if strings.Contains(lowered, strings.ToLower(c)) {
			return c
		}
	}
	for _, rule := range keywordRules {
		if strings.Contains(lowered, rule.keyword) {
			return rule.category
		}
	}
	return categoryOther
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
