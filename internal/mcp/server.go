// Package mcp exposes the memo store to MCP clients over stdio.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/silenthink/memo-cli/internal/ai"
	"github.com/silenthink/memo-cli/internal/models"
	"github.com/silenthink/memo-cli/internal/query"
	"github.com/silenthink/memo-cli/internal/store"
)

// Server bridges MCP tool calls to the memo store.
type Server struct {
	store     *store.Store
	suggester *ai.Suggester
	version   string
}

// NewServer returns an MCP server. suggester may be nil; the
// suggest_category tool then reports that AI is not configured.
func NewServer(s *store.Store, suggester *ai.Suggester, version string) *Server {
	return &Server{store: s, suggester: suggester, version: version}
}

// Run serves MCP over stdio until the client disconnects or ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	server := sdk.NewServer(&sdk.Implementation{
		Name:    "memo",
		Version: s.version,
	}, nil)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "memo_add",
		Description: "Create a new memo with a title, optional content, category and priority.",
	}, s.addMemo)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "memo_search",
		Description: "Search memos by text, optionally restricted to one category.",
	}, s.searchMemos)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "memo_list",
		Description: "List memos, optionally filtered by category and ordered by a sort option.",
	}, s.listMemos)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "memo_list_categories",
		Description: "List the available memo categories.",
	}, s.listCategories)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "suggest_category",
		Description: "Suggest a category for a memo using AI.",
	}, s.suggestCategory)

	return server.Run(ctx, &sdk.StdioTransport{})
}

type addMemoInput struct {
	Title    string `json:"title" jsonschema:"the memo title"`
	Content  string `json:"content,omitempty" jsonschema:"the memo body"`
	Category string `json:"category,omitempty" jsonschema:"category name, defaults to Default"`
	Priority string `json:"priority,omitempty" jsonschema:"normal, important or urgent"`
}

type addMemoOutput struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
}

func (s *Server) addMemo(ctx context.Context, req *sdk.CallToolRequest, input addMemoInput) (*sdk.CallToolResult, addMemoOutput, error) {
	if input.Title == "" {
		return nil, addMemoOutput{}, fmt.Errorf("title is required")
	}
	now := time.Now()
	memo := models.Memo{
		Title:        input.Title,
		Content:      input.Content,
		Category:     input.Category,
		Priority:     models.ParsePriority(input.Priority),
		CreatedDate:  now,
		ModifiedDate: now,
	}
	if s.suggester != nil {
		memo.Category = s.suggester.CategorizeMemo(ctx, &memo)
	}
	if memo.Category == "" {
		memo.Category = models.DefaultCategory
	}
	id, err := s.store.Memos.Insert(&memo)
	if err != nil {
		return nil, addMemoOutput{}, err
	}
	return textResult(fmt.Sprintf("Created memo %d in category %s", id, memo.Category)),
		addMemoOutput{ID: id, Category: memo.Category}, nil
}

type searchMemosInput struct {
	Query    string `json:"query" jsonschema:"text to search for in titles and content"`
	Category string `json:"category,omitempty" jsonschema:"restrict the search to one category"`
}

type memosOutput struct {
	Count int           `json:"count"`
	Memos []models.Memo `json:"memos"`
}

func (s *Server) searchMemos(ctx context.Context, req *sdk.CallToolRequest, input searchMemosInput) (*sdk.CallToolResult, memosOutput, error) {
	if input.Query == "" {
		return nil, memosOutput{}, fmt.Errorf("query is required")
	}
	var (
		memos []models.Memo
		err   error
	)
	if input.Category != "" && input.Category != models.CategoryAll {
		memos, err = s.store.Memos.SearchByCategory(input.Category, input.Query)
	} else {
		memos, err = s.store.Memos.Search(input.Query)
	}
	if err != nil {
		return nil, memosOutput{}, err
	}
	return textResult(formatMemos(memos)), memosOutput{Count: len(memos), Memos: memos}, nil
}

type listMemosInput struct {
	Category string `json:"category,omitempty" jsonschema:"filter by category, All means no filter"`
	Sort     string `json:"sort,omitempty" jsonschema:"sort option, e.g. modified-desc or priority-desc"`
}

func (s *Server) listMemos(ctx context.Context, req *sdk.CallToolRequest, input listMemosInput) (*sdk.CallToolResult, memosOutput, error) {
	sort := models.ParseSortOption(input.Sort)
	var (
		memos []models.Memo
		err   error
	)
	if input.Category != "" && input.Category != models.CategoryAll {
		memos, err = s.store.Memos.ListByCategory(input.Category, sort)
	} else {
		memos, err = s.store.Memos.ListAll(sort)
	}
	if err != nil {
		return nil, memosOutput{}, err
	}
	return textResult(formatMemos(memos)), memosOutput{Count: len(memos), Memos: memos}, nil
}

type listCategoriesInput struct{}

type listCategoriesOutput struct {
	Categories []string `json:"categories"`
}

func (s *Server) listCategories(ctx context.Context, req *sdk.CallToolRequest, input listCategoriesInput) (*sdk.CallToolResult, listCategoriesOutput, error) {
	stored, err := s.store.Memos.Categories()
	if err != nil {
		return nil, listCategoriesOutput{}, err
	}
	vocab := query.BuildVocabulary(stored)
	return textResult(strings.Join(vocab, ", ")), listCategoriesOutput{Categories: vocab}, nil
}

type suggestCategoryInput struct {
	Title   string `json:"title" jsonschema:"the memo title"`
	Content string `json:"content,omitempty" jsonschema:"the memo body"`
}

func (s *Server) suggestCategory(ctx context.Context, req *sdk.CallToolRequest, input suggestCategoryInput) (*sdk.CallToolResult, models.CategorySuggestion, error) {
	if s.suggester == nil {
		return nil, models.CategorySuggestion{}, fmt.Errorf("AI suggestions not configured, set an API key first")
	}
	if input.Title == "" {
		return nil, models.CategorySuggestion{}, fmt.Errorf("title is required")
	}
	suggestion, err := s.suggester.Suggest(ctx, input.Title, input.Content)
	if err != nil {
		return nil, models.CategorySuggestion{}, err
	}
	text := fmt.Sprintf("%s (confidence %.2f): %s", suggestion.Category, suggestion.Confidence, suggestion.Reason)
	return textResult(text), *suggestion, nil
}

func textResult(text string) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: text}},
	}
}

func formatMemos(memos []models.Memo) string {
	if len(memos) == 0 {
		return "No memos found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d memo(s):\n", len(memos))
	for _, m := range memos {
		fmt.Fprintf(&b, "- [%d] %s (%s, %s, modified %s)\n",
			m.ID, m.Title, m.Category, models.PriorityText(m.Priority),
			m.ModifiedDate.Format("2006-01-02 15:04"))
	}
	return b.String()
}
