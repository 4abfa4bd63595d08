package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/unowned-ai/wordcache/pkg/words"
)

// reviewResult is what review_word and mark_review_mastered return.
type reviewResult struct {
	Text  string       `json:"text"`
	Empty bool         `json:"empty"`
	Word  *words.Entry `json:"word,omitempty"`
}

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Wordcache MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_wordcache"), nil
}

// RegisterAddWordTool registers the add_word tool.
func RegisterAddWordTool(s *server.MCPServer, session *words.Session, logger *zap.Logger) {
	addWordTool := mcp.NewTool("add_word",
		mcp.WithDescription("Adds a word to the collection. The new word becomes the review subject."),
		mcp.WithString("word", mcp.Required(), mcp.Description("The word or phrase.")),
		mcp.WithString("meaning", mcp.Description("Optional meaning.")),
		mcp.WithString("usage", mcp.Description("Optional usage example or context.")),
		mcp.WithString("tags", mcp.Description("Optional comma-separated tags, e.g. 'noun, work'.")),
	)
	s.AddTool(addWordTool, addWordHandler(session, logger))
}

func addWordHandler(session *words.Session, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		word, _ := stringArg(request, "word")
		meaning, _ := stringArg(request, "meaning")
		usage, _ := stringArg(request, "usage")
		tags, _ := stringArg(request, "tags")

		entry, err := session.Add(ctx, word, meaning, usage, tags)
		if errors.Is(err, words.ErrEmptyWord) {
			return mcp.NewToolResultError("'word' parameter is required and must be a non-empty string."), nil
		}
		if err != nil {
			logger.Error("add_word failed", zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("Word added but not saved: %v", err)), nil
		}
		return jsonResult(entry, "word"), nil
	}
}

// RegisterGetWordTool registers the get_word tool.
func RegisterGetWordTool(s *server.MCPServer, session *words.Session) {
	getWordTool := mcp.NewTool("get_word",
		mcp.WithDescription("Retrieves a word by its id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The id of the word.")),
	)
	s.AddTool(getWordTool, getWordHandler(session))
}

func getWordHandler(session *words.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, errResult := requiredID(request)
		if errResult != nil {
			return errResult, nil
		}
		entry, errResult := lookupWord(session, id)
		if errResult != nil {
			return errResult, nil
		}
		return jsonResult(entry, "word"), nil
	}
}

// RegisterEditWordTool registers the edit_word tool.
func RegisterEditWordTool(s *server.MCPServer, session *words.Session, logger *zap.Logger) {
	editWordTool := mcp.NewTool("edit_word",
		mcp.WithDescription("Updates a word's text fields and tags. Omitted fields keep their current value; creation time and mastered status never change."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The id of the word to edit.")),
		mcp.WithString("word", mcp.Description("Optional new word.")),
		mcp.WithString("meaning", mcp.Description("Optional new meaning.")),
		mcp.WithString("usage", mcp.Description("Optional new usage.")),
		mcp.WithString("tags", mcp.Description("Optional new comma-separated tags; replaces all tags.")),
	)
	s.AddTool(editWordTool, editWordHandler(session, logger))
}

func editWordHandler(session *words.Session, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, errResult := requiredID(request)
		if errResult != nil {
			return errResult, nil
		}
		current, errResult := lookupWord(session, id)
		if errResult != nil {
			return errResult, nil
		}

		word, hasWord := stringArg(request, "word")
		meaning, hasMeaning := stringArg(request, "meaning")
		usage, hasUsage := stringArg(request, "usage")
		tags, hasTags := stringArg(request, "tags")
		if !hasWord && !hasMeaning && !hasUsage && !hasTags {
			return mcp.NewToolResultError("No update fields provided (use word, meaning, usage, or tags)."), nil
		}
		if !hasWord {
			word = current.Word
		}
		if !hasMeaning {
			meaning = current.Meaning
		}
		if !hasUsage {
			usage = current.Usage
		}
		if !hasTags {
			tags = words.JoinTags(current.Tags)
		}

		if err := session.Edit(ctx, id, word, meaning, usage, tags); err != nil {
			logger.Error("edit_word failed", zap.String("id", id), zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("Word edited but not saved: %v", err)), nil
		}
		updated, errResult := lookupWord(session, id)
		if errResult != nil {
			return errResult, nil
		}
		return jsonResult(updated, "word"), nil
	}
}

// RegisterDeleteWordTool registers the delete_word tool.
func RegisterDeleteWordTool(s *server.MCPServer, session *words.Session, logger *zap.Logger) {
	deleteWordTool := mcp.NewTool("delete_word",
		mcp.WithDescription("Deletes a word by its id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The id of the word to delete.")),
	)
	s.AddTool(deleteWordTool, deleteWordHandler(session, logger))
}

func deleteWordHandler(session *words.Session, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, errResult := requiredID(request)
		if errResult != nil {
			return errResult, nil
		}
		entry, errResult := lookupWord(session, id)
		if errResult != nil {
			return errResult, nil
		}
		if err := session.Delete(ctx, id); err != nil {
			logger.Error("delete_word failed", zap.String("id", id), zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("Word deleted but not saved: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Word '%s' (%s) deleted.", entry.Word, id)), nil
	}
}

// RegisterToggleMasteredTool registers the toggle_mastered tool.
func RegisterToggleMasteredTool(s *server.MCPServer, session *words.Session, logger *zap.Logger) {
	toggleTool := mcp.NewTool("toggle_mastered",
		mcp.WithDescription("Flips a word between learning and mastered."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The id of the word.")),
	)
	s.AddTool(toggleTool, toggleMasteredHandler(session, logger))
}

func toggleMasteredHandler(session *words.Session, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, errResult := requiredID(request)
		if errResult != nil {
			return errResult, nil
		}
		if _, errResult := lookupWord(session, id); errResult != nil {
			return errResult, nil
		}
		if err := session.ToggleMastered(ctx, id); err != nil {
			logger.Error("toggle_mastered failed", zap.String("id", id), zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("Word toggled but not saved: %v", err)), nil
		}
		updated, errResult := lookupWord(session, id)
		if errResult != nil {
			return errResult, nil
		}
		return jsonResult(updated, "word"), nil
	}
}

// RegisterListWordsTool registers the list_words tool.
func RegisterListWordsTool(s *server.MCPServer, session *words.Session) {
	listWordsTool := mcp.NewTool("list_words",
		mcp.WithDescription("Lists words, newest first. Search matches word, meaning and tags, case-insensitively."),
		mcp.WithString("search", mcp.Description("Optional search term.")),
		mcp.WithString("filter",
			mcp.Description("Optional status filter: all, active or mastered."),
			mcp.DefaultString(string(words.FilterAll)),
			mcp.Enum(string(words.FilterAll), string(words.FilterActive), string(words.FilterMastered)),
		),
	)
	s.AddTool(listWordsTool, listWordsHandler(session))
}

func listWordsHandler(session *words.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		search, _ := stringArg(request, "search")
		filterRaw, _ := stringArg(request, "filter")

		filter, err := words.ParseStatusFilter(filterRaw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(session.FilteredView(search, filter), "words"), nil
	}
}

// RegisterGetStatsTool registers the get_stats tool.
func RegisterGetStatsTool(s *server.MCPServer, session *words.Session) {
	getStatsTool := mcp.NewTool("get_stats",
		mcp.WithDescription("Returns the total number of words, how many are mastered, and how many were added in the last seven days."),
	)
	s.AddTool(getStatsTool, getStatsHandler(session))
}

func getStatsHandler(session *words.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(session.Stats(), "stats"), nil
	}
}

// RegisterReviewWordTool registers the review_word tool.
func RegisterReviewWordTool(s *server.MCPServer, session *words.Session) {
	reviewWordTool := mcp.NewTool("review_word",
		mcp.WithDescription("Picks the word to review: the given id, or a uniformly random word when no id is provided."),
		mcp.WithString("id", mcp.Description("Optional id of the word to review.")),
	)
	s.AddTool(reviewWordTool, reviewWordHandler(session))
}

func reviewWordHandler(session *words.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if id, ok := stringArg(request, "id"); ok && id != "" {
			if _, errResult := lookupWord(session, id); errResult != nil {
				return errResult, nil
			}
			session.SelectByID(id)
		} else {
			session.SelectRandom()
		}
		return jsonResult(currentReview(session), "review"), nil
	}
}

// RegisterMarkReviewMasteredTool registers the mark_review_mastered tool.
func RegisterMarkReviewMasteredTool(s *server.MCPServer, session *words.Session, logger *zap.Logger) {
	markTool := mcp.NewTool("mark_review_mastered",
		mcp.WithDescription("Toggles the mastered status of the current review word, then picks a new random review word."),
	)
	s.AddTool(markTool, markReviewMasteredHandler(session, logger))
}

func markReviewMasteredHandler(session *words.Session, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if session.Reviewer().CurrentID() == "" {
			return mcp.NewToolResultError("No word is under review. Call review_word first."), nil
		}
		if err := session.MarkSubjectMastered(ctx); err != nil {
			logger.Error("mark_review_mastered failed", zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("Review word toggled but not saved: %v", err)), nil
		}
		return jsonResult(currentReview(session), "review"), nil
	}
}

// RegisterResetWordsTool registers the reset_words tool.
func RegisterResetWordsTool(s *server.MCPServer, session *words.Session, logger *zap.Logger) {
	resetTool := mcp.NewTool("reset_words",
		mcp.WithDescription("Deletes every word. This cannot be undone."),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true to proceed.")),
	)
	s.AddTool(resetTool, resetWordsHandler(session, logger))
}

func resetWordsHandler(session *words.Session, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		confirm, ok := request.Params.Arguments["confirm"].(bool)
		if !ok || !confirm {
			return mcp.NewToolResultError("'confirm' must be true to reset all words."), nil
		}

		removed := session.Collection().Len()
		if err := session.ResetAll(ctx); err != nil {
			logger.Error("reset_words failed", zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("Words reset but not saved: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Reset complete. %d word(s) removed.", removed)), nil
	}
}

func currentReview(session *words.Session) reviewResult {
	result := reviewResult{
		Text:  session.CurrentText(),
		Empty: session.Reviewer().IsEmpty(),
	}
	if entry, ok := session.Reviewer().Current(); ok {
		result.Word = &entry
	}
	return result
}
