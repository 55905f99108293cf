package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// optimizeRequest mirrors the Distill API request model.
type optimizeRequest struct {
	Text         string `json:"text"`
	InputFormat  string `json:"input_format,omitempty"`
	ExtractMode  string `json:"extract_mode,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
	IncludeStats bool   `json:"include_stats,omitempty"`
}

// optimizeResponse mirrors the Distill API response model.
type optimizeResponse struct {
	Success           bool     `json:"success"`
	OptimizedText     string   `json:"optimized_text"`
	OriginalTokens    int      `json:"original_tokens"`
	OptimizedTokens   int      `json:"optimized_tokens"`
	Reduction         int      `json:"reduction"`
	ReductionPercent  float64  `json:"reduction_percent"`
	AppliedStrategies []string `json:"applied_strategies"`
	Similarity        float64  `json:"similarity"`
	Stats             *struct {
		Characters      int `json:"characters"`
		Words           int `json:"words"`
		Lines           int `json:"lines"`
		TokensCharBased int `json:"tokens_char_based"`
		TokensWordBased int `json:"tokens_word_based"`
		TokensAdvanced  int `json:"tokens_advanced"`
	} `json:"stats"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// statsResponse mirrors the Distill stats API response.
type statsResponse struct {
	Success bool `json:"success"`
	Stats   struct {
		Characters      int `json:"characters"`
		Words           int `json:"words"`
		Lines           int `json:"lines"`
		TokensCharBased int `json:"tokens_char_based"`
		TokensWordBased int `json:"tokens_word_based"`
		TokensAdvanced  int `json:"tokens_advanced"`
	} `json:"stats"`
	Models []modelUsage `json:"models"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// modelUsage mirrors one entry of the Distill model catalog.
type modelUsage struct {
	Name        string  `json:"name"`
	ContextSize int     `json:"context_size"`
	UsageRatio  float64 `json:"usage_ratio"`
	Remaining   int     `json:"remaining"`
}

// modelsResponse mirrors the Distill models API response.
type modelsResponse struct {
	Models []modelUsage `json:"models"`
}

// batchResponse mirrors the Distill batch API response.
type batchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// batchStatusResponse mirrors the Distill batch status API response.
type batchStatusResponse struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Completed int               `json:"completed"`
	Total     int               `json:"total"`
	Results   []json.RawMessage `json:"results"`
}

func main() {
	apiURL := os.Getenv("DISTILL_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("DISTILL_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "DISTILL_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"distill",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	optimizePromptTool := mcp.NewTool("optimize_prompt",
		mcp.WithDescription("Rewrite a prompt to use fewer tokens while preserving its meaning. Strips filler, redundancy, and verbose phrasing, and reports the token savings."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The prompt text to optimize"),
		),
		mcp.WithString("input_format",
			mcp.Description("What the text contains: 'text' (default) or 'html' (normalized to the output format before optimizing)"),
			mcp.Enum("text", "html"),
		),
		mcp.WithString("extract_mode",
			mcp.Description("Content extraction for html input: 'readability' (default, extracts the main article), 'raw' (full document), or 'pruning' (scoring-based boilerplate removal)"),
			mcp.Enum("readability", "raw", "pruning"),
		),
		mcp.WithString("output_format",
			mcp.Description("Conversion target for html input: 'markdown' (default), 'text', or 'markdown_citations'"),
			mcp.Enum("markdown", "text", "markdown_citations"),
		),
		mcp.WithBoolean("include_stats",
			mcp.Description("Attach character/word/line/token measurements for the optimized text"),
		),
	)
	s.AddTool(optimizePromptTool, handleOptimizePrompt(apiURL, apiKey))

	// estimate_tokens tool
	estimateTokensTool := mcp.NewTool("estimate_tokens",
		mcp.WithDescription("Estimate the token count of a text using three heuristics (character-based, word-based, punctuation-weighted) and report how it fits into common model context windows."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to measure"),
		),
	)
	s.AddTool(estimateTokensTool, handleEstimateTokens(apiURL, apiKey))

	// batch_optimize tool
	batchOptimizeTool := mcp.NewTool("batch_optimize",
		mcp.WithDescription("Optimize multiple prompts in parallel and return the rewritten text and token savings for each. Useful for trimming a whole prompt library at once."),
		mcp.WithArray("texts",
			mcp.Required(),
			mcp.Description("List of prompt texts to optimize"),
		),
		mcp.WithString("input_format",
			mcp.Description("What each text contains: 'text' (default) or 'html'"),
			mcp.Enum("text", "html"),
		),
		mcp.WithString("output_format",
			mcp.Description("Conversion target for html input: 'markdown' (default), 'text', or 'markdown_citations'"),
			mcp.Enum("markdown", "text", "markdown_citations"),
		),
	)
	s.AddTool(batchOptimizeTool, handleBatchOptimize(apiURL, apiKey))

	// list_model_limits tool
	listModelLimitsTool := mcp.NewTool("list_model_limits",
		mcp.WithDescription("List the known model context windows. Optionally pass a token count to see the usage ratio and remaining budget per model."),
		mcp.WithNumber("tokens",
			mcp.Description("Token count to project against each context window (default: 0, list limits only)"),
		),
	)
	s.AddTool(listModelLimitsTool, handleListModelLimits(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the Distill API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// apiGet sends a GET request to the Distill API and returns the response body.
func apiGet(ctx context.Context, client *http.Client, apiURL, apiKey, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// pollJobCompletion polls a job endpoint until status is no longer "processing" or context is cancelled.
func pollJobCompletion(ctx context.Context, client *http.Client, apiURL, apiKey, endpoint string) ([]byte, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			body, err := apiGet(ctx, client, apiURL, apiKey, endpoint)
			if err != nil {
				return nil, fmt.Errorf("poll request failed: %w", err)
			}

			// Quick check if still processing.
			var status struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(body, &status); err != nil {
				return nil, fmt.Errorf("parse poll status: %w", err)
			}

			if status.Status != "processing" {
				return body, nil
			}
		}
	}
}

func handleOptimizePrompt(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		reqBody := optimizeRequest{
			Text:         text,
			InputFormat:  request.GetString("input_format", ""),
			ExtractMode:  request.GetString("extract_mode", ""),
			OutputFormat: request.GetString("output_format", ""),
			IncludeStats: request.GetBool("include_stats", false),
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/optimize", reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("optimize request failed: %v", err)), nil
		}

		var optResp optimizeResponse
		if err := json.Unmarshal(respBody, &optResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !optResp.Success {
			errMsg := "optimize failed"
			if optResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", optResp.Error.Code, optResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		// Build result with a savings footer
		result := optResp.OptimizedText
		result += fmt.Sprintf("\n\n---\nTokens: %d (saved %.2f%% from original %d)\nStrategies: %s",
			optResp.OptimizedTokens, optResp.ReductionPercent, optResp.OriginalTokens,
			strings.Join(optResp.AppliedStrategies, ", "))

		if optResp.Stats != nil {
			s := optResp.Stats
			result += fmt.Sprintf("\nStats: %d chars, %d words, %d lines", s.Characters, s.Words, s.Lines)
		}

		return mcp.NewToolResultText(result), nil
	}
}

func handleEstimateTokens(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 60 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/stats", map[string]string{"text": text})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("stats request failed: %v", err)), nil
		}

		var stResp statsResponse
		if err := json.Unmarshal(respBody, &stResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !stResp.Success {
			errMsg := "stats failed"
			if stResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", stResp.Error.Code, stResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		st := stResp.Stats
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Characters: %d\nWords: %d\nLines: %d\n", st.Characters, st.Words, st.Lines))
		sb.WriteString(fmt.Sprintf("Tokens: %d (char-based %d, word-based %d)\n", st.TokensAdvanced, st.TokensCharBased, st.TokensWordBased))

		if len(stResp.Models) > 0 {
			sb.WriteString("\nModel fit:\n")
			for _, m := range stResp.Models {
				sb.WriteString(fmt.Sprintf("  %s: %.1f%% used, %d remaining\n", m.Name, m.UsageRatio*100, m.Remaining))
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleBatchOptimize(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		texts, err := request.RequireStringSlice("texts")
		if err != nil {
			return mcp.NewToolResultError("texts is required and must be an array of strings"), nil
		}

		payload := map[string]interface{}{
			"texts": texts,
			"options": map[string]interface{}{
				"input_format":  request.GetString("input_format", ""),
				"output_format": request.GetString("output_format", ""),
			},
		}

		// POST to create batch job.
		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/batch/optimize", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("batch request failed: %v", err)), nil
		}

		var batchResp batchResponse
		if err := json.Unmarshal(respBody, &batchResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse batch response: %v", err)), nil
		}

		if batchResp.ID == "" {
			return mcp.NewToolResultError("batch job creation failed"), nil
		}

		// Poll for completion.
		resultBody, err := pollJobCompletion(ctx, client, apiURL, apiKey, "/api/v1/batch/"+batchResp.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("polling batch job failed: %v", err)), nil
		}

		var statusResp batchStatusResponse
		if err := json.Unmarshal(resultBody, &statusResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse batch status: %v", err)), nil
		}

		// Format results.
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Batch %s: %s (%d/%d completed)\n\n", statusResp.ID, statusResp.Status, statusResp.Completed, statusResp.Total))

		for i, raw := range statusResp.Results {
			var or optimizeResponse
			if err := json.Unmarshal(raw, &or); err != nil {
				sb.WriteString(fmt.Sprintf("--- Result %d: parse error ---\n\n", i+1))
				continue
			}
			if or.Success {
				sb.WriteString(fmt.Sprintf("--- [%d] %d tokens saved (%.2f%%) ---\n%s\n\n", i+1, or.Reduction, or.ReductionPercent, or.OptimizedText))
			} else {
				errMsg := "unknown error"
				if or.Error != nil {
					errMsg = or.Error.Message
				}
				sb.WriteString(fmt.Sprintf("--- [%d] FAILED: %s ---\n\n", i+1, errMsg))
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleListModelLimits(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 60 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tokens := 0
		if v, ok := request.GetArguments()["tokens"]; ok {
			if f, ok := v.(float64); ok {
				tokens = int(f)
			}
		}

		respBody, err := apiGet(ctx, client, apiURL, apiKey, fmt.Sprintf("/api/v1/models?tokens=%d", tokens))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("models request failed: %v", err)), nil
		}

		var mResp modelsResponse
		if err := json.Unmarshal(respBody, &mResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse models response: %v", err)), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Known model limits (%d models):\n\n", len(mResp.Models)))
		for _, m := range mResp.Models {
			if tokens > 0 {
				sb.WriteString(fmt.Sprintf("%s: %d context, %.1f%% used, %d remaining\n", m.Name, m.ContextSize, m.UsageRatio*100, m.Remaining))
			} else {
				sb.WriteString(fmt.Sprintf("%s: %d context\n", m.Name, m.ContextSize))
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
