package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// CLI flags
var (
	apiURL = flag.String("api-url", "http://localhost:8080", "Distill API base URL")
	apiKey = flag.String("api-key", "", "API key for authenticated requests")
	runs   = flag.Int("runs", 3, "Number of runs per prompt for averaging")
	output = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Test prompts covering 5 verbosity profiles.
var testPrompts = []struct {
	Label string
	Text  string
}{
	{"Filler", "Please kindly note that I would really just like you to basically summarize the following document, and obviously make sure to actually keep the very most important points."},
	{"Redundant", "In order to complete this task, due to the fact that the deadline is close, at this point in time you should, in the event that anything is unclear, ask questions."},
	{"Passive", "The report was written by the analyst and the figures were reviewed by the team before the draft was approved by the manager."},
	{"Whitespace", "Summarize   the following\n\n\n\ntext    into three bullet points.\t\tKeep them   short."},
	{"Clean", "List three risks of the proposed migration."},
}

// --- Request / Response types (mirrors models package) ---

type optimizeRequest struct {
	Text string `json:"text"`
}

type optimizeResponse struct {
	Success           bool         `json:"success"`
	OptimizedText     string       `json:"optimized_text"`
	OriginalTokens    int          `json:"original_tokens"`
	OptimizedTokens   int          `json:"optimized_tokens"`
	Reduction         int          `json:"reduction"`
	ReductionPercent  float64      `json:"reduction_percent"`
	AppliedStrategies []string     `json:"applied_strategies"`
	Similarity        float64      `json:"similarity"`
	Timing            timingInfo   `json:"timing"`
	Error             *errorDetail `json:"error,omitempty"`
}

type timingInfo struct {
	TotalMs    int64 `json:"total_ms"`
	CleaningMs int64 `json:"cleaning_ms"`
	OptimizeMs int64 `json:"optimize_ms"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Benchmark result types ---

type runResult struct {
	Run              int     `json:"run"`
	TotalMs          int64   `json:"total_ms"`
	OptimizeMs       int64   `json:"optimize_ms"`
	OriginalTokens   int     `json:"original_tokens"`
	OptimizedTokens  int     `json:"optimized_tokens"`
	ReductionPercent float64 `json:"reduction_percent"`
	Similarity       float64 `json:"similarity"`
	Strategies       int     `json:"strategies"`
	Success          bool    `json:"success"`
	Error            string  `json:"error,omitempty"`
}

type promptAverages struct {
	TotalMs          float64 `json:"total_ms"`
	OptimizeMs       float64 `json:"optimize_ms"`
	ReductionPercent float64 `json:"reduction_percent"`
	Similarity       float64 `json:"similarity"`
}

type promptResult struct {
	Label    string          `json:"label"`
	Runs     []runResult     `json:"runs"`
	Averages *promptAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp    string         `json:"timestamp"`
	APIURL       string         `json:"api_url"`
	RunsPerInput int            `json:"runs_per_input"`
	Results      []promptResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== Distill Benchmark Suite ===")
	fmt.Printf("API URL:    %s\n", *apiURL)
	fmt.Printf("Runs/input: %d\n", *runs)
	fmt.Printf("Output:     %s\n", *output)
	fmt.Println()

	// Quick connectivity check.
	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Make sure Distill is running (e.g. make run)\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		APIURL:       *apiURL,
		RunsPerInput: *runs,
	}

	for _, t := range testPrompts {
		fmt.Printf("Benchmarking [%s] (%d chars) ...\n", t.Label, len(t.Text))
		pr := promptResult{Label: t.Label}

		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkPrompt(t.Text, i)
			if rr.Success {
				fmt.Printf("OK  %dms  %.1f%% saved\n", rr.TotalMs, rr.ReductionPercent)
			} else {
				fmt.Printf("FAILED: %s\n", rr.Error)
			}
			pr.Runs = append(pr.Runs, rr)
		}

		pr.Averages = computeAverages(pr.Runs)
		report.Results = append(report.Results, pr)
		fmt.Println()
	}

	// Print summary table.
	printTable(report.Results)

	// Write JSON report.
	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func benchmarkPrompt(text string, run int) runResult {
	rr := runResult{Run: run}

	bodyBytes, err := json.Marshal(optimizeRequest{Text: text})
	if err != nil {
		rr.Error = fmt.Sprintf("marshal error: %v", err)
		return rr
	}

	req, err := http.NewRequest("POST", *apiURL+"/api/v1/optimize", bytes.NewReader(bodyBytes))
	if err != nil {
		rr.Error = fmt.Sprintf("request error: %v", err)
		return rr
	}
	req.Header.Set("Content-Type", "application/json")
	if *apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+*apiKey)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()

	var or optimizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}

	rr.Success = or.Success
	rr.TotalMs = or.Timing.TotalMs
	rr.OptimizeMs = or.Timing.OptimizeMs
	rr.OriginalTokens = or.OriginalTokens
	rr.OptimizedTokens = or.OptimizedTokens
	rr.ReductionPercent = or.ReductionPercent
	rr.Similarity = or.Similarity
	rr.Strategies = len(or.AppliedStrategies)

	if or.Error != nil {
		rr.Error = or.Error.Message
	}

	return rr
}

func computeAverages(runs []runResult) *promptAverages {
	var successCount int
	var avg promptAverages

	for _, r := range runs {
		if !r.Success {
			continue
		}
		successCount++
		avg.TotalMs += float64(r.TotalMs)
		avg.OptimizeMs += float64(r.OptimizeMs)
		avg.ReductionPercent += r.ReductionPercent
		avg.Similarity += r.Similarity
	}

	if successCount == 0 {
		return nil
	}

	n := float64(successCount)
	avg.TotalMs /= n
	avg.OptimizeMs /= n
	avg.ReductionPercent /= n
	avg.Similarity /= n
	return &avg
}

func printTable(results []promptResult) {
	fmt.Println(strings.Repeat("─", 70))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PROMPT\tAvg Latency\tTokens\tSaved\tSimilarity\n")
	fmt.Fprintf(w, "──────\t───────────\t──────\t─────\t──────────\n")

	for _, r := range results {
		if r.Averages == nil {
			fmt.Fprintf(w, "%s\tFAILED\t-\t-\t-\n", r.Label)
			continue
		}

		// Token counts are identical across runs; take them from the
		// first successful one.
		first := r.Runs[0]
		for _, run := range r.Runs {
			if run.Success {
				first = run
				break
			}
		}

		fmt.Fprintf(w, "%s\t%dms\t%d -> %d\t%.1f%%\t%.2f\n",
			r.Label,
			int64(r.Averages.TotalMs),
			first.OriginalTokens,
			first.OptimizedTokens,
			r.Averages.ReductionPercent,
			r.Averages.Similarity,
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 70))
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
