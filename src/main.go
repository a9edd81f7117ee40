package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"google.golang.org/api/iterator"

	"rowfold.dev/arrange"
	"rowfold.dev/arrange/internal"
)

type CountArrangementsRequest struct {
	Lines        []string `json:"lines"`
	RecordScope  string   `json:"recordScope"`
	UnfoldFactor int      `json:"unfoldFactor"`
}

type LineFailure struct {
	Line  int    `json:"line"`
	Text  string `json:"text"`
	Error string `json:"error"`
}

type CountArrangementsResponse struct {
	Success  bool          `json:"success"`
	Plain    int64         `json:"plain"`
	Unfolded int64         `json:"unfolded"`
	Parsed   int           `json:"parsed"`
	Failed   []LineFailure `json:"failed,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func getRecordLines(ctx context.Context, scope string) ([]string, error) {
	client, err := bigquery.NewClient(ctx, "rowfold-x")
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	query := fmt.Sprintf("SELECT line FROM `rowfold-x.FirestoreQuery.all_records` WHERE scope = %q", scope)
	q := client.Query(query)
	q.Location = "US"

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Read: %w", err)
	}

	var lines []string
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("it.Next: %w", err)
		}

		line, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("row[0] is not a string: %v", row[0])
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func execute(ctx context.Context, req CountArrangementsRequest) (arrange.Totals, int, []internal.LineError, error) {
	if req.UnfoldFactor == 0 {
		req.UnfoldFactor = arrange.UnfoldFactor
	}
	if req.UnfoldFactor < 1 || req.UnfoldFactor > arrange.UnfoldFactor {
		return arrange.Totals{}, 0, nil, fmt.Errorf("unfoldFactor must be between 1 and %d", arrange.UnfoldFactor)
	}

	lines := req.Lines
	if req.RecordScope != "" {
		scoped, err := getRecordLines(ctx, req.RecordScope)
		if err != nil {
			return arrange.Totals{}, 0, nil, fmt.Errorf("getRecordLines: %w", err)
		}
		fmt.Printf("Loaded %d record lines for scope %q\n", len(scoped), req.RecordScope)
		lines = append(lines, scoped...)
	}

	if len(lines) == 0 {
		return arrange.Totals{}, 0, nil, fmt.Errorf("lines must not be empty")
	}

	deadline, ok := ctx.Deadline()
	timeout := 1 * time.Minute
	if ok {
		timeout = time.Until(deadline) - 5*time.Second
		fmt.Printf("Setting timeout to %v\n", timeout)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	specs, fails, err := internal.ReadRecords(ctx, strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		return arrange.Totals{}, 0, nil, fmt.Errorf("internal.ReadRecords: %w", err)
	}

	totals, err := arrange.Aggregate(ctx, specs, req.UnfoldFactor)
	if err != nil {
		return arrange.Totals{}, len(specs), fails, err
	}

	return totals, len(specs), fails, ctx.Err()
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

func countArrangements(w http.ResponseWriter, r *http.Request) {
	// Set CORS headers
	setCORSHeaders(w)

	// Handle OPTIONS request for CORS preflight
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, `{"success": false, "error": "Method %s not allowed"}`, r.Method)
		return
	}

	var req CountArrangementsRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fmt.Printf("Error parsing JSON body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		response := CountArrangementsResponse{
			Success: false,
			Error:   fmt.Sprintf("Invalid JSON: %v", err),
		}
		json.NewEncoder(w).Encode(response)
		return
	}

	totals, parsed, fails, err := execute(r.Context(), req)

	response := CountArrangementsResponse{
		Success:  err == nil,
		Plain:    totals.Plain,
		Unfolded: totals.Unfolded,
		Parsed:   parsed,
	}
	for _, fail := range fails {
		response.Failed = append(response.Failed, LineFailure{
			Line:  fail.Line,
			Text:  fail.Text,
			Error: fail.Err.Error(),
		})
	}

	if err != nil {
		response.Error = err.Error()
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Printf("Error marshaling response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success": false, "error": "Internal server error"}`)
		return
	}
}

func main() {
	funcframework.RegisterHTTPFunction("/count-arrangements", countArrangements)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		log.Fatalf("funcframework.StartHostPort: %v\n", err)
	}
}
