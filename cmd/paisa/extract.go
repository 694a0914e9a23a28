package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/paisaflow/paisaflow/internal/common"
	"github.com/paisaflow/paisaflow/internal/engine"
	"github.com/paisaflow/paisaflow/internal/extract"
	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/paisaflow/paisaflow/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract transactions from bank SMS messages",
		Long: `Run one message, or a JSONL backlog of messages, through the
extraction pipeline. Successful extractions are categorized and saved;
failures are reported with their reason and confidence.

Each line of a backlog file is a JSON object:
  {"sender": "VM-HDFCBK", "body": "...", "received_at": "2024-12-15T10:04:00Z"}`,
		RunE: runExtract,
	}

	cmd.Flags().String("sender", "", "sender identifier of a single message")
	cmd.Flags().String("body", "", "body of a single message")
	cmd.Flags().String("received", "", "receive time of a single message (RFC 3339, default: now)")
	cmd.Flags().String("file", "", "JSONL file of messages to process")
	cmd.Flags().Int("workers", 4, "concurrent extraction workers for backlog processing")
	cmd.Flags().Bool("dry-run", false, "extract and categorize without saving")

	return cmd
}

// backlogMessage is one line of a JSONL backlog file.
type backlogMessage struct {
	ReceivedAt time.Time `json:"received_at"`
	Sender     string    `json:"sender"`
	Body       string    `json:"body"`
}

func runExtract(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	file, _ := cmd.Flags().GetString("file")
	sender, _ := cmd.Flags().GetString("sender")
	body, _ := cmd.Flags().GetString("body")
	received, _ := cmd.Flags().GetString("received")
	workers, _ := cmd.Flags().GetInt("workers")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if file == "" && (sender == "" || body == "") {
		return errors.New("either --file or both --sender and --body are required")
	}

	store, cleanup, err := getDatabase(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	pipeline, err := newPipeline(ctx, store)
	if err != nil {
		return err
	}
	eng := engine.New(store)

	if file != "" {
		return runBacklog(ctx, store, pipeline, eng, file, workers, dryRun)
	}

	receivedAt := time.Now()
	if received != "" {
		receivedAt, err = time.Parse(time.RFC3339, received)
		if err != nil {
			return fmt.Errorf("invalid --received value: %w", err)
		}
	}

	msg := model.InboundMessage{Sender: sender, Body: body, ReceivedAt: receivedAt}
	result := extractWithRetry(ctx, pipeline, msg)

	txn, ok := result.Transaction()
	if !ok {
		slog.Warn("Extraction failed",
			"sender", msg.Sender,
			"reason", result.Reason(),
			"confidence", fmt.Sprintf("%.2f", result.Confidence()))
		return nil
	}

	categorization, err := eng.Categorize(ctx, txn)
	if err != nil {
		return fmt.Errorf("categorization failed: %w", err)
	}
	applyCategorization(&txn, categorization)

	if !dryRun {
		if err := store.SaveTransaction(ctx, &txn); err != nil {
			if errors.Is(err, common.ErrDuplicateEntry) {
				slog.Info("Transaction already recorded", "hash", txn.Hash)
				return nil
			}
			return err
		}
	}

	slog.Info("Transaction extracted",
		"id", txn.ID,
		"amount", txn.Amount.StringFixed(2),
		"direction", txn.Direction,
		"merchant", txn.MerchantName,
		"date", txn.Date.Format("2006-01-02"),
		"category", categorization.Category.Name,
		"category_reason", categorization.Reason,
		"extraction_confidence", fmt.Sprintf("%.2f", result.Confidence()))

	return nil
}

// backlogResult pairs one message with its extraction outcome, keyed by
// input position so reporting stays in file order.
type backlogResult struct {
	result model.ExtractionResult
	index  int
	sender string
}

// runBacklog pipelines extraction (parallel workers) ahead of
// categorization and persistence (serialized), so the per-merchant
// single-writer discipline is kept without stalling extraction.
func runBacklog(ctx context.Context, store service.Storage, pipeline *extract.Pipeline, eng *engine.CategorizationEngine, path string, workers int, dryRun bool) error {
	messages, err := readBacklog(path)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		slog.Info("No messages to process", "file", path)
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	slog.Info("Processing backlog", "file", path, "messages", len(messages), "workers", workers)
	bar := newExtractProgressBar(len(messages))

	jobs := make(chan backlogResult)
	results := make(chan backlogResult, len(messages))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				msg := messages[job.index]
				job.result = extractWithRetry(ctx, pipeline, model.InboundMessage{
					Sender:     msg.Sender,
					Body:       msg.Body,
					ReceivedAt: msg.ReceivedAt,
				})
				results <- job
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, msg := range messages {
			select {
			case jobs <- backlogResult{index: i, sender: msg.Sender}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var saved, duplicates, failed int
	failures := make(map[model.FailureReason]int)

	for item := range results {
		_ = bar.Add(1)

		txn, ok := item.result.Transaction()
		if !ok {
			failed++
			failures[item.result.Reason()]++
			slog.Debug("Extraction failed",
				"sender", item.sender,
				"reason", item.result.Reason(),
				"confidence", fmt.Sprintf("%.2f", item.result.Confidence()))
			continue
		}

		categorization, err := eng.Categorize(ctx, txn)
		if err != nil {
			return fmt.Errorf("categorization failed: %w", err)
		}
		applyCategorization(&txn, categorization)

		if dryRun {
			saved++
			continue
		}
		// Transient write failures are retried; duplicates never are.
		err = common.WithRetry(ctx, func() error {
			saveErr := store.SaveTransaction(ctx, &txn)
			if errors.Is(saveErr, common.ErrDuplicateEntry) {
				return &common.RetryableError{Err: saveErr, Retryable: false}
			}
			return saveErr
		}, service.RetryOptions{MaxAttempts: 3, InitialDelay: 50 * time.Millisecond})
		if err != nil {
			if errors.Is(err, common.ErrDuplicateEntry) {
				duplicates++
				continue
			}
			return err
		}
		saved++
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	slog.Info("Backlog complete",
		"saved", saved,
		"duplicates", duplicates,
		"failed", failed)
	for reason, count := range failures {
		slog.Info("Failure breakdown", "reason", reason, "count", count)
	}
	return nil
}

func readBacklog(path string) ([]backlogMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open backlog file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var messages []backlogMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var msg backlogMessage
		if err := json.Unmarshal(text, &msg); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if msg.ReceivedAt.IsZero() {
			msg.ReceivedAt = time.Now()
		}
		messages = append(messages, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read backlog file: %w", err)
	}
	return messages, nil
}

// extractWithRetry runs one message through the pipeline, allowing a
// timed-out message a single retry with the same input.
func extractWithRetry(ctx context.Context, pipeline *extract.Pipeline, msg model.InboundMessage) model.ExtractionResult {
	result := pipeline.Extract(ctx, msg)
	if result.Reason() == model.ReasonProcessingTimeout && ctx.Err() == nil {
		slog.Debug("Retrying timed out message", "sender", msg.Sender)
		result = pipeline.Extract(ctx, msg)
	}
	return result
}

func applyCategorization(txn *model.Transaction, c service.Categorization) {
	id := c.Category.ID
	txn.CategoryID = &id
	txn.Reason = c.Reason
	txn.Confidence = c.Confidence
}

func newExtractProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Extracting transactions...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
