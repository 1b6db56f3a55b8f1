package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formmigrate/pkg/model"
	"github.com/goliatone/go-formmigrate/pkg/orchestrator"
)

type convertOptions struct {
	input  string
	output string
	yes    bool
}

func newConvertCommand(root *rootOptions, confirm confirmFunc) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an exported content item (or a list of them) into page blocks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConvert(cmd, root, opts, confirm)
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "exported JSON file, \"-\" for stdin")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "overwrite the output file without asking")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runConvert(cmd *cobra.Command, root *rootOptions, opts *convertOptions, confirm confirmFunc) error {
	cfg, logger, err := root.load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	raw, err := readInput(cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}
	requests, single, err := decodeRequests(raw)
	if err != nil {
		return err
	}

	orch := orchestrator.New(
		orchestrator.WithConfig(cfg),
		orchestrator.WithLogger(logger),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pages := make([]model.Page, 0, len(requests))
	for _, req := range requests {
		page, err := orch.ConvertPage(ctx, req)
		if err != nil {
			return fmt.Errorf("convert %s: %w", req.ID, err)
		}
		pages = append(pages, page)
	}

	var result any = pages
	if single {
		result = pages[0]
	}
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	payload = append(payload, '\n')

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(payload)
		return err
	}

	if _, err := os.Stat(opts.output); err == nil && !opts.yes {
		ok, err := confirm(fmt.Sprintf("%s exists. Overwrite?", opts.output))
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}
	if err := os.WriteFile(opts.output, payload, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("pages written", "output", opts.output, "pages", len(pages))
	return nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// decodeRequests accepts a single request object or an array of them. The
// boolean reports whether a single object was given.
func decodeRequests(raw []byte) ([]orchestrator.PageRequest, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, errors.New("input is empty")
	}
	if trimmed[0] == '[' {
		var requests []orchestrator.PageRequest
		if err := json.Unmarshal(trimmed, &requests); err != nil {
			return nil, false, fmt.Errorf("decode input: %w", err)
		}
		if len(requests) == 0 {
			return nil, false, errors.New("input holds no content items")
		}
		return requests, false, nil
	}
	var req orchestrator.PageRequest
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return nil, false, fmt.Errorf("decode input: %w", err)
	}
	return []orchestrator.PageRequest{req}, true, nil
}
