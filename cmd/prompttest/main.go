package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"finance-agent/internal/analyses"
	"finance-agent/internal/bootstrap"
	"finance-agent/internal/extract"
	"finance-agent/internal/shared/config"
	"finance-agent/internal/shared/telemetry"
)

func main() {
	textFlag := flag.String("text", "", "Text to analyze")
	filePath := flag.String("file", "", "Path to a pdf, docx or txt file to analyze")
	contextFlag := flag.String("context", "", "Analysis context (defaults to ANALYSIS_DEFAULT_CONTEXT)")
	dryRun := flag.Bool("dry-run", false, "Print the prompt without calling the provider")
	outPath := flag.String("out", "", "Path to write JSON output (optional)")
	flag.Parse()

	text, err := readInput(*textFlag, *filePath, os.Stdin)
	if err != nil {
		exitErr(err.Error())
	}

	var steer *string
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "context" {
			steer = contextFlag
		}
	})
	req := analyses.NewRequest(text, steer)

	if *dryRun {
		svc := analyses.NewService(nil, analyses.Options{DefaultContext: defaultContext()})
		prompt, err := svc.Prompt(req)
		if err != nil {
			exitErr(err.Error())
		}
		writeOutput([]byte(prompt), *outPath)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		exitErr(err.Error())
	}
	telemetry.Configure(cfg.LogLevel)
	telemetry.SetOutput(os.Stderr)

	ctx := context.Background()
	gen, err := bootstrap.BuildGenerator(ctx, cfg)
	if err != nil {
		exitErr(err.Error())
	}
	svc := analyses.NewService(gen, analyses.Options{
		DefaultContext: cfg.DefaultContext,
		Timeout:        cfg.LLMTimeout,
		StrictSchema:   cfg.StrictSchema,
	})

	result, err := svc.Analyze(ctx, req)
	if err != nil {
		exitErr(fmt.Sprintf("%s (kind=%s)", analyses.DetailMessage(err), analyses.KindOf(err)))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, result, "", "  "); err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}
	writeOutput(pretty.Bytes(), *outPath)
}

func readInput(text, path string, stdin io.Reader) (string, error) {
	switch {
	case text != "":
		return text, nil
	case strings.TrimSpace(path) != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		extracted, err := extract.Text(context.Background(), data, "", filepath.Base(path))
		if err != nil {
			return "", fmt.Errorf("extract text: %w", err)
		}
		return extracted, nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
}

func defaultContext() string {
	if v := strings.TrimSpace(os.Getenv("ANALYSIS_DEFAULT_CONTEXT")); v != "" {
		return v
	}
	return config.DefaultAnalysisContext
}

func writeOutput(payload []byte, outPath string) {
	if outPath != "" {
		if err := os.WriteFile(outPath, payload, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}

	if _, err := os.Stdout.Write(payload); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
	if !bytes.HasSuffix(payload, []byte("\n")) {
		_, _ = os.Stdout.Write([]byte("\n"))
	}
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
