// Command badtl runs a dialogue file through a chain of machine translations.
//
// It takes no arguments. Everything is configured through .env, BADTL_*
// environment variables and the YAML file named by BADTL_CONFIG.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ZaguanLabs/badtl"
	"github.com/ZaguanLabs/badtl/config"
	"github.com/ZaguanLabs/badtl/processor"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Getenv("BADTL_CONFIG"), os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, stdin io.Reader, stdout, stderr io.Writer) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var in io.Reader = stdin
	inputName := "stdin"
	if settings.Input != "" {
		f, err := os.Open(settings.Input) // #nosec G304 - path comes from the operator's configuration
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		defer f.Close()
		in = f
		inputName = settings.Input
	}

	if settings.DryRun {
		return runDryRun(settings, in, stdout)
	}

	stack, err := config.Build(settings, stderr)
	if err != nil {
		return err
	}
	defer stack.Close()

	// a failed run must not leave a truncated output file behind
	var out io.Writer = stdout
	var buffered bytes.Buffer
	if settings.Output != "" {
		out = &buffered
	}

	if !settings.Quiet {
		fmt.Fprintf(stderr, "Translating %s via %s\n", inputName, stack.Translator.Route())
	}

	start := time.Now()
	result, err := stack.Translator.ProcessStream(ctx, in, out)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	elapsed := time.Since(start)

	if settings.Output != "" {
		if err := writeFile(settings.Output, buffered.Bytes()); err != nil {
			return err
		}
	}

	if settings.JSON {
		return outputJSON(stderr, result, elapsed)
	}

	if !settings.Quiet {
		fmt.Fprintf(stderr, "\nDone in %v\n", elapsed.Round(time.Millisecond))
		fmt.Fprintf(stderr, "  Chunks:          %d\n", result.TotalChunks)
		fmt.Fprintf(stderr, "  Translated hops: %d\n", result.TranslatedHops)
		fmt.Fprintf(stderr, "  Cached hops:     %d\n", result.CachedHops)
		fmt.Fprintf(stderr, "  Passed through:  %d\n", result.FallbackChunks)
	}

	return nil
}

// runDryRun shows the chunks and hops a run would use without calling a
// provider.
func runDryRun(settings *config.Settings, in io.Reader, stdout io.Writer) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	cfg := settings.Config()
	proc := processor.NewDialogueProcessor(processor.WithBudgets(cfg))
	_, nodes, err := proc.Extract(string(data))
	if err != nil {
		return err
	}
	hops := cfg.Hops()

	if settings.JSON {
		type chunkInfo struct {
			ID     string `json:"id"`
			Lines  string `json:"lines"`
			Length string `json:"length"`
		}
		out := struct {
			ChunkCount int         `json:"chunk_count"`
			HopCount   int         `json:"hop_count"`
			Requests   int         `json:"requests"`
			Hops       []string    `json:"hops"`
			Chunks     []chunkInfo `json:"chunks"`
		}{
			ChunkCount: len(nodes),
			HopCount:   len(hops),
			Requests:   len(nodes) * len(hops),
		}
		for _, h := range hops {
			out.Hops = append(out.Hops, h.String())
		}
		for _, n := range nodes {
			out.Chunks = append(out.Chunks, chunkInfo{
				ID:     n.ID,
				Lines:  n.Metadata["line_count"],
				Length: n.Metadata["length"],
			})
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(stdout, "Found %d chunks, %d hops, %d provider requests\n", len(nodes), len(hops), len(nodes)*len(hops))
	for _, h := range hops {
		fmt.Fprintf(stdout, "  %s (%s → %s)\n", h, badtl.GetLanguageName(h.From), badtl.GetLanguageName(h.To))
	}
	for _, n := range nodes {
		fmt.Fprintf(stdout, "  %s: %s lines, %s chars\n", n.ID, n.Metadata["line_count"], n.Metadata["length"])
	}
	return nil
}

// writeFile writes data to a temporary file next to path and renames it into
// place.
func writeFile(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	tmp := f.Name()

	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing output file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing output file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing output file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// outputJSON writes the run statistics as JSON.
func outputJSON(w io.Writer, result *badtl.ProcessedContent, elapsed time.Duration) error {
	out := struct {
		Version        string  `json:"version"`
		TotalChunks    int     `json:"total_chunks"`
		TranslatedHops int     `json:"translated_hops"`
		CachedHops     int     `json:"cached_hops"`
		FallbackChunks int     `json:"fallback_chunks"`
		ElapsedMs      float64 `json:"elapsed_ms"`
	}{
		Version:        badtl.FullVersion(),
		TotalChunks:    result.TotalChunks,
		TranslatedHops: result.TranslatedHops,
		CachedHops:     result.CachedHops,
		FallbackChunks: result.FallbackChunks,
		ElapsedMs:      float64(elapsed.Microseconds()) / 1000,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
