package html2img_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-html2img"
)

// Example renders two pages to PNG next to their sources (requires Chrome,
// Chromium or Edge, or network access for the managed Chromium).
func Example() {
	conv, err := html2img.NewConverter(html2img.WithTimeout(30 * time.Second))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	outcome, err := conv.Convert(context.Background(), html2img.Request{
		Inputs: []string{"report.html", "notes.md"},
		Format: html2img.FormatPNG,
		Width:  1280,
		Height: 720,
	}, func(done, total int, item html2img.ItemResult) {
		fmt.Printf("[%d/%d] %s -> %s\n", done, total, item.Input, item.Output)
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%d succeeded, %d failed\n", outcome.Succeeded, outcome.Failed())
}

// ExamplePlanJobs shows how outputs are named. Duplicate inputs are dropped.
func ExamplePlanJobs() {
	jobs, err := html2img.PlanJobs(html2img.Request{
		Inputs:    []string{"pages/a.html", "pages/b.md", "pages/a.html"},
		OutputDir: "shots",
		Format:    html2img.FormatJPEG,
		Width:     800,
		Height:    600,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, job := range jobs {
		fmt.Println(filepath.ToSlash(job.Output), job.Quality)
	}
	// Output:
	// shots/a.jpg 95
	// shots/b.jpg 95
}

// ExampleParseFormat shows the accepted spellings and the written extension.
func ExampleParseFormat() {
	for _, s := range []string{"PNG", "jpg", "gif"} {
		f, err := html2img.ParseFormat(s)
		if err != nil {
			fmt.Println(s, "rejected")
			continue
		}
		fmt.Println(s, f, f.Ext())
	}
	// Output:
	// PNG png .png
	// jpg jpeg .jpg
	// gif rejected
}

// ExampleWithStrategyOrder skips the local Chrome lookup and prefers Edge,
// falling back to the managed Chromium. Events are logged as JSON.
func ExampleWithStrategyOrder() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	conv, err := html2img.NewConverter(
		html2img.WithStrategyOrder(html2img.StrategySystemEdge, html2img.StrategyManagedChromium),
		html2img.WithBackend(html2img.BackendChromedp),
		html2img.WithNoSandbox(true),
		html2img.WithReadiness(&html2img.EventDriven{Quiet: 200 * time.Millisecond}),
		html2img.WithLogger(logger),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	_ = conv
}

// ExampleConverter_Start runs a batch in the background and stops it early.
func ExampleConverter_Start() {
	conv, err := html2img.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	run := conv.Start(context.Background(), html2img.Request{
		Inputs: []string{"a.html", "b.html", "c.html"},
		Format: html2img.FormatPNG,
		Width:  html2img.DefaultWidth,
		Height: html2img.DefaultHeight,
	}, nil)

	select {
	case <-run.Done():
	case <-time.After(10 * time.Second):
		run.Stop()
	}

	outcome, err := run.Wait()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("canceled:", outcome.Canceled)
}
