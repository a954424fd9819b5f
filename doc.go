// Package html2img renders local HTML and Markdown files to PNG or JPEG
// images using a headless Chromium-family browser.
//
// # Quick Start
//
// Create a converter and run a batch:
//
//	conv, err := html2img.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	outcome, err := conv.Convert(ctx, html2img.Request{
//	    Inputs: []string{"report.html", "notes.md"},
//	    Format: html2img.FormatPNG,
//	    Width:  1920,
//	    Height: 1080,
//	}, nil)
//	if err != nil {
//	    log.Fatal(err) // no browser could be started, or the request is invalid
//	}
//	fmt.Printf("%d/%d converted\n", outcome.Succeeded, outcome.Total)
//
// # Render Protocol
//
// Each document goes through the same steps on one shared browser page:
//
//  1. Set the viewport to the requested width and height
//  2. Navigate to the file:// URL and wait for the load event
//  3. Settle, scroll to the origin, settle again
//  4. Measure the content height
//  5. If the content is taller, grow the viewport to fit it and settle
//  6. Capture a PNG screenshot of the viewport
//
// PNG output is the capture as-is. JPEG output is flattened onto a white
// background first, so transparent regions never turn black.
//
// # Browser Acquisition
//
// A batch needs exactly one browser. Strategies are tried in order and the
// first one that yields a browser wins:
//
//   - system-chrome: an installed Chrome or Chromium
//   - managed-chromium: a Chromium revision downloaded and cached by rod
//   - system-edge: an installed Microsoft Edge
//
// If all of them fail, Convert returns an *AcquisitionError listing each
// failure; it matches ErrDriverAcquisition with errors.Is.
//
// # Readiness
//
// FixedDelay waits 3s after load, 1s after scrolling and 2s after resizing.
// EventDriven waits for the load event and a short quiet period instead.
//
//	conv, err := html2img.NewConverter(
//	    html2img.WithReadiness(&html2img.EventDriven{Quiet: 250 * time.Millisecond}),
//	    html2img.WithBackend(html2img.BackendChromedp),
//	)
//
// # Batches
//
// Jobs run strictly in order. A failed job is recorded and the batch moves
// on; only a failure to acquire the browser aborts before any job runs.
// Cancel ctx (or call Run.Stop after Start) to stop early: the remaining
// jobs are reported as canceled and the browser is closed.
package html2img
