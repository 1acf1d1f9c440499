// Package services defines shared utilities consumed by the pipeline stage
// implementations and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that keep failure
//     reporting consistent across stages (which stage failed, and why).
//   - A thin command runner abstraction that makes subprocess invocation of
//     external tools (ffmpeg, ffprobe, uvx) testable.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
