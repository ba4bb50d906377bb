// Package pipeline provides a framework for executing crawl run stages in
// sequence.
//
// A run is processed through three stages: crawling the statute tree,
// rendering the run report, and archiving the run row. Each stage is
// implemented as a Step that reads the shared run context and extends it
// with what it produces.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running crawls
package pipeline
