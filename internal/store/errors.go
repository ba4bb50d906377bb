package store

import "errors"

// ErrPersistence indicates the snapshot could not be written to disk.
// Unlike load failures, which degrade to an empty document, a persist
// failure is fatal to a crawl run: continuing would silently discard
// everything fetched since the last successful write.
var ErrPersistence = errors.New("snapshot persistence failed")
