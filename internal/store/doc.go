// Package store persists the law document between crawl runs.
//
// The store is deliberately forgiving on the way in and strict on the way
// out: loading tolerates a missing or corrupt snapshot (the crawl simply
// starts from nothing), while a failed persist is a hard error because it
// would orphan everything fetched since the previous write.
package store
