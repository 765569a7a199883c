// Package cache defines the disk-backed datastore responsible for
// translating dataset-relative paths into <root>/<path> files. The store
// creates its root at construction, answers pure existence/absolute-path
// queries, and exposes one write primitive with safe semantics (temp file +
// rename) that adapter install steps use. Existence alone means hit: there
// is no TTL and no revalidation, a present file is never fetched again.
package cache
