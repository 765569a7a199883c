// Package fetch makes missing cache files present. The Fetcher owns the
// ensure contract (exists → no-op; otherwise confirm, install, re-verify)
// and the interactive confirmation gate; the package-level helpers give
// adapters a shared download client, a uuid-scoped temp workspace with
// guaranteed cleanup, and zip installation into the cache store. Fetches are
// strictly sequential — there is no retry, no resume and no concurrency.
package fetch
