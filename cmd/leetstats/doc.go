// Package main hosts the leetstats entrypoint.
//
// Architecture overview:
//   - harvest: queries the Wayback CDX index for captures of the problem page, fetches each capture through the
//     Colly-based fetcher, extracts accepted/submission counts (direct HTML fields, escaped stats JSON, archived API
//     replays), and rewrites the store from the records collected in the run.
//   - fetch: posts the questionStats GraphQL query through resty and upserts today's record into the store.
//   - Persistence: the store is a pretty-printed JSON file written atomically; when store.gcs_bucket is set every
//     write is mirrored to a GCS object.
//   - Configuration & plumbing: Viper populates config from env (LEETSTATS_*) and an optional file; zap provides
//     structured logging tagged with a per-run UUIDv7; Prometheus metrics live on a private registry and are
//     written to metrics.textfile at exit for the node_exporter textfile collector.
//
// Quick checklist:
//   - Run locally: go run ./cmd/leetstats harvest, then go run ./cmd/leetstats fetch.
//   - Both commands exit non-zero on any fatal error and react to SIGINT/SIGTERM between requests.
package main
