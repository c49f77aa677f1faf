// Package registry tracks live websocket connections grouped by topic.
//
// Topics are created lazily on first subscribe and removed when their last
// subscriber leaves. State is sharded into fixed mutex-guarded buckets hashed
// by topic, so dispatch snapshots never contend with unrelated topics.
// Each registered connection gets a writer goroutine with a bounded send
// buffer; slow consumers fail fast instead of stalling a broadcast.
package registry
