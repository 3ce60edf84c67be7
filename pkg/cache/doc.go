// Package cache stores the byte payloads the pipeline produces: decoded
// hierarchy levels, rendered artifacts and raw API responses.
//
// # Backends
//
//   - [FileCache]: one JSON envelope per key under a directory (CLI default)
//   - [RedisCache]: shared cache for multi-instance servers
//   - [MongoCache]: document-backed cache with a TTL index
//   - [NullCache]: never stores anything
//
// All backends implement [Cache]. A zero or negative TTL means the entry
// never expires.
//
// # Keys
//
// A [Keyer] turns domain inputs into stable cache keys. [NewDefaultKeyer]
// hashes option structs so that any change in layout or render options
// yields a different key. [ScopedKeyer] prefixes every key, which keeps
// offline levels apart from API levels in a shared backend.
package cache
