package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys for each kind of cached entry.
type Keyer interface {
	// HTTPKey keys a raw response from an upstream API.
	HTTPKey(namespace, key string) string
	// LevelKey keys a decoded hierarchy level.
	LevelKey(fiscalYear int, level string) string
	// ArtifactKey keys a rendered output derived from a level.
	ArtifactKey(levelHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render inputs that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	View        string  `json:"view"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Padding     float64 `json:"padding"`
	Amount      float64 `json:"amount"`
	Personalize bool    `json:"personalize"`
	Sort        string  `json:"sort,omitempty"`
	Order       string  `json:"order,omitempty"`
	Links       bool    `json:"links,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces readable keys for HTTP and level entries and hashed
// keys for artifacts.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (DefaultKeyer) LevelKey(fiscalYear int, level string) string {
	return hashKey("level", fiscalYear, level)
}

func (DefaultKeyer) ArtifactKey(levelHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", levelHash, opts)
}

// ScopedKeyer prefixes every key of an inner keyer. Offline runs use it so
// levels read from disk never mix with levels fetched from the API:
//
//	keyer := NewScopedKeyer(nil, "offline:")
type ScopedKeyer struct {
	Inner  Keyer
	Prefix string
}

// NewScopedKeyer wraps inner, or [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Inner: inner, Prefix: prefix}
}

func (k ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.Prefix + k.Inner.HTTPKey(namespace, key)
}

func (k ScopedKeyer) LevelKey(fiscalYear int, level string) string {
	return k.Prefix + k.Inner.LevelKey(fiscalYear, level)
}

func (k ScopedKeyer) ArtifactKey(levelHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Inner.ArtifactKey(levelHash, opts)
}

// Hash returns the hex SHA-256 of data. Level hashes and file cache names
// both use it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns kind:sha256(json(parts)). Struct parts hash by their JSON
// field names, so reordering fields keeps keys stable.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}
