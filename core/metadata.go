package core

// MetadataKey is the untyped view of a metadata key, used when iterating
// metadata without knowing the value types involved.
type MetadataKey interface {
	// Label returns the key's display name. Labels are not identifiers:
	// two keys with the same label are still distinct keys.
	Label() string

	// Repeatable reports whether multiple values for this key are
	// preserved. Values of non-repeatable keys supersede earlier ones.
	Repeatable() bool
}

// Key is a typed metadata key. Keys compare by identity: every call to
// NewKey yields a new key, even for a label used before. Packages are
// expected to create their keys once in package scope.
type Key[T any] struct {
	label      string
	repeatable bool
}

// NewKey creates a single-valued metadata key. When metadata holding several
// values for the key is merged or read, only the last value survives.
func NewKey[T any](label string) *Key[T] {
	return &Key[T]{label: label}
}

// NewRepeatedKey creates a metadata key for which every recorded value is
// preserved in order.
func NewRepeatedKey[T any](label string) *Key[T] {
	return &Key[T]{label: label, repeatable: true}
}

// Label returns the key's display name.
func (k *Key[T]) Label() string { return k.label }

// Repeatable reports whether the key preserves multiple values.
func (k *Key[T]) Repeatable() bool { return k.repeatable }

type metadataEntry struct {
	key   MetadataKey
	value any
}

// Metadata is an ordered collection of key/value pairs carried by a log
// record. The zero value is empty and ready to use. Metadata values are
// immutable; WithValue and Concat return extended copies, so a Metadata may
// be shared freely between goroutines.
type Metadata struct {
	entries []metadataEntry
}

// WithValue returns a copy of md with value appended under key.
func WithValue[T any](md Metadata, key *Key[T], value T) Metadata {
	return md.With(key, value)
}

// With returns a copy of md with an untyped value appended under key. The
// value must have the key's value type or a later typed Get will not see it;
// prefer WithValue where the key is statically known.
func (md Metadata) With(key MetadataKey, value any) Metadata {
	entries := make([]metadataEntry, len(md.entries), len(md.entries)+1)
	copy(entries, md.entries)
	entries = append(entries, metadataEntry{key: key, value: value})
	return Metadata{entries: entries}
}

// Concat returns outer's entries followed by inner's. Later entries win for
// single-valued keys, so inner metadata overrides outer.
func Concat(outer, inner Metadata) Metadata {
	if len(outer.entries) == 0 {
		return inner
	}
	if len(inner.entries) == 0 {
		return outer
	}
	entries := make([]metadataEntry, 0, len(outer.entries)+len(inner.entries))
	entries = append(entries, outer.entries...)
	entries = append(entries, inner.entries...)
	return Metadata{entries: entries}
}

// Get returns the value recorded for key, or false if the key is absent.
// For keys with several recorded values the last one is returned.
func Get[T any](md Metadata, key *Key[T]) (T, bool) {
	for i := len(md.entries) - 1; i >= 0; i-- {
		if md.entries[i].key == MetadataKey(key) {
			v, ok := md.entries[i].value.(T)
			return v, ok
		}
	}
	var zero T
	return zero, false
}

// GetAll returns every value recorded for key in insertion order. It is the
// natural accessor for repeated keys; for single-valued keys it also exposes
// superseded values.
func GetAll[T any](md Metadata, key *Key[T]) []T {
	var values []T
	for _, e := range md.entries {
		if e.key == MetadataKey(key) {
			if v, ok := e.value.(T); ok {
				values = append(values, v)
			}
		}
	}
	return values
}

// Has reports whether at least one entry exists for key.
func (md Metadata) Has(key MetadataKey) bool {
	for _, e := range md.entries {
		if e.key == key {
			return true
		}
	}
	return false
}

// Len returns the number of entries, counting superseded values.
func (md Metadata) Len() int { return len(md.entries) }

// At returns the i'th entry in insertion order.
func (md Metadata) At(i int) (MetadataKey, any) {
	e := md.entries[i]
	return e.key, e.value
}

// Each calls fn for every entry in insertion order, including superseded
// values of single-valued keys.
func (md Metadata) Each(fn func(key MetadataKey, value any)) {
	for _, e := range md.entries {
		fn(e.key, e.value)
	}
}

// EachEffective calls fn for every entry a backend should emit: repeatable
// keys contribute each value in order, single-valued keys contribute only
// their final value, at the position of their first occurrence.
func (md Metadata) EachEffective(fn func(key MetadataKey, value any)) {
	for i, e := range md.entries {
		if e.key.Repeatable() {
			fn(e.key, e.value)
			continue
		}
		if md.firstIndex(e.key) != i {
			continue
		}
		_, v := md.At(md.lastIndex(e.key))
		fn(e.key, v)
	}
}

func (md Metadata) firstIndex(key MetadataKey) int {
	for i, e := range md.entries {
		if e.key == key {
			return i
		}
	}
	return -1
}

func (md Metadata) lastIndex(key MetadataKey) int {
	for i := len(md.entries) - 1; i >= 0; i-- {
		if md.entries[i].key == key {
			return i
		}
	}
	return -1
}
