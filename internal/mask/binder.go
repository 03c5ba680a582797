package mask

import "sync"

// Binder tracks which fields have a mask attached and applies it.
// It is safe for concurrent use.
type Binder struct {
	mu     sync.RWMutex
	fields map[string]Kind
}

// NewBinder returns an empty Binder.
func NewBinder() *Binder {
	return &Binder{fields: make(map[string]Kind)}
}

// Attach detects the field's kind and registers it.
// Returns false if the field has no key, was already attached, or matches no
// kind.
func (b *Binder) Attach(f Field) (Kind, bool) {
	key := f.Key()
	if key == "" {
		return "", false
	}
	kind, ok := Detect(f)
	if !ok {
		return "", false
	}
	if !b.AttachAs(key, kind) {
		return "", false
	}
	return kind, true
}

// AttachAs registers key with an explicit kind, skipping detection.
// Returns false if key is empty, the kind has no layout, or key is already
// attached.
func (b *Binder) AttachAs(key string, kind Kind) bool {
	if key == "" {
		return false
	}
	if _, ok := LayoutFor(kind); !ok {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.fields[key]; exists {
		return false
	}
	b.fields[key] = kind
	return true
}

// Attached returns the kind bound to key.
func (b *Binder) Attached(key string) (Kind, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	k, ok := b.fields[key]
	return k, ok
}

// Detach removes key. Returns false if it was not attached.
func (b *Binder) Detach(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.fields[key]; !ok {
		return false
	}
	delete(b.fields, key)
	return true
}

// Len returns the number of attached fields.
func (b *Binder) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.fields)
}

// Apply formats raw with the mask bound to key.
// The second result is false, and raw is returned untouched, when key is not
// attached.
func (b *Binder) Apply(key, raw string) (string, bool) {
	kind, ok := b.Attached(key)
	if !ok {
		return raw, false
	}
	return Format(raw, kind), true
}

// ApplyAll formats every attached key in values and copies the rest through
// unchanged. The input map is not modified.
func (b *Binder) ApplyAll(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, raw := range values {
		out[key], _ = b.Apply(key, raw)
	}
	return out
}
