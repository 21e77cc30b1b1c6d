// Package library defines the storage boundary the generators save
// through: a binary-object store plus a metadata catalog. The real
// backend lives elsewhere; the in-memory implementation here backs the
// CLI and the local server.
package library

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xob0t/GoPromoGen/pkg/classify"
)

// ErrNotFound is returned for references the store does not hold.
var ErrNotFound = errors.New("object not found")

// Object is a stored binary payload.
type Object struct {
	Ref  string
	Name string
	Mime string
	Data []byte
}

// Record is the catalog entry for a saved image.
type Record struct {
	Ref         string    `json:"ref"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Mime        string    `json:"mime"`
	Size        int       `json:"size"`
	SavedAt     time.Time `json:"savedAt"`
}

// ObjectStore accepts raw bytes and returns a stable reference.
type ObjectStore interface {
	Put(ctx context.Context, name, mime string, data []byte) (string, error)
	Get(ctx context.Context, ref string) (*Object, error)
	Delete(ctx context.Context, ref string) error
}

// Catalog stores metadata for saved images.
type Catalog interface {
	Save(ctx context.Context, rec Record) error
	List(ctx context.Context) ([]Record, error)
}

// Memory is an in-memory ObjectStore and Catalog.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]*Object
	records []Record
	now     func() time.Time
}

// NewMemory creates an empty in-memory library.
func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string]*Object),
		now:     time.Now,
	}
}

func randomRef() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Put stores data and returns its reference.
func (m *Memory) Put(_ context.Context, name, mime string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("refusing to store empty object %q", name)
	}
	ref := randomRef()
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	m.objects[ref] = &Object{Ref: ref, Name: name, Mime: mime, Data: stored}
	m.mu.Unlock()
	return ref, nil
}

// Get retrieves a stored object by reference.
func (m *Memory) Get(_ context.Context, ref string) (*Object, error) {
	m.mu.RLock()
	obj, ok := m.objects[ref]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return obj, nil
}

// Delete removes a stored object.
func (m *Memory) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[ref]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	delete(m.objects, ref)
	return nil
}

// Save appends a catalog record. The boundary performs its own content
// moderation: explicit metadata never enters the catalog.
func (m *Memory) Save(_ context.Context, rec Record) error {
	if rec.Title == "" {
		return fmt.Errorf("record title is required")
	}
	if err := classify.ValidateSaveMetadata(rec.Title, rec.Description, rec.Tags); err != nil {
		return err
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = m.now()
	}

	m.mu.Lock()
	m.records = append(m.records, rec)
	m.mu.Unlock()
	return nil
}

// List returns catalog records, newest first.
func (m *Memory) List(_ context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, len(m.records))
	for i, rec := range m.records {
		out[len(m.records)-1-i] = rec
	}
	return out, nil
}
