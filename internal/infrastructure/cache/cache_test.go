package cache

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skill-alert/internal/config"
	"skill-alert/internal/domain/skill"
)

type memStore struct {
	data   map[string][]byte
	gets   int
	sets   int
	getErr error
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) GetJSON(_ context.Context, key string, out any) (bool, error) {
	m.gets++
	if m.getErr != nil {
		return false, m.getErr
	}
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *memStore) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.sets++
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func TestCachedExtractor_StoresAndReuses(t *testing.T) {
	store := newMemStore()
	ce := NewCachedExtractor(skill.NewExtractor(skill.FallbackRegistry()), store, time.Minute, zap.NewNop())

	text := "Go and Docker on AWS"
	first := ce.Extract(text).Sorted()
	if store.sets != 1 {
		t.Fatalf("expected one cache write, got %d", store.sets)
	}

	// Poison the cached entry to prove the second call reads it.
	store.data[ExtractionKey(skill.FallbackRegistry().Fingerprint(), text)] = []byte(`["Rust"]`)
	second := ce.Extract(text).Sorted()
	if !reflect.DeepEqual(second, []string{"Rust"}) {
		t.Fatalf("expected cached value, got %v", second)
	}
	if !reflect.DeepEqual(first, []string{"AWS", "Docker", "Go"}) {
		t.Fatalf("unexpected extraction: %v", first)
	}
}

func TestCachedExtractor_IgnoresEntriesFromAnotherRegistry(t *testing.T) {
	store := newMemStore()
	text := "Go and Rust"

	withRust := skill.NewRegistry([]skill.Token{{Name: "Go"}, {Name: "Rust"}})
	first := NewCachedExtractor(skill.NewExtractor(withRust), store, time.Minute, nil).Extract(text)
	if !first.Has("Rust") {
		t.Fatalf("expected Rust from the first registry, got %v", first.Sorted())
	}

	withoutRust := skill.NewRegistry([]skill.Token{{Name: "Go"}})
	second := NewCachedExtractor(skill.NewExtractor(withoutRust), store, time.Minute, nil).Extract(text)
	if second.Has("Rust") || !second.Has("Go") {
		t.Fatalf("expected only Go after the registry changed, got %v", second.Sorted())
	}
	if store.sets != 2 {
		t.Fatalf("expected each registry to write its own entry, got %d writes", store.sets)
	}
}

func TestCachedExtractor_SkipsEmptyResultsAndErrors(t *testing.T) {
	store := newMemStore()
	ce := NewCachedExtractor(skill.NewExtractor(skill.FallbackRegistry()), store, time.Minute, nil)

	if got := ce.Extract("nothing relevant"); got.Len() != 0 {
		t.Fatalf("expected empty set, got %v", got.Sorted())
	}
	if store.sets != 0 {
		t.Fatalf("expected empty results not to be cached")
	}

	store.getErr = errors.New("connection refused")
	if got := ce.Extract("Kubernetes"); !got.Has("Kubernetes") {
		t.Fatalf("expected fallthrough to extractor on cache error, got %v", got.Sorted())
	}

	if ce.Registry().Len() != skill.FallbackRegistry().Len() {
		t.Fatalf("expected wrapped registry")
	}
}

func TestRedis_Unconfigured(t *testing.T) {
	r := NewRedis(config.RedisConfig{}, zap.NewNop())
	ctx := context.Background()

	if r.Available() {
		t.Fatalf("expected redis to be unavailable without a host")
	}
	if err := r.Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	var out []string
	if hit, err := r.GetJSON(ctx, "k", &out); hit || err != nil {
		t.Fatalf("expected miss without error, got hit=%v err=%v", hit, err)
	}
	if err := r.SetJSON(ctx, "k", []string{"x"}, 0); err != nil {
		t.Fatalf("expected no-op write, got %v", err)
	}
	if ok, err := r.SetIfNotExists(ctx, "lock", "token", time.Second); ok || err != nil {
		t.Fatalf("expected lock not granted, got ok=%v err=%v", ok, err)
	}
	if err := r.Release(ctx, "lock", "token"); err != nil {
		t.Fatalf("expected no-op release, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("expected no-op close, got %v", err)
	}

	var nilRedis *Redis
	if nilRedis.Available() {
		t.Fatalf("expected nil redis to be unavailable")
	}
}

func TestKeys(t *testing.T) {
	if ExtractionKey("r1", " Go ") != ExtractionKey("r1", "Go") {
		t.Fatalf("expected surrounding whitespace to be ignored")
	}
	if !strings.HasPrefix(ExtractionKey("r1", "Go"), "skills:extract:r1:") {
		t.Fatalf("unexpected prefix: %s", ExtractionKey("r1", "Go"))
	}
	if ExtractionKey("r1", "Go") == ExtractionKey("r2", "Go") {
		t.Fatalf("expected registry fingerprint to be part of the key")
	}

	id := uuid.MustParse("2b1c5f39-8f5e-4d4b-9b0c-3c7a3f0a9e11")
	if got := AlertLockKey(id, nil); got != "dispatch:alert:"+id.String()+":never" {
		t.Fatalf("unexpected never-sent key: %s", got)
	}
	sent := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("WIB", 7*3600))
	if got := AlertLockKey(id, &sent); got != "dispatch:alert:"+id.String()+":2024-01-01T20:04:05Z" {
		t.Fatalf("unexpected key: %s", got)
	}
}
