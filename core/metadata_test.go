package core

import (
	"testing"
	"time"
)

func TestMetadataGetLastWins(t *testing.T) {
	key := NewKey[int]("attempts")

	md := WithValue(Metadata{}, key, 1)
	md = WithValue(md, key, 2)
	md = WithValue(md, key, 3)

	got, ok := Get(md, key)
	if !ok {
		t.Fatal("expected value for key")
	}
	if got != 3 {
		t.Errorf("expected last value 3, got %d", got)
	}
	if md.Len() != 3 {
		t.Errorf("expected all 3 entries retained, got %d", md.Len())
	}
}

func TestMetadataKeysCompareByIdentity(t *testing.T) {
	a := NewKey[string]("id")
	b := NewKey[string]("id")

	md := WithValue(Metadata{}, a, "for-a")
	if _, ok := Get(md, b); ok {
		t.Error("value stored under key a must not be visible through key b")
	}
	if v, ok := Get(md, a); !ok || v != "for-a" {
		t.Errorf("expected for-a, got %q (ok=%v)", v, ok)
	}
}

func TestMetadataImmutable(t *testing.T) {
	key := NewKey[int]("n")
	base := WithValue(Metadata{}, key, 1)

	left := WithValue(base, key, 2)
	right := WithValue(base, key, 3)

	if v, _ := Get(base, key); v != 1 {
		t.Errorf("base changed, got %d", v)
	}
	if v, _ := Get(left, key); v != 2 {
		t.Errorf("left branch got %d", v)
	}
	if v, _ := Get(right, key); v != 3 {
		t.Errorf("right branch got %d", v)
	}
}

func TestMetadataRepeatedKey(t *testing.T) {
	key := NewRepeatedKey[string]("note")

	md := WithValue(Metadata{}, key, "first")
	md = WithValue(md, key, "second")

	values := GetAll(md, key)
	if len(values) != 2 || values[0] != "first" || values[1] != "second" {
		t.Errorf("expected [first second], got %v", values)
	}
}

func TestConcatInnerOverridesOuter(t *testing.T) {
	single := NewKey[string]("env")
	repeated := NewRepeatedKey[int]("hop")

	outer := WithValue(Metadata{}, single, "outer")
	outer = WithValue(outer, repeated, 1)
	inner := WithValue(Metadata{}, single, "inner")
	inner = WithValue(inner, repeated, 2)

	merged := Concat(outer, inner)

	if v, _ := Get(merged, single); v != "inner" {
		t.Errorf("expected inner to win for single-valued key, got %q", v)
	}
	if hops := GetAll(merged, repeated); len(hops) != 2 || hops[0] != 1 || hops[1] != 2 {
		t.Errorf("expected outer value before inner for repeated key, got %v", hops)
	}
}

func TestConcatEmptySides(t *testing.T) {
	key := NewKey[int]("n")
	md := WithValue(Metadata{}, key, 7)

	if got := Concat(Metadata{}, md); got.Len() != 1 {
		t.Errorf("empty outer: expected 1 entry, got %d", got.Len())
	}
	if got := Concat(md, Metadata{}); got.Len() != 1 {
		t.Errorf("empty inner: expected 1 entry, got %d", got.Len())
	}
}

func TestEachEffective(t *testing.T) {
	single := NewKey[string]("env")
	repeated := NewRepeatedKey[int]("hop")

	md := WithValue(Metadata{}, single, "old")
	md = WithValue(md, repeated, 1)
	md = WithValue(md, repeated, 2)
	md = WithValue(md, single, "new")

	type pair struct {
		label string
		value any
	}
	var seen []pair
	md.EachEffective(func(key MetadataKey, value any) {
		seen = append(seen, pair{key.Label(), value})
	})

	want := []pair{{"env", "new"}, {"hop", 1}, {"hop", 2}}
	if len(seen) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(seen), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("entry %d: expected %v, got %v", i, want[i], seen[i])
		}
	}
}

func TestWellKnownKeys(t *testing.T) {
	md := WithValue(Metadata{}, KeyLogEveryN, uint64(100))
	md = WithValue(md, KeyLogAtMostEvery, time.Second)

	if !md.Has(KeyLogEveryN) {
		t.Error("expected KeyLogEveryN present")
	}
	if md.Has(KeyLogSampleEveryN) {
		t.Error("expected KeyLogSampleEveryN absent")
	}
	if d, _ := Get(md, KeyLogAtMostEvery); d != time.Second {
		t.Errorf("expected 1s, got %v", d)
	}
}
