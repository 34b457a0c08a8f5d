package store

import (
	"context"
	"testing"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestReadListMissingKey(t *testing.T) {
	t.Parallel()

	s := NewMemory(nil)
	if got := ReadList[record](context.Background(), s, KeyUsers); got != nil {
		t.Fatalf("expected nil for absent key, got %v", got)
	}
}

func TestReadListMalformedPayload(t *testing.T) {
	t.Parallel()

	s := NewMemory(nil)
	if err := s.Write(context.Background(), KeyUsers, []byte("{not json")); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if got := ReadList[record](context.Background(), s, KeyUsers); got != nil {
		t.Fatalf("malformed collection should read as empty, got %v", got)
	}
}

func TestWriteListRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewMemory(nil)
	in := []record{{ID: "a", Name: "first"}, {ID: "b", Name: "second"}}
	if err := WriteList(context.Background(), s, KeyProperties, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := ReadList[record](context.Background(), s, KeyProperties)
	if len(out) != 2 || out[0].ID != "a" || out[1].Name != "second" {
		t.Fatalf("unexpected round trip result: %v", out)
	}
}

func TestWriteListNilPersistsEmptyArray(t *testing.T) {
	t.Parallel()

	s := NewMemory(nil)
	if err := WriteList[record](context.Background(), s, KeyReviews, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := s.Read(context.Background(), KeyReviews)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("nil slice should persist as empty array, got %q", raw)
	}
}

func TestReadCellPresenceAndMalformed(t *testing.T) {
	t.Parallel()

	s := NewMemory(nil)
	if _, ok := ReadCell[record](context.Background(), s, KeyCurrentUser); ok {
		t.Fatal("absent cell should report not present")
	}

	if err := WriteCell(context.Background(), s, KeyCurrentUser, record{ID: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := ReadCell[record](context.Background(), s, KeyCurrentUser)
	if !ok || got.ID != "x" {
		t.Fatalf("unexpected cell read: %v %v", got, ok)
	}

	if err := s.Write(context.Background(), KeyCurrentUser, []byte("??")); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if _, ok := ReadCell[record](context.Background(), s, KeyCurrentUser); ok {
		t.Fatal("malformed cell should read as absent")
	}
}
