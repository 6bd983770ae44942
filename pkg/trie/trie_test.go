package trie

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/a6gr73-hash/surety-go/pkg/types"
)

func TestEmptyTrieHash(t *testing.T) {
	tr := New()
	if got := tr.Hash(); got != types.EmptyRootHash {
		t.Fatalf("empty trie hash = %s, want %s", got.Hex(), types.EmptyRootHash.Hex())
	}
}

func TestInsertRootHash(t *testing.T) {
	// Root hashes cross-checked against the canonical Ethereum trie.
	tr := New()
	mustPut(t, tr, "doe", "reindeer")
	mustPut(t, tr, "dog", "puppy")
	mustPut(t, tr, "dogglesworth", "cat")
	want := types.HexToHash("8aad789dff2f538bca5d8ea56e8abe10f4c7ba3a5dea95fea4cd6e7c3a1168d3")
	if got := tr.Hash(); got != want {
		t.Fatalf("root = %s, want %s", got.Hex(), want.Hex())
	}

	tr = New()
	mustPut(t, tr, "A", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	want = types.HexToHash("d23786fb4a010da3ce639d66d5e904a11dbc02746d1ce25029e53290cabf28ab")
	if got := tr.Hash(); got != want {
		t.Fatalf("root = %s, want %s", got.Hex(), want.Hex())
	}
}

func TestDeleteRootHash(t *testing.T) {
	tr := New()
	entries := []struct{ k, v string }{
		{"do", "verb"},
		{"ether", "wookiedoo"},
		{"horse", "stallion"},
		{"shaman", "horse"},
		{"doge", "coin"},
		{"ether", ""},
		{"dog", "puppy"},
		{"shaman", ""},
	}
	for _, e := range entries {
		if e.v == "" {
			if err := tr.Delete([]byte(e.k)); err != nil {
				t.Fatalf("Delete(%q): %v", e.k, err)
			}
		} else {
			mustPut(t, tr, e.k, e.v)
		}
	}
	want := types.HexToHash("5991bb8c6514148a29db676a14ac506cd2cd5775ace63c30a4fe457715e9ac84")
	if got := tr.Hash(); got != want {
		t.Fatalf("root = %s, want %s", got.Hex(), want.Hex())
	}
}

func TestGetPutDelete(t *testing.T) {
	tr := New()
	mustPut(t, tr, "alpha", "1")
	mustPut(t, tr, "alphabet", "2")
	mustPut(t, tr, "beta", "3")

	for _, kv := range []struct{ k, v string }{{"alpha", "1"}, {"alphabet", "2"}, {"beta", "3"}} {
		got, err := tr.Get([]byte(kv.k))
		if err != nil {
			t.Fatalf("Get(%q): %v", kv.k, err)
		}
		if string(got) != kv.v {
			t.Fatalf("Get(%q) = %q, want %q", kv.k, got, kv.v)
		}
	}
	if _, err := tr.Get([]byte("alp")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get of absent key: err = %v, want ErrNotFound", err)
	}

	if err := tr.Delete([]byte("alphabet")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := tr.Get([]byte("alphabet")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted key still resolves, err = %v", err)
	}
	if got, _ := tr.Get([]byte("alpha")); string(got) != "1" {
		t.Fatalf("sibling damaged by delete: %q", got)
	}
}

func TestPutEmptyValueDeletes(t *testing.T) {
	tr := New()
	mustPut(t, tr, "k", "v")
	before := tr.Hash()
	if err := tr.Put([]byte("k"), nil); err != nil {
		t.Fatalf("Put(nil): %v", err)
	}
	if got := tr.Hash(); got != types.EmptyRootHash {
		t.Fatalf("root after empty-value put = %s, want empty root", got.Hex())
	}
	if before == types.EmptyRootHash {
		t.Fatal("setup produced an empty trie")
	}
}

func TestUpdateExistingKey(t *testing.T) {
	tr := New()
	mustPut(t, tr, "key", "old")
	h1 := tr.Hash()
	mustPut(t, tr, "key", "new")
	if tr.Hash() == h1 {
		t.Fatal("hash unchanged after value update")
	}
	got, err := tr.Get([]byte("key"))
	if err != nil || string(got) != "new" {
		t.Fatalf("Get = %q, %v", got, err)
	}
}

func TestHashDeterministic(t *testing.T) {
	build := func(order []int) types.Hash {
		tr := New()
		for _, i := range order {
			mustPut(t, tr, fmt.Sprintf("key-%02d", i), fmt.Sprintf("val-%02d", i))
		}
		return tr.Hash()
	}
	fwd := build([]int{0, 1, 2, 3, 4, 5, 6, 7})
	rev := build([]int{7, 6, 5, 4, 3, 2, 1, 0})
	if fwd != rev {
		t.Fatalf("insertion order changed root: %s vs %s", fwd.Hex(), rev.Hex())
	}
}

func TestValueAliasing(t *testing.T) {
	tr := New()
	v := []byte("stable")
	if err := tr.Put([]byte("k"), v); err != nil {
		t.Fatal(err)
	}
	v[0] = 'X'
	got, err := tr.Get([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("stable")) {
		t.Fatalf("stored value aliased caller buffer: %q", got)
	}
}

func mustPut(t *testing.T, tr *Trie, k, v string) {
	t.Helper()
	if err := tr.Put([]byte(k), []byte(v)); err != nil {
		t.Fatalf("Put(%q): %v", k, err)
	}
}
