package geth

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/a6gr73-hash/surety-go/pkg/crypto"
	"github.com/a6gr73-hash/surety-go/pkg/trie"
	"github.com/a6gr73-hash/surety-go/pkg/types"
)

// buildBoth inserts the same entries into the local trie and the
// go-ethereum reference trie.
func buildBoth(t *testing.T, entries map[string]string) (*trie.Trie, *ProofBuilder) {
	t.Helper()
	local := trie.New()
	ref := NewProofBuilder()
	t.Cleanup(func() { ref.Close() })
	for k, v := range entries {
		if err := local.Put([]byte(k), []byte(v)); err != nil {
			t.Fatalf("local Put(%q): %v", k, err)
		}
		if err := ref.Update([]byte(k), []byte(v)); err != nil {
			t.Fatalf("geth Update(%q): %v", k, err)
		}
	}
	return local, ref
}

func TestRootParity(t *testing.T) {
	cases := []map[string]string{
		{},
		{"k": "v"},
		{"doe": "reindeer", "dog": "puppy", "dogglesworth": "cat"},
		{"do": "verb", "dog": "puppy", "doge": "coin", "horse": "stallion"},
	}
	for i, entries := range cases {
		local, ref := buildBoth(t, entries)
		if got, want := local.Hash(), ref.Root(); got != want {
			t.Fatalf("case %d: local root %s, reference root %s", i, got.Hex(), want.Hex())
		}
	}
}

func TestRootParityEmptyTrie(t *testing.T) {
	ref := NewProofBuilder()
	defer ref.Close()
	if got := ref.Root(); got != types.EmptyRootHash {
		t.Fatalf("empty reference root = %s, want %s", got.Hex(), types.EmptyRootHash.Hex())
	}
}

func TestRootParityHashedKeys(t *testing.T) {
	local := trie.New()
	ref := NewProofBuilder()
	defer ref.Close()
	for i := 0; i < 100; i++ {
		key := crypto.Keccak256([]byte(fmt.Sprintf("tx-%d", i)))
		val := []byte(fmt.Sprintf("receipt-%d", i))
		if err := local.Put(key, val); err != nil {
			t.Fatal(err)
		}
		if err := ref.Update(key, val); err != nil {
			t.Fatal(err)
		}
	}
	if got, want := local.Hash(), ref.Root(); got != want {
		t.Fatalf("local root %s, reference root %s", got.Hex(), want.Hex())
	}
}

func TestDeleteParity(t *testing.T) {
	local, ref := buildBoth(t, map[string]string{
		"do": "verb", "ether": "wookiedoo", "horse": "stallion",
		"shaman": "horse", "doge": "coin", "dog": "puppy",
	})
	for _, k := range []string{"ether", "shaman"} {
		if err := local.Delete([]byte(k)); err != nil {
			t.Fatal(err)
		}
		if err := ref.Delete([]byte(k)); err != nil {
			t.Fatal(err)
		}
	}
	if got, want := local.Hash(), ref.Root(); got != want {
		t.Fatalf("local root %s, reference root %s", got.Hex(), want.Hex())
	}
}

// Proofs from both implementations must be identical node for node, and the
// reference proof must satisfy the local verifier.
func TestProofParity(t *testing.T) {
	entries := map[string]string{
		"doe": "reindeer", "dog": "puppy", "dogglesworth": "cat",
		"do": "verb", "horse": "stallion",
	}
	local, ref := buildBoth(t, entries)
	root := local.Hash()

	for k, v := range entries {
		refProof, err := ref.Prove([]byte(k))
		if err != nil {
			t.Fatalf("reference Prove(%q): %v", k, err)
		}
		localProof, err := local.Prove([]byte(k))
		if err != nil {
			t.Fatalf("local Prove(%q): %v", k, err)
		}
		if len(refProof) != len(localProof) {
			t.Fatalf("Prove(%q): %d reference nodes vs %d local", k, len(refProof), len(localProof))
		}
		for i := range refProof {
			if !bytes.Equal(refProof[i], localProof[i]) {
				t.Fatalf("Prove(%q) node %d: reference %x, local %x", k, i, refProof[i], localProof[i])
			}
		}

		ok, err := trie.VerifyInclusion(root, []byte(k), []byte(v), refProof)
		if err != nil || !ok {
			t.Fatalf("reference proof for %q failed local verification: %v, %v", k, ok, err)
		}
	}
}

func TestExclusionProofParity(t *testing.T) {
	local, ref := buildBoth(t, map[string]string{
		"doe": "reindeer", "dog": "puppy", "horse": "stallion",
	})
	root := local.Hash()

	for _, absent := range []string{"do", "doggo", "zebra", "dots"} {
		refProof, err := ref.Prove([]byte(absent))
		if err != nil {
			t.Fatalf("reference Prove(%q): %v", absent, err)
		}
		ok, err := trie.VerifyNonInclusion(root, []byte(absent), refProof)
		if err != nil || !ok {
			t.Fatalf("reference exclusion proof for %q rejected locally: %v, %v", absent, ok, err)
		}
	}
}

func TestHashConversionRoundTrip(t *testing.T) {
	h := types.HexToHash("0102030400000000000000000000000000000000000000000000000000000000")
	if FromGethHash(ToGethHash(h)) != h {
		t.Fatal("hash conversion round trip failed")
	}
}
