package btree

import (
	"encoding/binary"
	"math/rand"
	"sort"
	"testing"

	"github.com/go-faker/faker/v4"
)

// applyRandomOps runs a random mix of inserts and deletes against a tree and
// a map, comparing results after every operation.
func applyRandomOps(t *testing.T, degree int, seed int64, steps, keyRange int) {
	t.Helper()
	rnd := rand.New(rand.NewSource(seed))
	tree := newIntTree(t, degree)
	model := make(map[int]string)
	for step := 0; step < steps; step++ {
		k := rnd.Intn(keyRange)
		if rnd.Intn(3) == 0 {
			want, present := model[k]
			got, ok := tree.Delete(k)
			if ok != present || got != want {
				t.Fatalf("seed=%d step=%d: delete(%d) = %q,%v, model has %q,%v",
					seed, step, k, got, ok, want, present)
			}
			delete(model, k)
		} else {
			v := val(step)
			want, present := model[k]
			prev, replaced := tree.Insert(k, v)
			if replaced != present || prev != want {
				t.Fatalf("seed=%d step=%d: insert(%d) = %q,%v, model has %q,%v",
					seed, step, k, prev, replaced, want, present)
			}
			model[k] = v
		}
		if tree.Len() != len(model) {
			t.Fatalf("seed=%d step=%d: size %d, model %d", seed, step, tree.Len(), len(model))
		}
		if err := tree.Check(); err != nil {
			t.Fatalf("seed=%d step=%d: %v", seed, step, err)
		}
	}
	for k := 0; k < keyRange; k++ {
		want, present := model[k]
		got, ok := tree.Search(k)
		if ok != present || got != want {
			t.Errorf("seed=%d: search(%d) = %q,%v, model has %q,%v", seed, k, got, ok, want, present)
		}
	}
	assertSortedIteration(t, tree, model)
}

func assertSortedIteration(t *testing.T, tree *Tree[int, string], model map[int]string) {
	t.Helper()
	want := make([]int, 0, len(model))
	for k := range model {
		want = append(want, k)
	}
	sort.Ints(want)
	var got []int
	tree.ForEach(func(k int, v string) bool {
		if model[k] != v {
			t.Errorf("ForEach yields %d -> %q, model has %q", k, v, model[k])
		}
		got = append(got, k)
		return true
	})
	if !equalInts(got, want) {
		t.Errorf("ForEach order %v, want %v", got, want)
	}
}

func TestRandomOperationsAgainstMap(t *testing.T) {
	for degree := 2; degree <= 6; degree++ {
		for seed := int64(1); seed <= 5; seed++ {
			applyRandomOps(t, degree, seed*int64(degree), 2000, 300)
		}
	}
}

func TestWordKeys(t *testing.T) {
	tree, err := New[string, int](3)
	if err != nil {
		t.Fatal(err)
	}
	model := make(map[string]int)
	for i := 0; i < 500; i++ {
		w := faker.Word() + faker.Word()
		tree.Insert(w, i)
		model[w] = i
	}
	if tree.Len() != len(model) {
		t.Fatalf("size %d, model %d", tree.Len(), len(model))
	}
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
	prev := ""
	tree.ForEach(func(k string, v int) bool {
		if k <= prev && prev != "" {
			t.Errorf("keys out of order: %q after %q", k, prev)
		}
		if model[k] != v {
			t.Errorf("%q -> %d, model has %d", k, v, model[k])
		}
		prev = k
		return true
	})
	for w := range model {
		if _, ok := tree.Delete(w); !ok {
			t.Fatalf("delete(%q) failed", w)
		}
	}
	if !tree.IsEmpty() {
		t.Errorf("tree not empty after removing all words, len=%d", tree.Len())
	}
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
}

// FuzzTreeOperations interprets the input as a sequence of 2-byte operations:
// the low bit of the first byte selects delete or insert, the second byte is
// the key.
func FuzzTreeOperations(f *testing.F) {
	f.Add([]byte{0, 1, 0, 2, 0, 3, 0, 4, 1, 2}, uint8(2))
	f.Add([]byte{0, 10, 0, 20, 0, 5, 1, 10, 1, 5, 1, 20}, uint8(3))
	f.Fuzz(func(t *testing.T, ops []byte, d uint8) {
		degree := 2 + int(d%5)
		tree := newIntTree(t, degree)
		model := make(map[int]string)
		for i := 0; i+1 < len(ops); i += 2 {
			k := int(ops[i+1])
			if ops[i]&1 == 1 {
				_, ok := tree.Delete(k)
				if _, present := model[k]; ok != present {
					t.Fatalf("delete(%d) reported %v", k, ok)
				}
				delete(model, k)
			} else {
				v := val(int(binary.BigEndian.Uint16(ops[i : i+2])))
				tree.Insert(k, v)
				model[k] = v
			}
			if err := tree.Check(); err != nil {
				t.Fatal(err)
			}
		}
		if tree.Len() != len(model) {
			t.Fatalf("size %d, model %d", tree.Len(), len(model))
		}
		assertSortedIteration(t, tree, model)
	})
}
