package wbl

import (
	"errors"
	"path"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestTreeMaskRoundTrip(t *testing.T) {
	tree, _ := NewBasisTree(2, 3)
	tree.Flags[0] = true
	tree.Flags[2] = true

	rebuilt, err := TreeFromMask(TreeMask(tree), 2)
	if err != nil {
		t.Fatal(err)
	}
	if !sameFlags(tree, rebuilt) {
		t.Fatalf("mask round trip changed the tree: %v vs %v", tree.Flags, rebuilt.Flags)
	}
}

func TestTreeFromMaskRejectsBadLength(t *testing.T) {
	mask := mat.NewDense(10, 1, nil)
	if _, err := TreeFromMask(mask, 2); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch for 10 entries, got %v", err)
	}
}

func TestTreeFromMaskRejectsInvalidTree(t *testing.T) {
	mask := mat.NewDense(7, 1, nil)
	mask.Set(4, 0, 1) // a bottom-row node marked expanded
	if _, err := TreeFromMask(mask, 2); !errors.Is(err, ErrInvalidTree) {
		t.Fatalf("expected ErrInvalidTree, got %v", err)
	}
}

func TestNpyRoundTrip(t *testing.T) {
	fileName := path.Join(t.TempDir(), "table.npy")
	table := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})

	WriteNpy(fileName, table)
	rebuilt := ReadNpy(fileName)

	if !mat.EqualApprox(table, rebuilt, 1e-12) {
		t.Fatalf("npy round trip changed the table")
	}
}
