package wbl

import (
	"fmt"
	"log"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//ReadNpy reads the content of an npy file into a dense matrix.
func ReadNpy(fileName string) (denseMat *mat.Dense) {
	f, err := os.Open(fileName)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { HandleError(f.Close()) }()

	r, err := npyio.NewReader(f)
	if err != nil {
		log.Fatal(err)
	}

	denseMat = &mat.Dense{}
	HandleError(r.Read(denseMat))
	return
}

//ReadNpyTensor reads a three-dimensional npy array into a tensor for the
//ensemble and shift-invariant searches.
func ReadNpyTensor(fileName string) (dense *tensor.Dense) {
	f, err := os.Open(fileName)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { HandleError(f.Close()) }()

	r, err := npyio.NewReader(f)
	if err != nil {
		log.Fatal(err)
	}

	var raw []float64
	HandleError(r.Read(&raw))
	return tensor.New(tensor.WithShape(r.Header.Descr.Shape...), tensor.WithBacking(raw))
}

//WriteNpy stores a dense matrix into an npy file.
func WriteNpy(fileName string, denseMat *mat.Dense) {
	dst, err := os.Create(fileName)
	HandleError(err)
	defer func() { HandleError(dst.Close()) }()
	HandleError(npyio.Write(dst, denseMat))
}

//TreeMask flattens the flags of a tree into a column matrix of zeros and
//ones, the on-disk form of a selected basis.
func TreeMask(tree *BasisTree) *mat.Dense {
	mask := mat.NewDense(len(tree.Flags), 1, nil)
	for i, expanded := range tree.Flags {
		if expanded {
			mask.Set(i, 0, 1)
		}
	}
	return mask
}

//TreeFromMask rebuilds a tree of the given arity from a stored column of
//zeros and ones.
func TreeFromMask(mask *mat.Dense, arity int) (*BasisTree, error) {
	h, _ := mask.Dims()
	depth := 0
	for NumNodes(arity, depth) < h {
		depth++
	}
	if NumNodes(arity, depth) != h {
		return nil, fmt.Errorf("%w: %d mask entries fit no complete arity-%d tree", ErrShapeMismatch, h, arity)
	}
	tree, err := NewBasisTree(arity, depth)
	if err != nil {
		return nil, err
	}
	for i := 0; i < h; i++ {
		tree.Flags[i] = mask.At(i, 0) != 0
	}
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return tree, nil
}
