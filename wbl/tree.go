package wbl

import "fmt"

//BasisTree is a decomposition tree stored as a flat array of flags over a
//complete binary or quaternary tree in breadth-first order. The root has
//index 0. Flags[i] is true when node i was expanded into children and false
//when node i is a retained leaf of the currently considered basis. The
//bottom level (level == Depth) can never be expanded, so its flags stay
//false. Children of node i are 2i+1 and 2i+2 for arity 2 and 4i+1..4i+4 for
//arity 4, which makes node i address column i of a coefficient table
//directly.
type BasisTree struct {
	Arity int
	Depth int
	Flags []bool
}

//NumNodes returns the number of nodes of a complete tree of the given arity
//down to and including the given depth.
func NumNodes(arity, depth int) int {
	return (intPow(arity, depth+1) - 1) / (arity - 1)
}

//NewBasisTree creates a tree of the given arity and depth with every node
//marked as a leaf.
func NewBasisTree(arity, depth int) (*BasisTree, error) {
	if arity != 2 && arity != 4 {
		return nil, fmt.Errorf("%w: arity must be 2 or 4, got %d", ErrUnknownVariant, arity)
	}
	if depth < 0 {
		return nil, fmt.Errorf("%w: negative depth %d", ErrDepth, depth)
	}
	return &BasisTree{Arity: arity, Depth: depth, Flags: make([]bool, NumNodes(arity, depth))}, nil
}

//NewFullTree creates a tree where every node above the bottom level is
//expanded, that is the fully decomposed basis.
func NewFullTree(arity, depth int) (*BasisTree, error) {
	tree, err := NewBasisTree(arity, depth)
	if err != nil {
		return nil, err
	}
	for i := 0; i < tree.LevelOffset(depth); i++ {
		tree.Flags[i] = true
	}
	return tree, nil
}

//Clone returns a deep copy of the tree.
func (tree *BasisTree) Clone() *BasisTree {
	flags := make([]bool, len(tree.Flags))
	copy(flags, tree.Flags)
	return &BasisTree{Arity: tree.Arity, Depth: tree.Depth, Flags: flags}
}

//LevelOffset returns the index of the first node of the given level.
func (tree *BasisTree) LevelOffset(level int) int {
	return (intPow(tree.Arity, level) - 1) / (tree.Arity - 1)
}

//LevelOf returns the level of node i.
func (tree *BasisTree) LevelOf(i int) int {
	level := 0
	for tree.LevelOffset(level+1) <= i {
		level++
	}
	return level
}

//Child returns the index of the k-th child of node i, k in [0, Arity).
func (tree *BasisTree) Child(i, k int) int {
	return tree.Arity*i + 1 + k
}

//Left returns the first child of node i.
func (tree *BasisTree) Left(i int) int { return tree.Child(i, 0) }

//Right returns the last child of node i.
func (tree *BasisTree) Right(i int) int { return tree.Child(i, tree.Arity-1) }

//Parent returns the parent index of node i. The parent of the root is -1.
func (tree *BasisTree) Parent(i int) int {
	if i == 0 {
		return -1
	}
	return (i - 1) / tree.Arity
}

//NodeLength returns the number of samples covered by a node at the given
//level of a signal with signalLength samples. It fails when the level is
//outside the tree or the signal does not tile evenly at that level.
func (tree *BasisTree) NodeLength(signalLength, level int) (int, error) {
	if level < 0 || level > tree.Depth {
		return 0, fmt.Errorf("%w: level %d outside [0, %d]", ErrDepth, level, tree.Depth)
	}
	block := intPow(tree.Arity, level)
	if signalLength%block != 0 {
		return 0, fmt.Errorf("%w: signal length %d does not tile at level %d", ErrDepth, signalLength, level)
	}
	return signalLength / block, nil
}

//CheckSignalLength verifies that a signal of the given length can be
//decomposed down to the depth of the tree.
func (tree *BasisTree) CheckSignalLength(signalLength int) error {
	maxLevel, _ := intLog(tree.Arity, signalLength)
	if tree.Depth > maxLevel {
		return fmt.Errorf("%w: depth %d exceeds the %d levels of a length-%d signal",
			ErrDepth, tree.Depth, maxLevel, signalLength)
	}
	return nil
}

//Validate checks the prefix-closure invariant: an expanded node must not
//hang below a leaf, and the bottom level must not be expanded.
func (tree *BasisTree) Validate() error {
	if len(tree.Flags) != NumNodes(tree.Arity, tree.Depth) {
		return fmt.Errorf("%w: %d flags for a depth-%d arity-%d tree, want %d",
			ErrShapeMismatch, len(tree.Flags), tree.Depth, tree.Arity, NumNodes(tree.Arity, tree.Depth))
	}
	bottom := tree.LevelOffset(tree.Depth)
	for i, expanded := range tree.Flags {
		if !expanded {
			continue
		}
		if i >= bottom {
			return fmt.Errorf("%w: bottom node %d marked expanded", ErrInvalidTree, i)
		}
		if parent := tree.Parent(i); parent >= 0 && !tree.Flags[parent] {
			return fmt.Errorf("%w: node %d expanded under leaf %d", ErrInvalidTree, i, parent)
		}
	}
	return nil
}

//IsLeaf reports whether node i is a leaf of the basis: its own flag is false
//and every ancestor is expanded.
func (tree *BasisTree) IsLeaf(i int) bool {
	if tree.Flags[i] {
		return false
	}
	parent := tree.Parent(i)
	return parent < 0 || tree.Flags[parent]
}

//Leaves enumerates the leaf nodes of the basis in index order. For a valid
//tree the leaves partition the degrees of freedom of the signal.
func (tree *BasisTree) Leaves() []int {
	leaves := make([]int, 0)
	for i := range tree.Flags {
		if tree.IsLeaf(i) {
			leaves = append(leaves, i)
		}
	}
	return leaves
}

//LeafMask expands the tree into a boolean mask over the full node array,
//true exactly at the leaves of the basis. It maps node-level decisions back
//to the per-node coefficient layout.
func (tree *BasisTree) LeafMask() []bool {
	mask := make([]bool, len(tree.Flags))
	for _, leaf := range tree.Leaves() {
		mask[leaf] = true
	}
	return mask
}

//SampleLeaves maps every full-depth sample position to the index of the
//leaf covering it. A leaf at level d covers signalLength/arity^d
//consecutive positions of the flattened full-depth layout.
func (tree *BasisTree) SampleLeaves(signalLength int) ([]int, error) {
	if err := tree.CheckSignalLength(signalLength); err != nil {
		return nil, err
	}
	assignment := make([]int, signalLength)
	pos := 0
	// leaves are laid out depth-first left to right, matching the
	// frequency-band order of the flattened layout
	var walk func(node int) error
	walk = func(node int) error {
		if !tree.Flags[node] {
			length, err := tree.NodeLength(signalLength, tree.LevelOf(node))
			if err != nil {
				return err
			}
			for i := 0; i < length; i++ {
				assignment[pos] = node
				pos++
			}
			return nil
		}
		for k := 0; k < tree.Arity; k++ {
			if err := walk(tree.Child(node, k)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0); err != nil {
		return nil, err
	}
	if pos != signalLength {
		return nil, fmt.Errorf("%w: leaves cover %d of %d positions", ErrInvalidTree, pos, signalLength)
	}
	return assignment, nil
}

//CoarsestScalingRange returns the half-open index range of the
//lowest-frequency retained leaf in the flattened full-depth coefficient
//layout of a length-signalLength signal, together with the level of that
//leaf.
func (tree *BasisTree) CoarsestScalingRange(signalLength int) (lo, hi, level int, err error) {
	if err = tree.CheckSignalLength(signalLength); err != nil {
		return 0, 0, 0, err
	}
	node := 0
	for tree.Flags[node] {
		node = tree.Left(node)
		level++
	}
	length, err := tree.NodeLength(signalLength, level)
	if err != nil {
		return 0, 0, 0, err
	}
	return 0, length, level, nil
}

//FinestDetailRange is the symmetric operation for the highest-frequency
//retained leaf.
func (tree *BasisTree) FinestDetailRange(signalLength int) (lo, hi, level int, err error) {
	if err = tree.CheckSignalLength(signalLength); err != nil {
		return 0, 0, 0, err
	}
	node := 0
	for tree.Flags[node] {
		node = tree.Right(node)
		level++
	}
	length, err := tree.NodeLength(signalLength, level)
	if err != nil {
		return 0, 0, 0, err
	}
	return signalLength - length, signalLength, level, nil
}

//pruneBelowLeaves clears every flag hanging below a leaf so that the
//flag array satisfies the prefix-closure invariant again after the
//bottom-up selection flipped nodes independently.
func (tree *BasisTree) pruneBelowLeaves() {
	bottom := tree.LevelOffset(tree.Depth)
	for i := 0; i < bottom; i++ {
		if tree.Flags[i] {
			continue
		}
		for k := 0; k < tree.Arity; k++ {
			child := tree.Child(i, k)
			if child < len(tree.Flags) {
				tree.Flags[child] = false
			}
		}
	}
}
