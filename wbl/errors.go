package wbl

import "errors"

//Errors returned by the search and tree routines. All of them are terminal
//for the call: there is no fallback tree and no default cost.
var (
	ErrShapeMismatch  = errors.New("coefficient table shape does not match the tree")
	ErrInvalidTree    = errors.New("tree is not prefix-closed")
	ErrDepth          = errors.New("decomposition depth out of range")
	ErrUnknownVariant = errors.New("unknown variant")
)
