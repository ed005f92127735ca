package boxlite

// Edge numbers a box edge in its local frame, drawn with +y up and +x
// right:
//
//	       e1
//	  v2 ------ v1
//	   |        |
//	e2 |        | e4
//	   |        |
//	  v3 ------ v4
//	       e3
type Edge uint8

const (
	NoEdge Edge = iota
	Edge1
	Edge2
	Edge3
	Edge4
)

// FeaturePair identifies which edges produced a contact point. Index 1 is
// the reference box, index 2 the incident box. It is compared by value.
type FeaturePair struct {
	InEdge1  Edge
	OutEdge1 Edge
	InEdge2  Edge
	OutEdge2 Edge
}

// Flip swaps the reference and incident halves.
func (fp *FeaturePair) Flip() {
	fp.InEdge1, fp.InEdge2 = fp.InEdge2, fp.InEdge1
	fp.OutEdge1, fp.OutEdge2 = fp.OutEdge2, fp.OutEdge1
}

// Key packs the pair into one integer, e.g. for map keys or logs.
func (fp FeaturePair) Key() uint32 {
	return uint32(fp.InEdge1) | uint32(fp.OutEdge1)<<8 | uint32(fp.InEdge2)<<16 | uint32(fp.OutEdge2)<<24
}
