package geometry

import (
	"github.com/aetherray/pbr/pkg/core"
)

// bvhNode is either a leaf (index into the owning BVH's object slice) or
// an internal node with two children; -1 marks "not a leaf".
type bvhNode struct {
	bounds      core.AABB
	leafIndex   int
	left, right *bvhNode
}

func (n *bvhNode) isLeaf() bool { return n.left == nil }

// BVH indexes a slice of Objects for O(log n) closest-hit queries, built
// by recursive median split on the axis of largest centroid extent.
type BVH struct {
	objects []Object
	root    *bvhNode
}

type indexedBounds struct {
	index  int
	bounds core.AABB
}

// NewBVH builds a BVH over the given objects. The input slice's order is
// not preserved by the tree but the returned BVH keeps its own copy, so
// the caller's slice can be reused afterwards.
func NewBVH(objects []Object) *BVH {
	if len(objects) == 0 {
		return &BVH{}
	}
	entries := make([]indexedBounds, len(objects))
	for i, o := range objects {
		entries[i] = indexedBounds{index: i, bounds: o.Bounds()}
	}
	objsCopy := make([]Object, len(objects))
	copy(objsCopy, objects)
	root := buildBVHNode(entries)
	return &BVH{objects: objsCopy, root: root}
}

func buildBVHNode(entries []indexedBounds) *bvhNode {
	bounds := entries[0].bounds
	centroidMin := entries[0].bounds.Center()
	centroidMax := centroidMin
	for _, e := range entries[1:] {
		bounds = bounds.Union(e.bounds)
		c := e.bounds.Center()
		centroidMin = core.NewVec3(min(centroidMin.X, c.X), min(centroidMin.Y, c.Y), min(centroidMin.Z, c.Z))
		centroidMax = core.NewVec3(max(centroidMax.X, c.X), max(centroidMax.Y, c.Y), max(centroidMax.Z, c.Z))
	}

	if len(entries) == 1 {
		return &bvhNode{bounds: bounds, leafIndex: entries[0].index}
	}

	extent := centroidMax.Subtract(centroidMin)
	axis := 0
	if extent.Y >= componentAt(extent, axis) && extent.Y >= extent.Z {
		axis = 1
	}
	if extent.Z >= componentAt(extent, axis) {
		axis = 2
	}

	mid := len(entries) / 2
	nthElementByKey(entries, mid, func(e indexedBounds) float64 {
		return componentAt(e.bounds.Center(), axis)
	})

	left := buildBVHNode(entries[:mid])
	right := buildBVHNode(entries[mid:])

	return &bvhNode{bounds: bounds, left: left, right: right, leafIndex: -1}
}

func componentAt(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// nthElementByKey partitions entries in place (Hoare quickselect) so the
// element at index k is the one that would occupy position k if entries
// were fully sorted by key, with everything before it ≤ and everything
// after it ≥. There is no nth_element in the standard library.
func nthElementByKey(entries []indexedBounds, k int, key func(indexedBounds) float64) {
	lo, hi := 0, len(entries)-1
	for lo < hi {
		pivot := key(entries[(lo+hi)/2])
		i, j := lo, hi
		for i <= j {
			for key(entries[i]) < pivot {
				i++
			}
			for key(entries[j]) > pivot {
				j--
			}
			if i <= j {
				entries[i], entries[j] = entries[j], entries[i]
				i++
				j--
			}
		}
		if k <= j {
			hi = j
		} else if k >= i {
			lo = i
		} else {
			return
		}
	}
}

func (b *BVH) Bounds() core.AABB {
	if b.root == nil {
		return core.AABB{}
	}
	return b.root.bounds
}

// Center returns the midpoint of the tree's world bounding box; it is
// exposed as scene.Scene.Center. Of the two world-extent methods, only
// Radius feeds the integrator, as the finite horizon for rays toward a
// directional light.
func (b *BVH) Center() core.Vec3 {
	return b.Bounds().Center()
}

// Radius returns the world bounding box's bounding-sphere radius, falling
// back to a generous default when the BVH is empty. Grounded on the
// teacher's BVH.Radius (precomputed at construction for infinite-light PDF
// calculations); computed lazily here instead since Bounds is already
// cheap to recompute from the root node.
func (b *BVH) Radius() float64 {
	if b.root == nil {
		return 100.0
	}
	bounds := b.root.bounds
	return bounds.Max.Subtract(bounds.Center()).Length()
}

// Raycast walks the tree iteratively with an explicit stack, shrinking
// maxT to the closest hit found so far so subtrees whose box entry is
// already farther away are skipped without being descended into.
func (b *BVH) Raycast(origin, direction core.Vec3, maxT float64) (RayHit, bool) {
	if b.root == nil {
		return RayHit{}, false
	}

	var closest RayHit
	found := false
	tClosest := maxT

	stack := make([]*bvhNode, 0, 64)
	stack = append(stack, b.root)

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, _, ok := node.bounds.HitInterval(origin, direction, tClosest); !ok {
			continue
		}

		if node.isLeaf() {
			hit, ok := b.objects[node.leafIndex].Raycast(origin, direction, tClosest)
			if ok && closerThan(hit.T, tClosest, hit.GeometricNormal, direction) {
				tClosest = hit.T
				closest = hit
				found = true
			}
			continue
		}

		stack = append(stack, node.left, node.right)
	}

	return closest, found
}
