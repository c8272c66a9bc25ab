package geometry

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/material"
)

// voxelNode is a tagged 32-bit value: high bit set and all-ones means
// empty; high bit set otherwise means a material index in the low 31
// bits; high bit clear means a pointer into the node-block array.
type voxelNode uint32

const voxelEmpty = voxelNode(0xFFFFFFFF)

func (n voxelNode) isInternal() bool { return n&(1<<31) == 0 }
func (n voxelNode) isEmpty() bool    { return n == voxelEmpty }
func (n voxelNode) materialIndex() int {
	return int(n &^ (1 << 31))
}
func (n voxelNode) internalIndex() int { return int(n) }

// VoxelOctree is a sparse voxel world occupying the unit cube [0,1]³ in
// its local space, traversed with a stack-based DDA that mirrors the ray
// into the always-positive octant and un-mirrors child indices on the
// way back out.
type VoxelOctree struct {
	Materials []*material.Material
	Root      voxelNode
	Nodes     [][8]voxelNode
}

// NewEmptyVoxelOctree returns a single fully-empty voxel world, useful as
// a placeholder or in tests.
func NewEmptyVoxelOctree(materials []*material.Material) *VoxelOctree {
	return &VoxelOctree{
		Materials: materials,
		Root:      voxelNode(0),
		Nodes: [][8]voxelNode{{
			voxelEmpty, voxelEmpty, voxelEmpty, voxelEmpty,
			voxelEmpty, voxelEmpty, voxelEmpty, voxelEmpty,
		}},
	}
}

// NewVoxelOctree builds a voxel world from its raw tagged-node encoding:
// root is the root node's packed value and nodeGroups is the flat array
// of 8-wide child blocks a node's Internal index selects into. This is
// the shape the voxel octree file format (pkg/loaders.LoadVoxelOctree)
// decodes into.
func NewVoxelOctree(materials []*material.Material, root uint32, nodeGroups [][8]uint32) *VoxelOctree {
	nodes := make([][8]voxelNode, len(nodeGroups))
	for i, group := range nodeGroups {
		for j, v := range group {
			nodes[i][j] = voxelNode(v)
		}
	}
	return &VoxelOctree{
		Materials: materials,
		Root:      voxelNode(root),
		Nodes:     nodes,
	}
}

// MaterialCount reports how many material slots this voxel world's
// tagged material-index nodes can index into (the length of Materials).
func (v *VoxelOctree) MaterialCount() int { return len(v.Materials) }

func (v *VoxelOctree) Bounds() core.AABB {
	return core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1))
}

func (v *VoxelOctree) Raycast(origin, direction core.Vec3, maxT float64) (RayHit, bool) {
	flip := [3]bool{direction.X < 0, direction.Y < 0, direction.Z < 0}
	dSign := core.NewVec3(sign(direction.X), sign(direction.Y), sign(direction.Z))

	dir := direction
	if flip[0] {
		dir.X = -dir.X
	}
	if flip[1] {
		dir.Y = -dir.Y
	}
	if flip[2] {
		dir.Z = -dir.Z
	}
	// Clamp to machine epsilon so axis-parallel rays divide by a tiny
	// finite value instead of zero.
	const dirEpsilon = 2.220446049250313e-16
	dir = core.NewVec3(math.Max(dir.X, dirEpsilon), math.Max(dir.Y, dirEpsilon), math.Max(dir.Z, dirEpsilon))

	o := origin
	if flip[0] {
		o.X = 1 - o.X
	}
	if flip[1] {
		o.Y = 1 - o.Y
	}
	if flip[2] {
		o.Z = 1 - o.Z
	}

	enter := divVec(o.Negate(), dir)
	t := math.Max(0, maxComponent3(enter))
	exit := divVec(core.NewVec3(1, 1, 1).Subtract(o), dir)
	octreeExit := minComponent3(exit)
	if octreeExit < t || t > maxT {
		return RayHit{}, false
	}
	enterDir := eqMask(enter, t)

	const maxHeight = 32
	height := 1
	twoExpMinusHeight := 0.5
	var nodeStack [maxHeight]voxelNode
	var offsetStack [maxHeight]core.Vec3
	nodeStack[1] = v.Root

	for height > 0 && t < maxT {
		node := nodeStack[height]
		switch {
		case node.isEmpty():
			exitCoord := offsetStack[height].Add(core.NewVec3(1, 1, 1).Multiply(2 * twoExpMinusHeight)).Subtract(o)
			t = minComponent3(divVec(exitCoord, dir))
			height--
			twoExpMinusHeight *= 2.0

		case !node.isInternal():
			normal := core.NewVec3(0, 0, 0)
			if enterDir[0] {
				normal.X = -dSign.X
			}
			if enterDir[1] {
				normal.Y = -dSign.Y
			}
			if enterDir[2] {
				normal.Z = -dSign.Z
			}
			mat := v.Materials[node.materialIndex()]
			return RayHit{T: t, ShadingNormal: normal, GeometricNormal: normal, Material: mat}, true

		default:
			enterCoord := offsetStack[height].Subtract(o)
			exitCoord := offsetStack[height].Add(core.NewVec3(1, 1, 1).Multiply(2 * twoExpMinusHeight)).Subtract(o)
			middleCoord := offsetStack[height].Add(core.NewVec3(1, 1, 1).Multiply(twoExpMinusHeight)).Subtract(o)

			tExit := minComponent3(divVec(exitCoord, dir))

			if t == tExit {
				height--
				twoExpMinusHeight *= 2.0
				continue
			}

			tEnter := maxComponent3(divVec(enterCoord, dir))
			midplanes := divVec(middleCoord, dir)
			child := [3]bool{midplanes.X <= t, midplanes.Y <= t, midplanes.Z <= t}

			if t != tEnter {
				enterDir = eqMask(midplanes, t)
			}

			offset := offsetStack[height]
			if child[0] {
				offset.X += twoExpMinusHeight
			}
			if child[1] {
				offset.Y += twoExpMinusHeight
			}
			if child[2] {
				offset.Z += twoExpMinusHeight
			}
			offsetStack[height+1] = offset

			childIndex := childBitmask(child, flip)
			nodeStack[height+1] = v.Nodes[node.internalIndex()][childIndex]

			height++
			twoExpMinusHeight *= 0.5
		}
	}

	return RayHit{}, false
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

func divVec(a, b core.Vec3) core.Vec3 {
	return core.NewVec3(a.X/b.X, a.Y/b.Y, a.Z/b.Z)
}

func minComponent3(v core.Vec3) float64 {
	return math.Min(v.X, math.Min(v.Y, v.Z))
}

func maxComponent3(v core.Vec3) float64 {
	return math.Max(v.X, math.Max(v.Y, v.Z))
}

func eqMask(v core.Vec3, t float64) [3]bool {
	return [3]bool{v.X == t, v.Y == t, v.Z == t}
}

// childBitmask XORs the child-selection bits with the flip mask to
// un-mirror the index back into the physical (unflipped) child array.
func childBitmask(child [3]bool, flip [3]bool) int {
	idx := 0
	bits := [3]bool{child[0] != flip[0], child[1] != flip[1], child[2] != flip[2]}
	if bits[0] {
		idx |= 1
	}
	if bits[1] {
		idx |= 2
	}
	if bits[2] {
		idx |= 4
	}
	return idx
}
