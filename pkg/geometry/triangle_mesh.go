package geometry

import (
	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/material"
)

// TriangleMeshFace is one triangle's vertex indices into the mesh's
// shared vertex (and, if present, normal) arrays.
type TriangleMeshFace struct {
	A, B, C int
}

// TriangleMesh is a collection of triangles sharing a vertex buffer,
// indexed by its own internal BVH for fast intersection.
type TriangleMesh struct {
	bvh    *BVH
	bounds core.AABB
}

// NewTriangleMesh builds a mesh from a shared vertex buffer, optional
// per-vertex normals (nil for flat-shaded meshes), and a face list. All
// triangles get the same material; PLY loading assigns one per mesh.
func NewTriangleMesh(vertices []core.Vec3, normals []core.Vec3, faces []TriangleMeshFace, mat *material.Material) *TriangleMesh {
	objects := make([]Object, 0, len(faces))
	for _, f := range faces {
		tri := Triangle{
			A: vertices[f.A], B: vertices[f.B], C: vertices[f.C],
			Material: mat,
		}
		if normals != nil {
			tri.NA, tri.NB, tri.NC = normals[f.A], normals[f.B], normals[f.C]
			tri.HasVertexNormals = true
		}
		objects = append(objects, tri)
	}
	bvh := NewBVH(objects)
	return &TriangleMesh{bvh: bvh, bounds: bvh.Bounds()}
}

func (m *TriangleMesh) Bounds() core.AABB {
	return m.bounds
}

func (m *TriangleMesh) Raycast(origin, direction core.Vec3, maxT float64) (RayHit, bool) {
	return m.bvh.Raycast(origin, direction, maxT)
}
