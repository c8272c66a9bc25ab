package loaders

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/aetherray/pbr/pkg/geometry"
	"github.com/aetherray/pbr/pkg/material"
)

// LoadVoxelOctree reads a voxel world from its binary encoding: a
// little-endian uint32 material count, a root node, then every 8-wide
// child block back to back until EOF. Each node is a tagged uint32: high
// bit clear means an index into the node-block array; 0xFFFFFFFF means
// empty; any other high-bit-set value is a material index in the low 31
// bits. Grounded on the original implementation's VoxelOctree::load.
func LoadVoxelOctree(path string, materials []*material.Material) (*geometry.VoxelOctree, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load voxel octree %q: %w", path, err)
	}
	defer file.Close()

	readU32 := func() (uint32, bool, error) {
		var buf [4]byte
		if _, err := io.ReadFull(file, buf[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return 0, false, nil
			}
			return 0, false, err
		}
		return binary.LittleEndian.Uint32(buf[:]), true, nil
	}

	numMaterials, ok, err := readU32()
	if err != nil {
		return nil, fmt.Errorf("load voxel octree %q: material count: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("load voxel octree %q: empty file", path)
	}
	if int(numMaterials) > len(materials) {
		return nil, fmt.Errorf("load voxel octree %q: needs %d materials, only %d given", path, numMaterials, len(materials))
	}

	root, ok, err := readU32()
	if err != nil {
		return nil, fmt.Errorf("load voxel octree %q: root node: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("load voxel octree %q: missing root node", path)
	}

	var nodeGroups [][8]uint32
	for {
		var group [8]uint32
		first, ok, err := readU32()
		if err != nil {
			return nil, fmt.Errorf("load voxel octree %q: node block: %w", path, err)
		}
		if !ok {
			break
		}
		group[0] = first
		for i := 1; i < 8; i++ {
			v, ok, err := readU32()
			if err != nil {
				return nil, fmt.Errorf("load voxel octree %q: node block: %w", path, err)
			}
			if !ok {
				return nil, fmt.Errorf("load voxel octree %q: truncated node block", path)
			}
			group[i] = v
		}
		nodeGroups = append(nodeGroups, group)
	}

	return geometry.NewVoxelOctree(materials, root, nodeGroups), nil
}
