package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/geometry"
)

// plyProperty describes one element property: either a scalar primitive or
// a list (count-primitive, item-primitive) pair, the two shapes the ASCII
// format needs.
type plyProperty struct {
	name     string
	isList   bool
	listType string
	itemType string
}

type plyElement struct {
	name  string
	count int
	props []plyProperty
}

// PLYMesh is the raw vertex/face data an ASCII PLY file decodes to, before
// per-vertex normals are averaged from adjacent face normals.
type PLYMesh struct {
	Vertices []core.Vec3
	Faces    []geometry.TriangleMeshFace
}

// LoadPLY reads an ASCII ("format ascii 1.0") PLY mesh from path. Binary
// PLY variants are rejected with an error rather than silently
// misinterpreted.
func LoadPLY(path string) (*PLYMesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load ply %q: %w", path, err)
	}
	defer file.Close()

	return parsePLY(file, path)
}

func parsePLY(r io.Reader, path string) (*PLYMesh, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	nextLine := func() (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return strings.TrimSpace(scanner.Text()), nil
	}

	magic, err := nextLine()
	if err != nil {
		return nil, fmt.Errorf("load ply %q: %w", path, err)
	}
	if magic != "ply" {
		return nil, fmt.Errorf("load ply %q: not a ply file", path)
	}

	formatLine, err := nextLine()
	if err != nil {
		return nil, fmt.Errorf("load ply %q: %w", path, err)
	}
	if !strings.HasPrefix(formatLine, "format ascii") {
		return nil, fmt.Errorf("load ply %q: only ascii ply is supported, got %q", path, formatLine)
	}

	var elements []plyElement
	for {
		line, err := nextLine()
		if err != nil {
			return nil, fmt.Errorf("load ply %q: %w", path, err)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "end_header":
			goto headerDone
		case "comment":
			continue
		case "element":
			if len(fields) != 3 {
				return nil, fmt.Errorf("load ply %q: malformed element line %q", path, line)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("load ply %q: element count: %w", path, err)
			}
			elements = append(elements, plyElement{name: fields[1], count: count})
		case "property":
			if len(elements) == 0 {
				return nil, fmt.Errorf("load ply %q: property before any element", path)
			}
			last := &elements[len(elements)-1]
			if fields[1] == "list" {
				if len(fields) != 5 {
					return nil, fmt.Errorf("load ply %q: malformed list property %q", path, line)
				}
				last.props = append(last.props, plyProperty{name: fields[4], isList: true, listType: fields[2], itemType: fields[3]})
			} else {
				if len(fields) != 3 {
					return nil, fmt.Errorf("load ply %q: malformed property %q", path, line)
				}
				last.props = append(last.props, plyProperty{name: fields[2]})
			}
		default:
			return nil, fmt.Errorf("load ply %q: unknown header directive %q", path, fields[0])
		}
	}
headerDone:

	var vertices []core.Vec3
	var faces []geometry.TriangleMeshFace

	for _, element := range elements {
		for i := 0; i < element.count; i++ {
			line, err := nextLine()
			if err != nil {
				return nil, fmt.Errorf("load ply %q: %w", path, err)
			}
			tokens := strings.Fields(line)

			switch element.name {
			case "vertex":
				v, err := parseVertex(element, tokens, path)
				if err != nil {
					return nil, err
				}
				vertices = append(vertices, v)
			case "face":
				f, ok, err := parseFace(element, tokens, path)
				if err != nil {
					return nil, err
				}
				if ok {
					faces = append(faces, f)
				}
			default:
				// Unrecognized element kinds are skipped: their rows were
				// already consumed above.
			}
		}
	}

	return &PLYMesh{Vertices: vertices, Faces: faces}, nil
}

// VertexNormals computes smooth per-vertex normals by summing, at each
// vertex, the (unnormalized) cross-product normal of every adjacent face,
// then normalizing — the same accumulate-then-normalize pass the original
// ascii PLY loader ran before building triangles.
func (m *PLYMesh) VertexNormals() []core.Vec3 {
	normals := make([]core.Vec3, len(m.Vertices))
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f.A], m.Vertices[f.B], m.Vertices[f.C]
		n := c.Subtract(b).Cross(a.Subtract(b))
		normals[f.A] = normals[f.A].Add(n)
		normals[f.B] = normals[f.B].Add(n)
		normals[f.C] = normals[f.C].Add(n)
	}
	for i, n := range normals {
		if !n.IsZero() {
			normals[i] = n.Normalize()
		}
	}
	return normals
}

func parseVertex(element plyElement, tokens []string, path string) (core.Vec3, error) {
	var x, y, z float64
	var haveX, haveY, haveZ bool
	pos := 0
	for _, prop := range element.props {
		if prop.isList {
			return core.Vec3{}, fmt.Errorf("load ply %q: unexpected list property on vertex element", path)
		}
		if pos >= len(tokens) {
			return core.Vec3{}, fmt.Errorf("load ply %q: vertex row missing fields", path)
		}
		v, err := strconv.ParseFloat(tokens[pos], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("load ply %q: vertex property %s: %w", path, prop.name, err)
		}
		pos++
		switch prop.name {
		case "x":
			x, haveX = v, true
		case "y":
			y, haveY = v, true
		case "z":
			z, haveZ = v, true
		}
	}
	if !haveX || !haveY || !haveZ {
		return core.Vec3{}, fmt.Errorf("load ply %q: vertex missing x/y/z", path)
	}
	return core.NewVec3(x, y, z), nil
}

func parseFace(element plyElement, tokens []string, path string) (geometry.TriangleMeshFace, bool, error) {
	pos := 0
	for _, prop := range element.props {
		if prop.name != "vertex_indices" || !prop.isList {
			// Skip any other (non-indices) scalar/list property's tokens.
			if prop.isList {
				if pos >= len(tokens) {
					return geometry.TriangleMeshFace{}, false, fmt.Errorf("load ply %q: face row missing list count", path)
				}
				n, err := strconv.Atoi(tokens[pos])
				if err != nil {
					return geometry.TriangleMeshFace{}, false, fmt.Errorf("load ply %q: face list count: %w", path, err)
				}
				pos += 1 + n
			} else {
				pos++
			}
			continue
		}

		if pos >= len(tokens) {
			return geometry.TriangleMeshFace{}, false, fmt.Errorf("load ply %q: face row missing index count", path)
		}
		n, err := strconv.Atoi(tokens[pos])
		if err != nil {
			return geometry.TriangleMeshFace{}, false, fmt.Errorf("load ply %q: vertex_indices count: %w", path, err)
		}
		pos++
		if n != 3 {
			// Non-triangular faces are skipped, matching the original
			// loader's behavior of only keeping 3-index faces.
			pos += n
			continue
		}
		idx := make([]int, 3)
		for i := 0; i < 3; i++ {
			if pos >= len(tokens) {
				return geometry.TriangleMeshFace{}, false, fmt.Errorf("load ply %q: face row truncated", path)
			}
			v, err := strconv.Atoi(tokens[pos])
			if err != nil {
				return geometry.TriangleMeshFace{}, false, fmt.Errorf("load ply %q: vertex index: %w", path, err)
			}
			idx[i] = v
			pos++
		}
		return geometry.TriangleMeshFace{A: idx[0], B: idx[1], C: idx[2]}, true, nil
	}
	return geometry.TriangleMeshFace{}, false, nil
}
