package ccvox

// Vertex is a mesh corner. Color is the grid cell value (palette position+1).
type Vertex struct {
	Position [3]float32
	Color    uint16
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// face is one of the six directions a quad can look in: along axis n, towards
// +n when sign is positive. Quads span the u and v axes.
type face struct {
	n, u, v int
	sign    int
}

var faces = [6]face{
	{n: 0, u: 1, v: 2, sign: 1}, {n: 0, u: 1, v: 2, sign: -1},
	{n: 1, u: 0, v: 2, sign: 1}, {n: 1, u: 0, v: 2, sign: -1},
	{n: 2, u: 0, v: 1, sign: 1}, {n: 2, u: 0, v: 1, sign: -1},
}

// emit appends the h x w quad whose corner is cell (u, v) of slice. Positive
// faces sit on the far side of the cell.
func (f face) emit(m *Mesh, slice, u, v, h, w int, color uint16) {
	if f.sign > 0 {
		slice++
	}
	at := func(du, dv int) Vertex {
		var p [3]float32
		p[f.n] = float32(slice)
		p[f.u] = float32(u + du)
		p[f.v] = float32(v + dv)
		return Vertex{Position: p, Color: color}
	}
	quad := [4]Vertex{at(0, 0), at(h, 0), at(h, w), at(0, w)}
	// counter-clockwise seen from outside; the u/v basis of Y faces is mirrored
	if (f.sign < 0) != (f.n == 1) {
		quad[1], quad[3] = quad[3], quad[1]
	}
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, quad[:]...)
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}

// GenerateMesh greedy-meshes the visible faces of g: per axis direction and
// slice, exposed faces of equal color are merged into maximal rectangles.
func GenerateMesh(g *Grid) *Mesh {
	mesh := &Mesh{}
	dims := [3]int{g.SizeX, g.SizeY, g.SizeZ}

	for _, f := range faces {
		perp := f.n
		mask := make([][]uint16, dims[f.u])
		visited := make([][]bool, dims[f.u])
		for i := range mask {
			mask[i] = make([]uint16, dims[f.v])
			visited[i] = make([]bool, dims[f.v])
		}

		for p := 0; p < dims[perp]; p++ {
			for u := range mask {
				clear(mask[u])
				clear(visited[u])
			}

			for u := 0; u < dims[f.u]; u++ {
				for v := 0; v < dims[f.v]; v++ {
					pos := [3]int{}
					pos[f.u] = u
					pos[f.v] = v
					pos[perp] = p

					voxel := g.At(pos[0], pos[1], pos[2])
					if voxel == 0 {
						continue
					}

					adj := pos
					adj[perp] = p + f.sign
					if g.At(adj[0], adj[1], adj[2]) == 0 {
						mask[u][v] = voxel
					}
				}
			}

			for u := 0; u < dims[f.u]; u++ {
				for v := 0; v < dims[f.v]; {
					if mask[u][v] == 0 || visited[u][v] {
						v++
						continue
					}
					color := mask[u][v]
					width := 1
					for w := v + 1; w < dims[f.v] && mask[u][w] == color && !visited[u][w]; w++ {
						width++
					}
					height := 1
					stop := false
					for h := u + 1; h < dims[f.u] && !stop; h++ {
						for w := v; w < v+width; w++ {
							if mask[h][w] != color || visited[h][w] {
								stop = true
								break
							}
						}
						if !stop {
							height++
						}
					}
					for hu := u; hu < u+height; hu++ {
						for hv := v; hv < v+width; hv++ {
							visited[hu][hv] = true
						}
					}
					f.emit(mesh, p, u, v, height, width, color)
					v += width
				}
			}
		}
	}
	return mesh
}
