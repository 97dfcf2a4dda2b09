package scene

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"rendering-engine/core"
)

// objFace is one triangle of vertex references (0-based, -1 = absent).
type objFace struct {
	v, vt, vn [3]int
}

type objIndex struct{ v, vt, vn int }

type objObject struct {
	name    string
	matName string
	faces   []objFace
}

// objMaterial is a parsed MTL entry before textures are attached to meshes.
type objMaterial struct {
	phong    *PhongMaterial
	textures []texRef
}

type texRef struct {
	kind TextureKind
	path string
}

// LoadOBJ parses a Wavefront .obj file and returns one Mesh per object or
// group. Materials come from the referenced .mtl files. Texture files are
// decoded once and each mesh gets its own copy.
func LoadOBJ(path string, log *slog.Logger) ([]*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	objects, libs, err := parseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse obj %q: %w", path, err)
	}

	materials := map[string]*objMaterial{}
	for _, lib := range libs {
		loaded, err := loadMTL(filepath.Join(dir, lib))
		if err != nil {
			log.Warn("mtl skipped", "path", lib, "err", err)
			continue
		}
		for k, v := range loaded {
			materials[k] = v
		}
	}

	decoded := map[string]*Texture{}
	texture := func(ref texRef) *Texture {
		full := filepath.Join(dir, ref.path)
		t, ok := decoded[full]
		if !ok {
			t, err = LoadTexture(full, ref.kind)
			if err != nil {
				log.Warn("texture skipped", "path", full, "err", err)
			}
			decoded[full] = t
		}
		if t == nil {
			return nil
		}
		c := t.Clone()
		c.Kind = ref.kind
		return c
	}

	meshes := make([]*Mesh, 0, len(objects.list))
	for _, obj := range objects.list {
		m := buildOBJMesh(obj.name, obj.faces, objects)
		if mat, ok := materials[obj.matName]; ok {
			m.Material = mat.phong
			for _, ref := range mat.textures {
				if t := texture(ref); t != nil {
					m.Textures = append(m.Textures, t)
				}
			}
		}
		if len(objects.uvs) > 0 {
			ComputeTangents(m)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

type objData struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2
	list      []objObject
}

// parseOBJ reads geometry and returns the objects plus the mtllib names.
func parseOBJ(r io.Reader) (*objData, []string, error) {
	data := &objData{}
	var libs []string
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) >= 4 {
				data.positions = append(data.positions, parseVec3(fields[1:4]))
			}
		case "vn":
			if len(fields) >= 4 {
				data.normals = append(data.normals, parseVec3(fields[1:4]))
			}
		case "vt":
			if len(fields) >= 3 {
				data.uvs = append(data.uvs, mgl32.Vec2{parseFloat(fields[1]), parseFloat(fields[2])})
			}
		case "o", "g":
			if len(cur.faces) > 0 {
				data.list = append(data.list, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name, matName: cur.matName}
		case "usemtl":
			if len(fields) > 1 {
				cur.matName = fields[1]
			}
		case "mtllib":
			libs = append(libs, fields[1:]...)
		case "f":
			if len(fields) < 4 {
				continue
			}
			refs := make([]objIndex, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				refs = append(refs, parseFaceVertex(tok, data))
			}
			// fan: 0-1-2, 0-2-3, ...
			for i := 1; i+1 < len(refs); i++ {
				a, b, c := refs[0], refs[i], refs[i+1]
				cur.faces = append(cur.faces, objFace{
					v:  [3]int{a.v, b.v, c.v},
					vt: [3]int{a.vt, b.vt, c.vt},
					vn: [3]int{a.vn, b.vn, c.vn},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if len(cur.faces) > 0 {
		data.list = append(data.list, *cur)
	}
	if len(data.list) == 0 {
		return nil, nil, fmt.Errorf("no geometry")
	}
	return data, libs, nil
}

// parseFaceVertex parses "v", "v/vt", "v//vn" or "v/vt/vn". Negative
// indices count back from the current end of each pool.
func parseFaceVertex(tok string, data *objData) objIndex {
	idx := func(s string, n int) int {
		if s == "" {
			return -1
		}
		i, err := strconv.Atoi(s)
		switch {
		case err != nil || i == 0:
			return -1
		case i < 0:
			return n + i
		default:
			return i - 1
		}
	}
	parts := strings.Split(tok, "/")
	res := objIndex{v: -1, vt: -1, vn: -1}
	res.v = idx(parts[0], len(data.positions))
	if len(parts) > 1 {
		res.vt = idx(parts[1], len(data.uvs))
	}
	if len(parts) > 2 {
		res.vn = idx(parts[2], len(data.normals))
	}
	return res
}

// buildOBJMesh deduplicates face corners into an indexed mesh.
func buildOBJMesh(name string, faces []objFace, data *objData) *Mesh {
	vertMap := map[objIndex]uint32{}
	var vertices []core.Vertex
	var indices []uint32

	at3 := func(pool []mgl32.Vec3, i int, def mgl32.Vec3) mgl32.Vec3 {
		if i >= 0 && i < len(pool) {
			return pool[i]
		}
		return def
	}
	hasNormals := true
	for _, f := range faces {
		for c := 0; c < 3; c++ {
			k := objIndex{f.v[c], f.vt[c], f.vn[c]}
			if idx, ok := vertMap[k]; ok {
				indices = append(indices, idx)
				continue
			}
			if k.vn < 0 || k.vn >= len(data.normals) {
				hasNormals = false
			}
			v := core.Vertex{
				Position: at3(data.positions, k.v, mgl32.Vec3{}),
				Normal:   at3(data.normals, k.vn, mgl32.Vec3{0, 1, 0}),
			}
			if k.vt >= 0 && k.vt < len(data.uvs) {
				v.UV = data.uvs[k.vt]
			}
			idx := uint32(len(vertices))
			vertices = append(vertices, v)
			vertMap[k] = idx
			indices = append(indices, idx)
		}
	}
	if !hasNormals {
		generateNormals(vertices, indices)
	}
	return NewMesh(name, vertices, indices)
}

// generateNormals writes area-weighted smooth normals.
func generateNormals(vertices []core.Vertex, indices []uint32) {
	accum := make([]mgl32.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0 := vertices[i0].Position
		n := vertices[i1].Position.Sub(p0).Cross(vertices[i2].Position.Sub(p0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range vertices {
		if accum[i].Len() > 0 {
			vertices[i].Normal = accum[i].Normalize()
		}
	}
}

func parseFloat(s string) float32 {
	f, _ := strconv.ParseFloat(s, 32)
	return float32(f)
}

func parseVec3(fields []string) mgl32.Vec3 {
	return mgl32.Vec3{parseFloat(fields[0]), parseFloat(fields[1]), parseFloat(fields[2])}
}

// ── MTL loader ───────────────────────────────────────────────────────────────

// mtlTextureKinds maps MTL map statements to texture kinds.
var mtlTextureKinds = map[string]TextureKind{
	"map_Kd":   TextureDiffuse,
	"map_Ks":   TextureSpecular,
	"map_Bump": TextureNormal,
	"map_bump": TextureNormal,
	"bump":     TextureNormal,
	"norm":     TextureNormal,
	"map_Disp": TextureHeight,
	"disp":     TextureHeight,
}

func loadMTL(path string) (map[string]*objMaterial, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseMTL(f)
}

func parseMTL(r io.Reader) (map[string]*objMaterial, error) {
	mats := map[string]*objMaterial{}
	var cur *objMaterial

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if fields[0] == "newmtl" {
			if len(fields) > 1 {
				p := DefaultPhongMaterial()
				p.Name = fields[1]
				cur = &objMaterial{phong: p}
				mats[fields[1]] = cur
			}
			continue
		}
		if cur == nil {
			continue
		}
		switch fields[0] {
		case "Ka":
			if len(fields) >= 4 {
				cur.phong.Ambient = parseVec3(fields[1:4])
			}
		case "Kd":
			if len(fields) >= 4 {
				cur.phong.Diffuse = parseVec3(fields[1:4])
			}
		case "Ks":
			if len(fields) >= 4 {
				cur.phong.Specular = parseVec3(fields[1:4])
			}
		case "Ns":
			if len(fields) >= 2 {
				cur.phong.Shininess = math32.Max(1, parseFloat(fields[1]))
			}
		default:
			kind, ok := mtlTextureKinds[fields[0]]
			if ok && len(fields) >= 2 {
				// options such as "-bm 1" precede the file name
				cur.textures = append(cur.textures, texRef{kind: kind, path: fields[len(fields)-1]})
			}
		}
	}
	return mats, scanner.Err()
}
