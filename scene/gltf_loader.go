package scene

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"rendering-engine/core"
)

// LoadGLTF opens a .glb or .gltf file and flattens its default scene into
// meshes. Node transforms are baked into the vertices, so every returned
// mesh has an identity transform. PBR factors are approximated to Phong.
func LoadGLTF(path string, log *slog.Logger) ([]*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	// ── 1. Images ───────────────────────────────────────────────────────────
	images := make([]*Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		tex, err := loadGLTFImage(doc, dir, *gt.Source)
		if err != nil {
			log.Warn("gltf image skipped", "image", *gt.Source, "err", err)
			continue
		}
		images[i] = tex
	}
	texture := func(idx int, kind TextureKind) *Texture {
		if idx < 0 || idx >= len(images) || images[idx] == nil {
			return nil
		}
		t := images[idx].Clone()
		t.Kind = kind
		return t
	}

	// ── 2. Materials ────────────────────────────────────────────────────────
	type gltfMaterial struct {
		phong   *PhongMaterial
		diffuse int
		normal  int
	}
	materials := make([]gltfMaterial, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := gltfMaterial{phong: DefaultPhongMaterial(), diffuse: -1, normal: -1}
		mat.phong.Name = gm.Name
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			base := mgl32.Vec3{float32(cf[0]), float32(cf[1]), float32(cf[2])}
			mat.phong.Diffuse = base
			mat.phong.Ambient = base.Mul(0.05)
			if pbr.BaseColorTexture != nil {
				mat.diffuse = pbr.BaseColorTexture.Index
			}
			// smooth surfaces get a tight highlight, metals a bright one
			roughness := float32(pbr.RoughnessFactorOrDefault())
			metallic := float32(pbr.MetallicFactorOrDefault())
			mat.phong.Shininess = (1-roughness)*(1-roughness)*128 + 1
			s := metallic * 0.7
			mat.phong.Specular = mgl32.Vec3{s, s, s}
		}
		if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
			mat.normal = *gm.NormalTexture.Index
		}
		materials[i] = mat
	}

	// ── 3. Nodes ────────────────────────────────────────────────────────────
	var meshes []*Mesh
	var visit func(idx int, parent mgl32.Mat4)
	visit = func(idx int, parent mgl32.Mat4) {
		if idx < 0 || idx >= len(doc.Nodes) {
			return
		}
		gn := doc.Nodes[idx]
		world := parent.Mul4(nodeMatrix(gn))
		if gn.Mesh != nil && *gn.Mesh < len(doc.Meshes) {
			gm := doc.Meshes[*gn.Mesh]
			for pi, prim := range gm.Primitives {
				m, err := loadGLTFPrimitive(doc, gm.Name, pi, prim)
				if err != nil {
					log.Warn("gltf primitive skipped", "mesh", gm.Name, "primitive", pi, "err", err)
					continue
				}
				bakeTransform(m, world)
				if prim.Material != nil && *prim.Material < len(materials) {
					mat := materials[*prim.Material]
					m.Material = mat.phong
					if t := texture(mat.diffuse, TextureDiffuse); t != nil {
						m.Textures = append(m.Textures, t)
					}
					if t := texture(mat.normal, TextureNormal); t != nil {
						m.Textures = append(m.Textures, t)
					}
				}
				ComputeTangents(m)
				meshes = append(meshes, m)
			}
		}
		for _, c := range gn.Children {
			visit(c, world)
		}
	}
	for _, root := range gltfRoots(doc) {
		visit(root, mgl32.Ident4())
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("gltf %q: no geometry", path)
	}
	return meshes, nil
}

// gltfRoots returns the default scene's nodes, or every parentless node.
func gltfRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func nodeMatrix(gn *gltf.Node) mgl32.Mat4 {
	m := gn.MatrixOrDefault()
	if m != gltf.DefaultMatrix {
		var out mgl32.Mat4
		for i, v := range m {
			out[i] = float32(v)
		}
		return out
	}
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // x, y, z, w
	s := gn.ScaleOrDefault()
	tr := Transform{
		Position: mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
		Rotation: mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}},
		Scale:    mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])},
	}
	return tr.Matrix()
}

// bakeTransform moves positions and normals into world space.
func bakeTransform(m *Mesh, world mgl32.Mat4) {
	if world == mgl32.Ident4() {
		return
	}
	normalMat := world.Mat3().Inv().Transpose()
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mgl32.TransformCoordinate(v.Position, world)
		if n := normalMat.Mul3x1(v.Normal); n.Len() > 0 {
			v.Normal = n.Normalize()
		}
	}
	// mirrored transforms flip the winding
	if world.Mat3().Det() < 0 {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			m.Indices[i+1], m.Indices[i+2] = m.Indices[i+2], m.Indices[i+1]
		}
	}
	m.UpdateBox()
}

// loadGLTFPrimitive converts one glTF mesh primitive into a Mesh.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		return nil, fmt.Errorf("primitive mode %v not supported", prim.Mode)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var (
		normals [][3]float32
		uvs     [][2]float32
		joints  [][4]uint16
		weights [][4]float32
	)
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes[gltf.JOINTS_0]; ok {
		joints, _ = modeler.ReadJoints(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes[gltf.WEIGHTS_0]; ok {
		weights, _ = modeler.ReadWeights(doc, doc.Accessors[idx], nil)
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: mgl32.Vec3{p[0], p[1], p[2]},
			Normal:   mgl32.Vec3{0, 1, 0},
		}
		if i < len(normals) {
			v.Normal = mgl32.Vec3(normals[i])
		}
		if i < len(uvs) {
			v.UV = mgl32.Vec2(uvs[i])
		}
		if i < len(joints) && i < len(weights) {
			for j := 0; j < core.MaxBoneInfluence; j++ {
				v.BoneIDs[j] = float32(joints[i][j])
				v.BoneWeights[j] = weights[i][j]
			}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}
	m := NewMesh(name, verts, indices)
	if len(normals) == 0 && len(indices) > 0 {
		generateNormals(m.Vertices, m.Indices)
	}
	return m, nil
}

// loadGLTFImage decodes a buffer-view image or an external file. glTF UVs
// start at the top-left, so rows are kept top-down.
func loadGLTFImage(doc *gltf.Document, dir string, source int) (*Texture, error) {
	img := doc.Images[source]
	name := img.Name
	if name == "" {
		name = fmt.Sprintf("gltf_img_%d", source)
	}
	var raw []byte
	var err error
	switch {
	case img.BufferView != nil:
		raw, err = modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
	case img.IsEmbeddedResource():
		raw, err = img.MarshalData()
	case img.URI != "":
		raw, err = os.ReadFile(filepath.Join(dir, img.URI))
	default:
		return nil, fmt.Errorf("image has no data")
	}
	if err != nil {
		return nil, err
	}
	tex, err := decodeImage(name, raw)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", name, err)
	}
	return tex, nil
}
