package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"collada-importer/internal/collada"
	"collada-importer/internal/logx"
	"collada-importer/internal/mesh"

	"github.com/muesli/termenv"
)

// out styles headings when stdout is a color terminal.
var out = termenv.NewOutput(os.Stdout)

func heading(format string, args ...any) string {
	return out.String(fmt.Sprintf(format, args...)).Bold().Foreground(out.Color("6")).String()
}

func warn(s string) string {
	return out.String(s).Foreground(out.Color("3")).String()
}

func main() {
	quick := flag.Bool("info", false, "List geometries only, without decoding meshes")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()
	log := logx.Setup(slog.LevelInfo, *verbose)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-info] file.dae...")
		os.Exit(2)
	}

	failed := 0
	for _, path := range flag.Args() {
		var err error
		if *quick {
			err = printInfo(path)
		} else {
			err = printDocument(path)
		}
		if err != nil {
			log.Error("inspect failed", "file", path, "err", err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func printInfo(path string) error {
	info, err := collada.InfoFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s%s\n",
		heading("=== %s (COLLADA %s, geometries=%d) ===", path, info.Version, len(info.Geometries)),
		versionNote(info.Version))
	for _, g := range info.Geometries {
		fmt.Printf("  %s %q\n", g.ID, g.Name)
	}
	return nil
}

func printDocument(path string) error {
	doc, err := collada.Open(path)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s%s\n", heading("=== %s (COLLADA %s) ===", path, doc.Version), versionNote(doc.Version))
	fmt.Printf("Materials: %d, Effects: %d, Images: %d, Geometries: %d, Scenes: %d\n",
		len(doc.Materials), len(doc.Effects), len(doc.Images), len(doc.Geometries), len(doc.VisualScenes))

	for _, g := range doc.Geometries {
		printGeometry(g)
	}

	if len(doc.Materials) > 0 {
		fmt.Println(heading("--- Materials ---"))
	}
	for _, m := range doc.Materials {
		fmt.Printf("  %s -> %s", m.ID, m.Effect.URL)
		if e := doc.Effect(m.Effect.URL); e != nil {
			if s := e.Shader(); s != nil {
				fmt.Printf("  %s diffuse=%v", s.Kind, s.Diffuse)
				if tex, ok := s.Textures["diffuse"]; ok {
					fmt.Printf(" texture=%s", e.ImageFor(tex))
				}
			}
		}
		fmt.Println()
	}

	if imgs := doc.TextureImages(); len(imgs) > 0 {
		fmt.Println(heading("--- Textures ---"))
		for _, img := range imgs {
			fmt.Printf("  %s: %s\n", img.ID, img.InitFrom)
		}
	}

	if vs := doc.Scene(); vs != nil {
		fmt.Println(heading("--- Scene %s ---", vs.ID))
		vs.Walk(func(n *collada.Node, depth int) bool {
			printNode(n, depth)
			return true
		})
	}
	return nil
}

func printGeometry(g *collada.Geometry) {
	fmt.Printf("%s: sources=%d, primitives=%d, triangles=%d\n",
		heading("Geometry %s %q", g.ID, g.Name), len(g.Sources()), len(g.Primitives), g.TriangleCount())
	for i, p := range g.Primitives {
		fmt.Printf("  Primitive[%d]: material=%q, count=%d, channels=%d\n",
			i, p.Material, p.Count, p.Indices().Channels())
		for _, b := range p.Bindings() {
			set := ""
			if s, ok := b.Set(); ok {
				set = fmt.Sprintf(" set=%d", s)
			}
			src := "?"
			if s := b.Entry().Source(); s != nil {
				src = s.ID
			}
			fmt.Printf("    %-10s offset=%d%s source=%s (%d tuples)\n",
				b.Semantic(), b.Offset(), set, src, b.Count())
		}
		m, err := mesh.Build(p)
		if err != nil {
			fmt.Printf("    %s\n", warn("flatten: "+err.Error()))
			continue
		}
		b := m.Bounds()
		size := b.Size()
		fmt.Printf("    Flattened: verts=%d, tris=%d, normals=%t, uvs=%t\n",
			m.VertexCount(), m.TriangleCount(), m.Normals != nil, m.UVs != nil)
		fmt.Printf("    BBox: X[%.2f, %.2f] Y[%.2f, %.2f] Z[%.2f, %.2f]\n",
			b.Min[0], b.Max[0], b.Min[1], b.Max[1], b.Min[2], b.Max[2])
		fmt.Printf("    Size: %.2f x %.2f x %.2f\n", size[0], size[1], size[2])
		printArea(m)
	}
}

func printArea(m *mesh.Mesh) {
	fmt.Printf("    Area: %.3f", m.Area())
	byFacing := m.AreaByFacing()
	for f := mesh.FacingPosX; f <= mesh.FacingDegenerate; f++ {
		if a, ok := byFacing[f]; ok {
			fmt.Printf(" %s=%.3f", f, a)
		}
	}
	fmt.Println()
}

func versionNote(v string) string {
	if collada.SupportedVersion(v) {
		return ""
	}
	return " " + warn("(unsupported version)")
}

func printNode(n *collada.Node, depth int) {
	indent := strings.Repeat("  ", depth+1)
	label := n.ID
	if label == "" {
		label = n.Name
	}
	fmt.Printf("%s%s [%s]", indent, label, n.Type)
	if len(n.Layers) > 0 {
		fmt.Printf(" layers=%s", strings.Join(n.Layers, ","))
	}
	fmt.Println()
	for _, t := range n.Transforms {
		fmt.Printf("%s  %s %s\n", indent, t.Kind(), describe(t))
	}
	for _, gi := range n.Geometries {
		fmt.Printf("%s  geometry %s", indent, gi.URL)
		for sym, target := range gi.Materials {
			fmt.Printf(" %s=%s", sym, target)
		}
		fmt.Println()
	}
}

func describe(t collada.Transform) string {
	switch t := t.(type) {
	case collada.Translate:
		return fmt.Sprint(t.V)
	case collada.Scale:
		return fmt.Sprint(t.V)
	case collada.Rotate:
		return fmt.Sprintf("%v %.1f°", t.Axis, t.Angle)
	case collada.Matrix:
		return fmt.Sprint(t.M)
	case collada.LookAt:
		return fmt.Sprintf("eye=%v at=%v up=%v", t.Eye, t.Interest, t.Up)
	case collada.Skew:
		return fmt.Sprintf("%.1f° %v %v", t.Angle, t.Rotation, t.Translation)
	}
	return ""
}
