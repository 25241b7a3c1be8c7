// meshtool is a CLI utility for inspecting OBJ surface meshes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/MetisArom/Sputterer/internal/engine/mesh"
	"github.com/MetisArom/Sputterer/internal/logger"
	"github.com/MetisArom/Sputterer/internal/preview"
	"github.com/MetisArom/Sputterer/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "dump":
		cmdDump(args)
	case "snapshot", "snap":
		cmdSnapshot(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtool - OBJ surface mesh utility

Usage:
  meshtool <command> [options] <file.obj>

Commands:
  info <file.obj>                Show vertex, triangle and bounds summary
  dump <file.obj>                Print the vertex and element buffers
  snapshot [-o out] <file.obj>   Render a preview image (.webp or .tga)

Common options:
  -weighting uniform|area|angle  Smooth normal weighting
  -triangulate                   Fan-triangulate polygon faces
  -v                             Debug logging

Examples:
  meshtool info thruster.obj
  meshtool dump -weighting area tank.obj
  meshtool snapshot -o tank.webp -size 1024 -yaw 30 tank.obj`)
}

type meshFlags struct {
	weighting   *string
	triangulate *bool
	verbose     *bool
}

func addMeshFlags(fs *flag.FlagSet) meshFlags {
	return meshFlags{
		weighting:   fs.String("weighting", "uniform", "Smooth normal weighting: uniform, area or angle"),
		triangulate: fs.Bool("triangulate", false, "Fan-triangulate polygon faces"),
		verbose:     fs.Bool("v", false, "Debug logging"),
	}
}

// load parses the flags shared by all commands and reads the mesh.
func load(fs *flag.FlagSet, mf meshFlags, args []string) (*mesh.Mesh, string) {
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: meshtool %s [options] <file.obj>\n", fs.Name())
		os.Exit(1)
	}
	path := fs.Arg(0)

	level := "warn"
	if *mf.verbose {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	w, err := mesh.ParseNormalWeighting(*mf.weighting)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m := &mesh.Mesh{Options: mesh.Options{
		OBJ:   formats.OBJOptions{Triangulate: *mf.triangulate},
		Build: mesh.BuildOptions{Weighting: w},
	}}
	if err := m.ReadFromOBJ(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
	return m, path
}

// exitCode distinguishes a missing file (2) from bad content (3).
func exitCode(err error) int {
	switch {
	case errors.Is(err, formats.ErrFileNotFound):
		return 2
	case errors.Is(err, formats.ErrMalformedField), errors.Is(err, mesh.ErrIndexOutOfRange):
		return 3
	default:
		return 1
	}
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	mf := addMeshFlags(fs)
	m, path := load(fs, mf, args)
	defer logger.Sync()

	b := m.Bounds()
	fmt.Printf("File:      %s\n", path)
	fmt.Printf("Smooth:    %v\n", m.Smooth())
	fmt.Printf("Vertices:  %d\n", m.NumVertices())
	fmt.Printf("Triangles: %d\n", m.NumTriangles())
	fmt.Printf("Weighting: %s\n", m.Options.Build.Weighting)
	fmt.Printf("Bounds:    %s - %s\n", b.Min, b.Max)
	fmt.Printf("Size:      %s\n", b.Size())
	fmt.Printf("Center:    %s\n", b.Center())

	zero := 0
	for _, v := range m.Vertices() {
		if v.Normal.IsZero() {
			zero++
		}
	}
	if zero > 0 {
		fmt.Printf("Zero normals: %d (unreferenced or degenerate)\n", zero)
	}
}

func cmdDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	mf := addMeshFlags(fs)
	m, _ := load(fs, mf, args)
	defer logger.Sync()

	fmt.Print(m)
}

func cmdSnapshot(args []string) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	mf := addMeshFlags(fs)
	defaults := preview.DefaultOptions()
	out := fs.String("o", "preview.webp", "Output image (.webp or .tga)")
	size := fs.Int("size", defaults.Size, "Output size in pixels")
	ss := fs.Int("ss", defaults.Supersample, "Supersampling factor")
	yaw := fs.Float64("yaw", float64(defaults.Yaw), "View yaw in degrees")
	pitch := fs.Float64("pitch", float64(defaults.Pitch), "View pitch in degrees")
	m, _ := load(fs, mf, args)
	defer logger.Sync()

	opts := defaults
	opts.Size = *size
	opts.Supersample = *ss
	opts.Yaw = float32(*yaw)
	opts.Pitch = float32(*pitch)

	img := preview.RenderMesh(m, opts)
	if err := preview.WriteFile(*out, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", *out, opts.Size, opts.Size)
}
