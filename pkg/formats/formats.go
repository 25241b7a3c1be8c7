// Package formats provides parsers for the geometry files Sputterer loads.
//
// Only the Wavefront OBJ subset needed for surface meshes is implemented:
// vertex positions, triangle faces and the smoothing flag.
package formats
