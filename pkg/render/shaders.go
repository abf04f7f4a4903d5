package render

import (
	_ "embed"
)

var (
	//go:embed shaders/cube.vert
	skyboxVertexSource string
	//go:embed shaders/cube.frag
	skyboxFragmentSource string
	//go:embed shaders/mesh.vert
	meshVertexSource string
	//go:embed shaders/mesh.frag
	meshFragmentSource string
)
