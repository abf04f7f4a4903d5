package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Frame and draw constants
const (
	// FPSInterval is how often the title bar frame rate is refreshed, in seconds
	FPSInterval = 0.25

	// SkyboxHalfExtent is half the edge length of the sky-box cube
	SkyboxHalfExtent = 10.0

	// ModelRotation tips the mesh from Z-up to Y-up, in degrees about X
	ModelRotation = -90.0

	// SpecularExponent is the Blinn-Phong shininess of the mesh
	SpecularExponent = 100.0
)

// Texture units used by the mesh program
const (
	DiffuseUnit  uint32 = 0
	SpecularUnit uint32 = 1
	NormalUnit   uint32 = 2
	SkyboxUnit   uint32 = 0
)

// Uniform names shared by both programs
const (
	uniformModel       = "M"
	uniformView        = "V"
	uniformProjection  = "P"
	uniformCameraPos   = "cam_pos_wor"
	uniformDiffuse     = "diffuse_map"
	uniformSpecular    = "specular_map"
	uniformNormal      = "normal_map"
	uniformSpecularExp = "spec_exp"
	uniformCube        = "cube_texture"
)

// ClearColor is the background behind the sky-box
var ClearColor = mgl32.Vec4{0.2, 0.2, 0.2, 1.0}
