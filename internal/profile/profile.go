package profile

import "github.com/AnyUserName/da3d-cli/internal/da3d"

// Profile bundles denoiser parameters with the guide synthesis setting
// used when no external guide image is supplied.
type Profile struct {
	Name      string
	Params    da3d.Params
	GuideBlur float64 // sigma of the Gaussian pre-blur for synthesized guides
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:      "default",
		Params:    da3d.DefaultParams(),
		GuideBlur: 1.2,
	},
	"high-noise": {
		Name: "high-noise",
		Params: da3d.Params{
			Radius:    8,
			SigmaS:    14,
			GammaR:    1.0,
			GammaF:    1.1,
			Threshold: 3.0,
		},
		GuideBlur: 2.0,
	},
	"fast": {
		Name: "fast",
		Params: da3d.Params{
			Radius:    4,
			SigmaS:    10,
			GammaR:    0.7,
			GammaF:    0.8,
			Threshold: 1.0,
		},
		GuideBlur: 1.2,
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["default"]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profile names.
func Names() []string {
	return []string{"default", "high-noise", "fast"}
}
