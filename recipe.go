package fastimage

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Recipe is the YAML form of Options:
//
//	format: png
//	quality: 90
//	resize:
//	  width: 800
//	steps:
//	  - grayscale:luminosity
//	  - gaussian:2,1.5
type Recipe struct {
	Format  string        `yaml:"format"`
	Quality int           `yaml:"quality"`
	Resize  *ResizeOption `yaml:"resize"`
	Steps   []Step        `yaml:"steps"`
}

// Options returns the options described by the recipe.
func (r *Recipe) Options() (Options, error) {
	opts := NewOptions()
	if r.Format != "" {
		var encode []EncodeOption
		if r.Quality > 0 {
			encode = append(encode, JPEGQuality(r.Quality))
		}
		if err := opts.SetFormat(r.Format, encode...); err != nil {
			return Options{}, err
		}
	}
	if r.Resize != nil {
		opts.SetResize(r.Resize.Width, r.Resize.Height, r.Resize.Percent)
	}
	opts.AddStep(r.Steps...)
	return opts, nil
}

// LoadRecipe reads a YAML recipe from r.
func LoadRecipe(r io.Reader) (Options, error) {
	var recipe Recipe
	if err := yaml.NewDecoder(r).Decode(&recipe); err != nil && err != io.EOF {
		return Options{}, errors.Wrap(err, "recipe")
	}
	return recipe.Options()
}

// OpenRecipe loads a YAML recipe from file.
func OpenRecipe(file string) (Options, error) {
	f, err := os.Open(file)
	if err != nil {
		return Options{}, err
	}
	defer f.Close()

	return LoadRecipe(f)
}
