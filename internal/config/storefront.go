package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed storefront.yaml
var defaultStorefront []byte

// Storefront is the editable shop content: products, customizer options and the flavor quiz.
type Storefront struct {
	Products   []ProductSeed    `yaml:"products"`
	Customizer CustomizerConfig `yaml:"customizer"`
	Quiz       QuizConfig       `yaml:"quiz"`
}

// ProductSeed is a catalog entry loaded at startup.
type ProductSeed struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Category    string  `yaml:"category"`
	Price       float64 `yaml:"price"`
	ImageURL    string  `yaml:"image_url"`
}

// CustomizerConfig lists the choices of the build-your-own cake wizard.
type CustomizerConfig struct {
	Sizes     []SizeOption `yaml:"sizes"`
	Flavors   []string     `yaml:"flavors"`
	Frostings []string     `yaml:"frostings"`
}

// SizeOption pairs a size label with the price it contributes.
type SizeOption struct {
	Label string  `yaml:"label"`
	Price float64 `yaml:"price"`
}

// QuizConfig holds the quiz questions and the answer-keyed results.
type QuizConfig struct {
	Questions []QuizQuestion `yaml:"questions"`
	// Results is keyed by the answers joined with "-"; "default" is the fallback.
	Results map[string]QuizResult `yaml:"results"`
}

type QuizQuestion struct {
	Question string   `yaml:"question"`
	Options  []string `yaml:"options"`
}

type QuizResult struct {
	Name        string `yaml:"name"`
	ImageURL    string `yaml:"image_url"`
	Description string `yaml:"description"`
}

// LoadStorefront parses the YAML file at path, or the embedded default when path is empty.
func LoadStorefront(path string) (*Storefront, error) {
	data := defaultStorefront
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read storefront file: %w", err)
		}
	}
	return ParseStorefront(data)
}

// ParseStorefront decodes storefront YAML and checks the quiz has a default
// result and the customizer offers at least one priced size.
func ParseStorefront(data []byte) (*Storefront, error) {
	var sf Storefront
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse storefront: %w", err)
	}
	if len(sf.Quiz.Questions) > 0 {
		if _, ok := sf.Quiz.Results["default"]; !ok {
			return nil, fmt.Errorf("parse storefront: quiz results need a \"default\" entry")
		}
	}
	if len(sf.Customizer.Sizes) == 0 {
		return nil, fmt.Errorf("parse storefront: customizer needs at least one size")
	}
	for _, s := range sf.Customizer.Sizes {
		if s.Price <= 0 {
			return nil, fmt.Errorf("parse storefront: size %q must have a positive price", s.Label)
		}
	}
	return &sf, nil
}
