package binarizer

import (
	"errors"
	"fmt"
	"strings"
)

type Algorithm int

const (
	FloydSteinberg Algorithm = iota
	Atkinson
	Halftone
	MeanThreshold
	None
)

var ErrUnknownAlgorithm = errors.New("unknown image binarization algorithm")

var algorithmNames = map[Algorithm]string{
	FloydSteinberg: "floyd-steinberg",
	Atkinson:       "atkinson",
	Halftone:       "halftone",
	MeanThreshold:  "mean-threshold",
	None:           "none",
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm matches name case-insensitively against the algorithm names.
func ParseAlgorithm(name string) (Algorithm, error) {
	lower := strings.ToLower(name)
	for a, n := range algorithmNames {
		if n == lower {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
}

// AlgorithmNames lists the accepted names in declaration order.
func AlgorithmNames() []string {
	names := make([]string, 0, len(algorithmNames))
	for a := FloydSteinberg; a <= None; a++ {
		names = append(names, algorithmNames[a])
	}
	return names
}

// Binarize applies alg to g. Halftone returns a new, larger grid; every other
// algorithm mutates g and returns it.
func Binarize(g *Grid, alg Algorithm) (*Grid, error) {
	switch alg {
	case FloydSteinberg:
		Diffuse(g, FloydSteinbergKernel)
	case Atkinson:
		Diffuse(g, AtkinsonKernel)
	case Halftone:
		return RenderHalftone(g), nil
	case MeanThreshold:
		ApplyMeanThreshold(g)
	case None:
		Threshold(g, NoneThreshold)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, alg)
	}
	return g, nil
}
