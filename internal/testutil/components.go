package testutil

import (
	"context"
	"reflect"

	"github.com/vk/blueprintgo/registry"
)

// ReLU is a minimal native component with a single primitive parameter.
type ReLU struct {
	Inplace bool `cfg:"inplace"`
}

// Unit marks ReLU as framework-native.
func (*ReLU) Unit() {}

// Layer is a native component with one primitive and one configurable
// parameter.
type Layer struct {
	Width      int  `cfg:"width"`
	Activation Unit `cfg:"activation"`
}

// Unit marks Layer as framework-native.
func (*Layer) Unit() {}

// Probe is a registered component that is deliberately not framework-native,
// for exercising mixed composite builds.
type Probe struct {
	Label string `cfg:"label"`
}

// Scaler exercises the two construction phases: Bias is a late slot, bound
// only after Init has run, and Init records the values it observed.
type Scaler struct {
	Gamma float64 `cfg:"gamma"`
	Bias  float64 `cfg:"bias,late"`

	Initialized    bool
	BiasDuringInit float64
}

// Unit marks Scaler as framework-native.
func (*Scaler) Unit() {}

// Init is the constructor hook. Bias is still zero here; it is bound
// afterwards.
func (s *Scaler) Init(ctx context.Context) error {
	s.Initialized = true
	s.BiasDuringInit = s.Bias
	return nil
}

// RegisterAll installs the sample components into a registry.
func RegisterAll(r *registry.Registry) {
	r.Register(&registry.Spec{
		Target: "relu",
		Type:   reflect.TypeOf(ReLU{}),
		Params: []registry.Param{
			{Name: "inplace", Default: func() any { return false }},
		},
	})
	r.Register(&registry.Spec{
		Target: "layer",
		Type:   reflect.TypeOf(Layer{}),
		Params: []registry.Param{
			{Name: "width", Default: func() any { return 10 }},
			{Name: "activation", Default: func() any { return &ReLU{} }},
		},
	})
	r.Register(&registry.Spec{
		Target: "probe",
		Type:   reflect.TypeOf(Probe{}),
		Params: []registry.Param{
			{Name: "label", Default: func() any { return "probe" }},
		},
	})
	r.Register(&registry.Spec{
		Target: "scaler",
		Type:   reflect.TypeOf(Scaler{}),
		Params: []registry.Param{
			{Name: "gamma", Default: func() any { return 1.0 }},
			{Name: "bias", Default: func() any { return 0.5 }},
		},
	})
}

// NewRegistry creates a registry with the fake framework attached and all
// sample components registered.
func NewRegistry() *registry.Registry {
	r := registry.New(registry.WithFramework(Framework{}))
	RegisterAll(r)
	return r
}
