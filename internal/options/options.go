// Package options binds one section of a koanf store into a typed settings
// value and runs its validation gate.
//
//	var sw swagger.Settings
//	if err := options.Bind(k, "swagger", &sw); err != nil { … }
//
// Bind is the explicit validation call site; unmarshalling alone never
// validates.
package options

import (
	"fmt"

	koanf "github.com/knadh/koanf/v2"

	"github.com/AdeptTravel/adept-hostkit/internal/validation"
)

// Defaulter is implemented by settings that fill optional fields before
// validation.
type Defaulter interface {
	ApplyDefaults()
}

// Bind unmarshals path into out, applies defaults, and validates.  out must
// be a pointer.  Validation failures come back as *validation.Error with
// each violation prefixed by path.
func Bind(k *koanf.Koanf, path string, out validation.Validatable) error {
	if k == nil {
		return validation.Missing("configuration store")
	}
	if out == nil {
		return validation.Missing("options target")
	}

	if err := k.UnmarshalWithConf(path, out, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("bind %s: %w", path, err)
	}
	if d, ok := out.(Defaulter); ok {
		d.ApplyDefaults()
	}
	return validation.Prefix(path, out.Validate())
}

// Section is Bind for callers that want a fresh value back.
func Section[T any, PT interface {
	*T
	validation.Validatable
}](k *koanf.Koanf, path string) (*T, error) {
	var v T
	if err := Bind(k, path, PT(&v)); err != nil {
		return nil, err
	}
	return &v, nil
}

// Binding pairs a section path with its target.
type Binding struct {
	Path string
	Out  validation.Validatable
}

// BindAll runs every binding and reports all failures together.
func BindAll(k *koanf.Koanf, bindings ...Binding) error {
	if k == nil {
		return validation.Missing("configuration store")
	}
	errs := make([]error, 0, len(bindings))
	for _, b := range bindings {
		errs = append(errs, Bind(k, b.Path, b.Out))
	}
	return validation.Join(errs...)
}
