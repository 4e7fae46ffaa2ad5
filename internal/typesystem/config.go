// Package typesystem implements the explicit type-description table the
// dispatch core resolves against.
//
// Every runtime type is a named entry in a Table: its direct bases, its
// abstract flag, and the capabilities it provides or requires. The
// linearizer and the resolvers consume only these pure queries — ancestry,
// conformance, subtyping — never host reflection.
//
// Tables can be built programmatically (Define) or declared in a
// types.yaml file (LoadTable).
package typesystem

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TableConfig represents the top-level types.yaml configuration.
type TableConfig struct {
	// Types lists the type declarations in definition order. A declaration
	// may only reference bases that appear earlier in the list (or a
	// builtin), which keeps the hierarchy acyclic.
	Types []TypeDecl `yaml:"types"`
}

// TypeDecl declares a single type.
type TypeDecl struct {
	// Name is the type name (e.g. "Dog"). Required.
	Name string `yaml:"name"`

	// Module is an optional module path prefix. The qualified name used
	// for lookups is "module.Name" when set.
	Module string `yaml:"module,omitempty"`

	// Bases lists the qualified names of the direct bases, in order.
	// Defaults to [Any] if omitted.
	Bases []string `yaml:"bases,omitempty"`

	// Abstract marks a virtual base type. Concrete types conform to it
	// structurally (see Requires) or via Implements.
	Abstract bool `yaml:"abstract,omitempty"`

	// Provides lists capability names this type declares, e.g. "len".
	// Capabilities are inherited by subtypes.
	Provides []string `yaml:"provides,omitempty"`

	// Requires lists capability names an implementer must provide to
	// conform structurally. Only valid on abstract types.
	Requires []string `yaml:"requires,omitempty"`

	// Implements lists abstract types this type is explicitly registered
	// on, independent of structure.
	Implements []string `yaml:"implements,omitempty"`
}

// LoadTable parses a YAML table declaration and builds the Table.
func LoadTable(data []byte) (*Table, error) {
	var cfg TableConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing table config: %w", err)
	}
	tb := NewTable()
	for i, decl := range cfg.Types {
		if _, err := tb.Define(decl); err != nil {
			return nil, fmt.Errorf("types[%d] (%s): %w", i, decl.Name, err)
		}
	}
	return tb, nil
}

// LoadTableFile reads and parses a types.yaml file.
func LoadTableFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading table config: %w", err)
	}
	return LoadTable(data)
}
