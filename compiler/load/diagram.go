// Package load defines the raw class-diagram payload and its decoding.
// A Diagram is the untyped wire form produced by diagram editors; the
// compiler/gen package turns it into a typed model.
package load

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/springforge/springforge"
)

// ClassKind is the declared kind of a diagram class.
type ClassKind string

const (
	KindClass         ClassKind = "CLASS"
	KindAbstractClass ClassKind = "ABSTRACT_CLASS"
	KindInterface     ClassKind = "INTERFACE"
	KindEnum          ClassKind = "ENUM"
)

// RelType is the UML relationship category drawn between two classes.
type RelType string

const (
	RelAssociation RelType = "ASSOCIATION"
	RelAggregation RelType = "AGGREGATION"
	RelComposition RelType = "COMPOSITION"
	RelInheritance RelType = "INHERITANCE"
	RelRealization RelType = "REALIZATION"
	RelDependency  RelType = "DEPENDENCY"
)

// Diagram is a decoded class diagram as submitted by clients.
type Diagram struct {
	ID            string          `json:"id,omitempty"`
	Name          string          `json:"name,omitempty"`
	Classes       []*Class        `json:"classes"`
	Relationships []*Relationship `json:"relationships,omitempty"`
}

// Class is one node of the diagram.
type Class struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Kind       ClassKind    `json:"type,omitempty"`
	Stereotype string       `json:"stereotype,omitempty"`
	Doc        string       `json:"documentation,omitempty"`
	Attributes []*Attribute `json:"attributes,omitempty"`
	Methods    []*Method    `json:"methods,omitempty"`
}

// Attribute is one attribute row of a class.
type Attribute struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	Visibility string `json:"visibility,omitempty"`
	ID         bool   `json:"is_id,omitempty"`
	Final      bool   `json:"is_final,omitempty"`
	Static     bool   `json:"is_static,omitempty"`
	Doc        string `json:"documentation,omitempty"`
}

// Parameter is one parameter of a diagram method.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Method is one operation row of a class. Non-accessor methods become
// stub implementations on the generated entity.
type Method struct {
	Name       string      `json:"name"`
	ReturnType string      `json:"return_type,omitempty"`
	Visibility string      `json:"visibility,omitempty"`
	Static     bool        `json:"is_static,omitempty"`
	Abstract   bool        `json:"is_abstract,omitempty"`
	Parameters []Parameter `json:"parameters,omitempty"`
}

// Relationship is one edge of the diagram.
type Relationship struct {
	ID         string  `json:"id,omitempty"`
	Type       RelType `json:"type"`
	SourceID   string  `json:"source"`
	TargetID   string  `json:"target"`
	SourceCard string  `json:"source_cardinality,omitempty"`
	TargetCard string  `json:"target_cardinality,omitempty"`
	SourceRole string  `json:"source_role,omitempty"`
	TargetRole string  `json:"target_role,omitempty"`
	Label      string  `json:"label,omitempty"`
	Navigable  bool    `json:"navigable,omitempty"`
}

// Editors disagree on key names; decoding tries each alias in order.
func (c *Class) UnmarshalJSON(buf []byte) error {
	type plain Class
	var aux struct {
		plain
		ClassType  string       `json:"classType"`
		KindAlt    string       `json:"kind"`
		DocAlt     string       `json:"description"`
		Properties []*Attribute `json:"properties"`
	}
	if err := json.Unmarshal(buf, &aux); err != nil {
		return err
	}
	*c = Class(aux.plain)
	if c.Kind == "" && aux.ClassType != "" {
		c.Kind = ClassKind(strings.ToUpper(aux.ClassType))
	}
	if c.Kind == "" && aux.KindAlt != "" {
		c.Kind = ClassKind(strings.ToUpper(aux.KindAlt))
	}
	if c.Kind == "" {
		c.Kind = KindClass
	}
	if c.Doc == "" {
		c.Doc = aux.DocAlt
	}
	if len(c.Attributes) == 0 {
		c.Attributes = aux.Properties
	}
	return nil
}

func (a *Attribute) UnmarshalJSON(buf []byte) error {
	type plain Attribute
	var aux struct {
		plain
		IDAlt    bool   `json:"isId"`
		PK       bool   `json:"primary_key"`
		FinalAlt bool   `json:"isFinal"`
		DataType string `json:"dataType"`
		DocAlt   string `json:"description"`
	}
	if err := json.Unmarshal(buf, &aux); err != nil {
		return err
	}
	*a = Attribute(aux.plain)
	a.ID = a.ID || aux.IDAlt || aux.PK
	a.Final = a.Final || aux.FinalAlt
	if a.Type == "" {
		a.Type = aux.DataType
	}
	if a.Doc == "" {
		a.Doc = aux.DocAlt
	}
	return nil
}

func (r *Relationship) UnmarshalJSON(buf []byte) error {
	type plain Relationship
	var aux struct {
		plain
		SourceAlt     string `json:"sourceId"`
		TargetAlt     string `json:"targetId"`
		SourceCardAlt string `json:"sourceCardinality"`
		TargetCardAlt string `json:"targetCardinality"`
		SourceMult    string `json:"source_multiplicity"`
		TargetMult    string `json:"target_multiplicity"`
	}
	if err := json.Unmarshal(buf, &aux); err != nil {
		return err
	}
	*r = Relationship(aux.plain)
	if r.SourceID == "" {
		r.SourceID = aux.SourceAlt
	}
	if r.TargetID == "" {
		r.TargetID = aux.TargetAlt
	}
	if r.SourceCard == "" {
		r.SourceCard = firstNonEmpty(aux.SourceCardAlt, aux.SourceMult)
	}
	if r.TargetCard == "" {
		r.TargetCard = firstNonEmpty(aux.TargetCardAlt, aux.TargetMult)
	}
	r.Type = RelType(strings.ToUpper(string(r.Type)))
	return nil
}

// identRE matches names usable as Java identifiers after case conversion.
var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_ ]*$`)

// UnmarshalDiagram decodes and structurally validates a diagram payload.
// The first structural problem aborts the decode; no partial diagram is
// returned.
func UnmarshalDiagram(buf []byte) (*Diagram, error) {
	d := &Diagram{}
	if err := json.Unmarshal(buf, d); err != nil {
		return nil, springforge.NewDiagramError("", "", "invalid JSON payload", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// PruneDanglingRelationships removes relationships whose endpoints are
// empty or do not resolve to a declared class, returning the removed ones.
// Lenient callers run it before Validate so a stray edge does not abort
// the whole diagram.
func (d *Diagram) PruneDanglingRelationships() []*Relationship {
	ids := make(map[string]bool, len(d.Classes))
	for _, c := range d.Classes {
		ids[c.ID] = true
	}
	var kept, dropped []*Relationship
	for _, r := range d.Relationships {
		if ids[r.SourceID] && ids[r.TargetID] {
			kept = append(kept, r)
		} else {
			dropped = append(dropped, r)
		}
	}
	d.Relationships = kept
	return dropped
}

// Validate checks the diagram's structural invariants: at least one class,
// unique non-empty class ids, identifier-safe names, and relationship
// endpoints that resolve to declared classes.
func (d *Diagram) Validate() error {
	if len(d.Classes) == 0 {
		return springforge.NewDiagramError("", "", "diagram has no classes", nil)
	}
	ids := make(map[string]*Class, len(d.Classes))
	for _, c := range d.Classes {
		switch {
		case c.ID == "":
			return springforge.NewDiagramError("", c.Name, "class id is required", nil)
		case c.Name == "":
			return springforge.NewDiagramError(c.ID, "", "class name is required", nil)
		case !identRE.MatchString(c.Name):
			return springforge.NewDiagramError(c.ID, c.Name, "class name is not a valid identifier", nil)
		}
		if prev, ok := ids[c.ID]; ok {
			return springforge.NewDiagramError(c.ID, c.Name, "duplicate class id (also "+prev.Name+")", nil)
		}
		ids[c.ID] = c
		for _, a := range c.Attributes {
			if a.Name == "" {
				return springforge.NewDiagramError(c.ID, c.Name, "attribute name is required", nil)
			}
			if !identRE.MatchString(a.Name) {
				return springforge.NewDiagramError(c.ID, c.Name, "attribute name "+a.Name+" is not a valid identifier", nil)
			}
		}
	}
	for _, r := range d.Relationships {
		if r.SourceID == "" || r.TargetID == "" {
			return springforge.NewRelationshipError(r.ID, r.SourceID, r.TargetID, "relationship endpoints are required")
		}
		if _, ok := ids[r.SourceID]; !ok {
			return springforge.NewRelationshipError(r.ID, r.SourceID, r.TargetID, "source class not found")
		}
		if _, ok := ids[r.TargetID]; !ok {
			return springforge.NewRelationshipError(r.ID, r.SourceID, r.TargetID, "target class not found")
		}
	}
	return nil
}

// ClassByID returns the class with the given id, or nil.
func (d *Diagram) ClassByID(id string) *Class {
	for _, c := range d.Classes {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// IDAttribute returns the attribute marked as the identifier, or nil.
func (c *Class) IDAttribute() *Attribute {
	for _, a := range c.Attributes {
		if a.ID {
			return a
		}
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
