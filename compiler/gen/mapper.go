package gen

import (
	"strings"

	"github.com/springforge/springforge/compiler/load"
)

// RelKind is the JPA relationship kind an edge maps to.
type RelKind int

const (
	O2O RelKind = iota // OneToOne
	O2M                // OneToMany
	M2O                // ManyToOne
	M2M                // ManyToMany
)

// Annotation returns the JPA annotation name of the relationship kind.
func (r RelKind) Annotation() string {
	switch r {
	case O2O:
		return "OneToOne"
	case O2M:
		return "OneToMany"
	case M2M:
		return "ManyToMany"
	default:
		return "ManyToOne"
	}
}

func (r RelKind) String() string { return r.Annotation() }

// Plural reports whether the owning side holds a collection.
func (r RelKind) Plural() bool { return r == O2M || r == M2M }

// Inverse returns the kind of the back-reference seen from the target.
func (r RelKind) Inverse() RelKind {
	switch r {
	case O2M:
		return M2O
	case M2O:
		return O2M
	}
	return r
}

// javaTypes maps UML attribute types to Java types. Unknown types pass
// through unchanged so user-defined classes can be referenced directly.
var javaTypes = map[string]string{
	"string":     "String",
	"str":        "String",
	"text":       "String",
	"char":       "String",
	"int":        "Integer",
	"integer":    "Integer",
	"long":       "Long",
	"double":     "Double",
	"float":      "Float",
	"bool":       "Boolean",
	"boolean":    "Boolean",
	"date":       "LocalDateTime",
	"datetime":   "LocalDateTime",
	"timestamp":  "LocalDateTime",
	"localdate":  "LocalDate",
	"localtime":  "LocalTime",
	"decimal":    "BigDecimal",
	"bigdecimal": "BigDecimal",
	"uuid":       "UUID",
	"list":       "List",
	"set":        "Set",
	"map":        "Map",
}

// javaImports maps Java types to the import they require, if any.
var javaImports = map[string]string{
	"LocalDateTime": "java.time.LocalDateTime",
	"LocalDate":     "java.time.LocalDate",
	"LocalTime":     "java.time.LocalTime",
	"BigDecimal":    "java.math.BigDecimal",
	"UUID":          "java.util.UUID",
	"List":          "java.util.List",
	"Set":           "java.util.Set",
	"Map":           "java.util.Map",
}

// JavaType maps a UML attribute type to its Java counterpart. The lookup is
// case-insensitive; unknown types map to themselves.
func JavaType(uml string) string {
	uml = strings.TrimSpace(uml)
	if uml == "" {
		return "String"
	}
	if jt, ok := javaTypes[strings.ToLower(uml)]; ok {
		return jt
	}
	return uml
}

// ImportFor returns the java import required by the given Java type, or "".
func ImportFor(javaType string) string {
	return javaImports[javaType]
}

// numericTypes are the Java types treated as numeric for validation.
var numericTypes = map[string]bool{
	"Integer": true, "Long": true, "Double": true,
	"Float": true, "BigDecimal": true, "Short": true, "Byte": true,
}

// NumericType reports whether the Java type is numeric.
func NumericType(javaType string) bool { return numericTypes[javaType] }

// Cardinality classification. A cardinality string is singular, plural, or
// unknown; relationship kinds are derived from the two ends.
var (
	singularCards = map[string]bool{"1": true, "0..1": true}
	pluralCards   = map[string]bool{"*": true, "0..*": true, "1..*": true}
)

// Classify derives the relationship kind from the source and target
// cardinalities. Unknown combinations default to ManyToOne, the safest
// owning-side mapping.
func Classify(sourceCard, targetCard string) RelKind {
	s := strings.TrimSpace(sourceCard)
	t := strings.TrimSpace(targetCard)
	switch {
	case singularCards[s] && singularCards[t]:
		return O2O
	case singularCards[s] && pluralCards[t]:
		return O2M
	case pluralCards[s] && singularCards[t]:
		return M2O
	case pluralCards[s] && pluralCards[t]:
		return M2M
	}
	return M2O
}

// Cascade returns the JPA cascade types for a UML relationship category.
// Composition implies full ownership, aggregation a shared lifecycle.
func Cascade(rel load.RelType) []string {
	switch rel {
	case load.RelComposition:
		return []string{"CascadeType.ALL"}
	case load.RelAggregation:
		return []string{"CascadeType.PERSIST", "CascadeType.MERGE"}
	}
	return nil
}

// Fetch returns the JPA fetch strategy for a relationship kind. Collections
// load lazily, single references eagerly.
func Fetch(kind RelKind) string {
	if kind.Plural() {
		return "FetchType.LAZY"
	}
	return "FetchType.EAGER"
}

// SpringMapping holds the derived Spring artifact names for a class.
type SpringMapping struct {
	Table      string // snake_case table name
	Entity     string // entity class name
	Repository string // repository interface name
	Service    string // service class name
	Controller string // controller class name
	DTO        string // transfer object class name
	APIPath    string // kebab-case, pluralized URL path segment
	Variable   string // camelCase variable name
}

// MapClass derives the Spring artifact names for a class name.
func MapClass(name string) SpringMapping {
	cls := javaClass(name)
	return SpringMapping{
		Table:      snake(name),
		Entity:     cls,
		Repository: cls + "Repository",
		Service:    cls + "Service",
		Controller: cls + "Controller",
		DTO:        cls + "DTO",
		APIPath:    kebab(plural(name)),
		Variable:   javaField(name),
	}
}
