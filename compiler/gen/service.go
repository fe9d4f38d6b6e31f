package gen

import "strings"

// uniqueCheckNames are the attributes whose values must stay unique across
// rows; the service checks them before create and update.
var uniqueCheckNames = map[string]bool{
	"email": true, "username": true, "code": true, "reference": true,
}

// UniqueCheckAttributes returns the attributes the service validates for
// uniqueness before writes.
func (e *Entity) UniqueCheckAttributes() []*Attribute {
	var attrs []*Attribute
	for _, a := range e.Attributes {
		if uniqueCheckNames[strings.ToLower(a.Name)] {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// SkipOnCreate reports whether the attribute is excluded from
// DTO-to-entity conversion on create. The DTO carries no internal
// attributes, so none of them can be copied in.
func (a *Attribute) SkipOnCreate() bool { return a.Internal() }

// SkipOnUpdate reports whether the attribute is excluded when applying a
// DTO onto an existing entity.
func (a *Attribute) SkipOnUpdate() bool { return a.Internal() }

// CopyOnCreate returns the attributes copied from DTO to entity on create.
func (e *Entity) CopyOnCreate() []*Attribute {
	var attrs []*Attribute
	for _, a := range e.Attributes {
		if !a.SkipOnCreate() {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// CopyOnUpdate returns the attributes applied from DTO on update.
func (e *Entity) CopyOnUpdate() []*Attribute {
	var attrs []*Attribute
	for _, a := range e.Attributes {
		if !a.SkipOnUpdate() {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// ServiceImports returns the sorted import list of the service class.
func (e *Entity) ServiceImports() []string {
	set := map[string]bool{
		e.EntityPackage() + "." + e.Name:                           true,
		e.RepositoryPackage() + "." + e.Mapping.Repository:         true,
		e.DTOPackage() + "." + e.Mapping.DTO:                       true,
		"org.springframework.stereotype.Service":                   true,
		"org.springframework.transaction.annotation.Transactional": true,
		"java.util.List":                   true,
		"java.util.NoSuchElementException": true,
		"java.util.stream.Collectors":      true,
	}
	if imp := ImportFor(e.IDType()); imp != "" {
		set[imp] = true
	}
	for _, a := range e.Attributes {
		if imp := ImportFor(a.JavaType); imp != "" {
			set[imp] = true
		}
	}
	if e.Paginated() {
		set["org.springframework.data.domain.Page"] = true
		set["org.springframework.data.domain.Pageable"] = true
	}
	return sortedKeys(set)
}
