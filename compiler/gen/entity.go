package gen

import (
	"fmt"
	"sort"
	"strings"
)

// ColumnAnnotation renders the @Column line for the attribute. Identifier
// columns keep only their name; other columns carry nullability, uniqueness
// and size constraints.
func (a *Attribute) ColumnAnnotation() string {
	parts := []string{fmt.Sprintf("name = %q", a.Column)}
	if !a.ID {
		if a.Final {
			parts = append(parts, "nullable = false")
		}
		if a.Unique() {
			parts = append(parts, "unique = true")
		}
		if a.IsString() {
			length := "255"
			if l := a.DocLength(); l != "" {
				length = l
			}
			parts = append(parts, "length = "+length)
		}
		if a.JavaType == "BigDecimal" {
			parts = append(parts, "precision = 19", "scale = 2")
		}
	}
	return "@Column(" + strings.Join(parts, ", ") + ")"
}

// Annotations returns the attribute's JPA and validation annotations in
// emission order. Validation annotations depend on the feature toggle;
// auditing timestamps on theirs.
func (e *Entity) Annotations(a *Attribute) []string {
	var anns []string
	feats := e.Project.Features
	if a.ID {
		anns = append(anns,
			"@Id",
			"@GeneratedValue(strategy = GenerationType.IDENTITY)",
		)
	}
	if feats.Auditing {
		switch {
		case a.CreationStamp():
			anns = append(anns, "@CreationTimestamp")
		case a.UpdateStamp():
			anns = append(anns, "@UpdateTimestamp")
		}
	}
	if feats.Validation && !a.ID {
		switch {
		case a.IsString():
			anns = append(anns, "@NotBlank")
		case a.Numeric():
			anns = append(anns, "@NotNull")
		case a.DocRequired():
			anns = append(anns, "@NotNull")
		}
		if a.EmailHint() && a.IsString() {
			anns = append(anns, "@Email")
		}
		if l := a.DocLength(); l != "" && a.IsString() {
			anns = append(anns, "@Size(max = "+l+")")
		}
	}
	return append(anns, a.ColumnAnnotation())
}

// Annotations returns the relation's JPA annotations in emission order.
func (r *Relation) Annotations() []string {
	var (
		anns []string
		args []string
	)
	if r.MappedBy != "" {
		args = append(args, fmt.Sprintf("mappedBy = %q", r.MappedBy))
	}
	if len(r.Cascade) > 0 {
		if len(r.Cascade) == 1 {
			args = append(args, "cascade = "+r.Cascade[0])
		} else {
			args = append(args, "cascade = {"+strings.Join(r.Cascade, ", ")+"}")
		}
	}
	args = append(args, "fetch = "+r.Fetch)
	anns = append(anns, "@"+r.Kind.Annotation()+"("+strings.Join(args, ", ")+")")
	if r.MappedBy != "" {
		// The non-owning side carries no join metadata.
		return anns
	}
	switch r.Kind {
	case O2O, M2O:
		anns = append(anns, fmt.Sprintf("@JoinColumn(name = %q)", r.JoinColumn()))
	case M2M:
		anns = append(anns, fmt.Sprintf(
			"@JoinTable(name = %q, joinColumns = @JoinColumn(name = %q), inverseJoinColumns = @JoinColumn(name = %q))",
			r.JoinTable(), snake(r.Source.Name)+"_id", snake(r.Target.Name)+"_id"))
	}
	return anns
}

// Imports returns the sorted import list of the entity class.
func (e *Entity) Imports() []string {
	set := map[string]bool{"jakarta.persistence.*": true}
	feats := e.Project.Features
	for _, a := range e.Attributes {
		if imp := ImportFor(a.JavaType); imp != "" {
			set[imp] = true
		}
		if feats.Auditing && a.CreationStamp() {
			set["org.hibernate.annotations.CreationTimestamp"] = true
		}
		if feats.Auditing && a.UpdateStamp() {
			set["org.hibernate.annotations.UpdateTimestamp"] = true
		}
		if feats.Validation && !a.ID {
			switch {
			case a.IsString():
				set["jakarta.validation.constraints.NotBlank"] = true
			case a.Numeric(), a.DocRequired():
				set["jakarta.validation.constraints.NotNull"] = true
			}
			if a.EmailHint() && a.IsString() {
				set["jakarta.validation.constraints.Email"] = true
			}
			if a.DocLength() != "" && a.IsString() {
				set["jakarta.validation.constraints.Size"] = true
			}
		}
	}
	for _, m := range e.Methods {
		if imp := ImportFor(m.ReturnType); imp != "" {
			set[imp] = true
		}
		for _, p := range m.Params {
			if imp := ImportFor(p.Type); imp != "" {
				set[imp] = true
			}
		}
	}
	if len(e.Relations) > 0 {
		for _, r := range e.Relations {
			if r.Kind.Plural() {
				set["java.util.List"] = true
				set["java.util.ArrayList"] = true
				break
			}
		}
	}
	return sortedKeys(set)
}

// EntityPackage is the Java package of generated entity classes.
func (e *Entity) EntityPackage() string { return e.BasePackage() + ".entity" }

// RepositoryPackage is the Java package of generated repositories.
func (e *Entity) RepositoryPackage() string { return e.BasePackage() + ".repository" }

// ServicePackage is the Java package of generated services.
func (e *Entity) ServicePackage() string { return e.BasePackage() + ".service" }

// ControllerPackage is the Java package of generated controllers.
func (e *Entity) ControllerPackage() string { return e.BasePackage() + ".controller" }

// DTOPackage is the Java package of generated transfer objects.
func (e *Entity) DTOPackage() string { return e.BasePackage() + ".dto" }

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
