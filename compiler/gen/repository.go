package gen

import (
	"fmt"
	"strings"
)

// MethodSuffix is the attribute's spelling inside a derived query name,
// e.g. Email in findByEmail.
func (a *Attribute) MethodSuffix() string { return upperFirst(a.Name) }

// Kebab is the attribute's spelling inside a URL path segment.
func (a *Attribute) Kebab() string { return kebab(a.Name) }

// Getter returns the Java accessor name of the attribute.
func (a *Attribute) Getter() string { return "get" + a.MethodSuffix() }

// Setter returns the Java mutator name of the attribute.
func (a *Attribute) Setter() string { return "set" + a.MethodSuffix() }

// IDType is the Java type of the entity's identifier.
func (e *Entity) IDType() string { return e.IDAttribute().JavaType }

// DerivedQuery is one repository method derived from an attribute.
type DerivedQuery struct {
	Signature  string
	Annotation string // optional @Query/@Modifying block, tab-indented
}

// RepositoryMethods returns the derived queries of the entity repository:
// exact and existence finders for finder attributes, case-insensitive
// containment searches for string attributes, and status-flag queries.
func (e *Entity) RepositoryMethods() []DerivedQuery {
	var methods []DerivedQuery
	for _, a := range e.FinderAttributes() {
		methods = append(methods,
			DerivedQuery{Signature: fmt.Sprintf("Optional<%s> findBy%s(%s %s);", e.Name, a.MethodSuffix(), a.JavaType, a.Name)},
			DerivedQuery{Signature: fmt.Sprintf("boolean existsBy%s(%s %s);", a.MethodSuffix(), a.JavaType, a.Name)},
			DerivedQuery{Signature: fmt.Sprintf("void deleteBy%s(%s %s);", a.MethodSuffix(), a.JavaType, a.Name)},
		)
	}
	for _, a := range e.Attributes {
		if !a.IsString() || a.ID {
			continue
		}
		methods = append(methods, DerivedQuery{
			Signature: fmt.Sprintf("List<%s> findBy%sContainingIgnoreCase(String %s);", e.Name, a.MethodSuffix(), a.Name),
		})
	}
	for _, a := range e.StatusAttributes() {
		if a.JavaType == "Boolean" {
			methods = append(methods, DerivedQuery{
				Signature: fmt.Sprintf("List<%s> findBy%sTrue();", e.Name, a.MethodSuffix()),
			})
		}
		methods = append(methods,
			DerivedQuery{
				Annotation: fmt.Sprintf("@Query(value = \"SELECT COUNT(*) FROM %s WHERE %s = :%s\", nativeQuery = true)",
					e.Mapping.Table, a.Column, a.Name),
				Signature: fmt.Sprintf("long countBy%s(@Param(%q) %s %s);", a.MethodSuffix(), a.Name, a.JavaType, a.Name),
			},
			DerivedQuery{
				Annotation: fmt.Sprintf("@Modifying\n    @Transactional\n    @Query(\"UPDATE %s e SET e.%s = :%s WHERE e.%s IN :ids\")",
					e.Name, a.Name, a.Name, e.IDAttribute().Name),
				Signature: fmt.Sprintf("int update%sByIds(@Param(%q) %s %s, @Param(\"ids\") List<%s> ids);",
					a.MethodSuffix(), a.Name, a.JavaType, a.Name, e.IDType()),
			},
		)
	}
	return methods
}

// SearchQuery returns the JPQL text-search query across the entity's
// searchable string attributes, or "" when there are none.
func (e *Entity) SearchQuery() string {
	var clauses []string
	for _, a := range e.SearchableAttributes() {
		if !a.IsString() {
			continue
		}
		clauses = append(clauses,
			fmt.Sprintf("LOWER(e.%s) LIKE LOWER(CONCAT('%%', :query, '%%'))", a.Name))
	}
	if len(clauses) == 0 {
		return ""
	}
	return fmt.Sprintf("SELECT e FROM %s e WHERE %s", e.Name, strings.Join(clauses, " OR "))
}

// RepositoryImports returns the sorted import list of the repository.
func (e *Entity) RepositoryImports() []string {
	set := map[string]bool{
		e.EntityPackage() + "." + e.Name:                        true,
		"org.springframework.data.jpa.repository.JpaRepository": true,
		"org.springframework.stereotype.Repository":             true,
		"java.util.List":     true,
		"java.util.Optional": true,
	}
	if imp := ImportFor(e.IDType()); imp != "" {
		set[imp] = true
	}
	for _, a := range e.FinderAttributes() {
		if imp := ImportFor(a.JavaType); imp != "" {
			set[imp] = true
		}
	}
	methods := e.RepositoryMethods()
	for i := range methods {
		if methods[i].Annotation == "" {
			continue
		}
		set["org.springframework.data.jpa.repository.Query"] = true
		set["org.springframework.data.repository.query.Param"] = true
		if strings.Contains(methods[i].Annotation, "@Modifying") {
			set["org.springframework.data.jpa.repository.Modifying"] = true
			set["org.springframework.transaction.annotation.Transactional"] = true
		}
	}
	if e.SearchQuery() != "" {
		set["org.springframework.data.jpa.repository.Query"] = true
		set["org.springframework.data.repository.query.Param"] = true
	}
	if e.Paginated() {
		set["org.springframework.data.domain.Page"] = true
		set["org.springframework.data.domain.Pageable"] = true
	}
	return sortedKeys(set)
}

// HasModifying reports whether any repository method is a bulk update.
func (e *Entity) HasModifying() bool {
	for _, m := range e.RepositoryMethods() {
		if strings.Contains(m.Annotation, "@Modifying") {
			return true
		}
	}
	return false
}
