package gen

// Endpoint is one non-CRUD handler of the entity controller.
type Endpoint struct {
	Kind string // finder, search, or active
	Attr *Attribute
	Path string
}

// Endpoints returns the entity's derived endpoints: a by-attribute lookup
// per finder attribute, a text search per searchable string attribute, and
// a single active-rows listing when a boolean status flag exists.
func (e *Entity) Endpoints() []Endpoint {
	var eps []Endpoint
	for _, a := range e.FinderAttributes() {
		eps = append(eps, Endpoint{Kind: "finder", Attr: a, Path: "/by-" + a.Kebab() + "/{value}"})
	}
	for _, a := range e.SearchableAttributes() {
		if !a.IsString() {
			continue
		}
		eps = append(eps, Endpoint{Kind: "search", Attr: a, Path: "/search/" + a.Kebab()})
	}
	for _, a := range e.StatusAttributes() {
		if a.JavaType != "Boolean" {
			continue
		}
		eps = append(eps, Endpoint{Kind: "active", Attr: a, Path: "/active"})
		break
	}
	return eps
}

// BaseAPIPath is the controller's request mapping, versioned under /api/v1.
func (e *Entity) BaseAPIPath() string { return "/api/v1/" + e.Mapping.APIPath }

// ControllerImports returns the sorted import list of the controller.
func (e *Entity) ControllerImports() []string {
	set := map[string]bool{
		e.DTOPackage() + "." + e.Mapping.DTO:                      true,
		e.ServicePackage() + "." + e.Mapping.Service:              true,
		"org.springframework.dao.DataIntegrityViolationException": true,
		"org.springframework.http.HttpStatus":                     true,
		"org.springframework.http.ResponseEntity":                 true,
		"org.springframework.web.bind.annotation.*":               true,
		"java.util.List":                   true,
		"java.util.Map":                    true,
		"java.util.NoSuchElementException": true,
	}
	if e.Project.Features.Validation {
		set["jakarta.validation.Valid"] = true
	}
	if imp := ImportFor(e.IDType()); imp != "" {
		set[imp] = true
	}
	for _, ep := range e.Endpoints() {
		if imp := ImportFor(ep.Attr.JavaType); imp != "" {
			set[imp] = true
		}
	}
	if e.Paginated() {
		set["org.springframework.data.domain.Page"] = true
		set["org.springframework.data.domain.Pageable"] = true
		set["org.springframework.data.web.PageableDefault"] = true
	}
	return sortedKeys(set)
}
