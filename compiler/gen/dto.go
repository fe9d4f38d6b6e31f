package gen

// Internal reports whether the attribute is managed by the persistence
// layer. Internal attributes never cross the API boundary: the DTO omits
// them and the service never copies them from a request.
func (a *Attribute) Internal() bool {
	return a.ID || a.CreationStamp() || a.UpdateStamp()
}

// DTOAttributes returns the attributes exposed on the transfer object.
func (e *Entity) DTOAttributes() []*Attribute {
	var attrs []*Attribute
	for _, a := range e.Attributes {
		if !a.Internal() {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// DTOImports returns the sorted import list of the transfer object.
func (e *Entity) DTOImports() []string {
	set := map[string]bool{}
	for _, a := range e.DTOAttributes() {
		if imp := ImportFor(a.JavaType); imp != "" {
			set[imp] = true
		}
	}
	if e.Project.Features.Validation {
		for _, a := range e.DTOAttributes() {
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
	return sortedKeys(set)
}

// DTOAnnotations returns the validation annotations of one DTO field.
func (e *Entity) DTOAnnotations(a *Attribute) []string {
	if !e.Project.Features.Validation {
		return nil
	}
	var anns []string
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
	return anns
}
