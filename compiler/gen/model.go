// Package gen is the code-generation core: it builds a typed model from a
// loaded class diagram and renders Spring Boot source artifacts from it.
package gen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/springforge/springforge"
	"github.com/springforge/springforge/compiler/load"
)

// Eligibility records whether a diagram class produces an entity, and if
// not, why. It is computed once per class during model construction.
type Eligibility struct {
	Eligible bool
	Reason   string
}

// entityStereotypes are the stereotypes accepted on entity classes, the
// empty stereotype included.
var entityStereotypes = map[string]bool{
	"": true, "entity": true, "model": true, "do": true, "po": true,
}

// Eligible reports whether a diagram class should produce an entity.
// Interfaces and enums never do; neither do classes carrying a foreign
// stereotype such as service or controller.
func Eligible(c *load.Class) Eligibility {
	switch c.Kind {
	case load.KindInterface:
		return Eligibility{Reason: "interface"}
	case load.KindEnum:
		return Eligibility{Reason: "enum"}
	}
	st := strings.ToLower(strings.Trim(c.Stereotype, "<>« »"))
	if !entityStereotypes[st] {
		return Eligibility{Reason: "stereotype " + st}
	}
	return Eligibility{Eligible: true}
}

// RelKey identifies a relationship by its endpoints. Duplicate edges
// between the same pair collapse to the first one seen.
type RelKey struct {
	SourceID string
	TargetID string
}

// Graph is the typed model built from a diagram: the entities to generate
// plus the relationship index between them.
type Graph struct {
	*Config
	// Nodes are the entities in diagram order.
	Nodes []*Entity
	// Skipped maps class ids that produced no entity to the reason.
	Skipped map[string]Eligibility

	rels  map[RelKey]*Relation
	byID  map[string]*Entity
	byCls map[string]*Entity
}

// Entity is one generated domain class with its Spring artifact names.
type Entity struct {
	*Config
	ClassID string
	Name    string // Java class name
	Doc     string
	Mapping SpringMapping
	// Parent is the entity this one extends, set by inheritance edges.
	Parent     *Entity
	Attributes []*Attribute
	// Methods are the non-accessor operations declared on the class.
	Methods []*Method
	// Relations owned by this entity, in diagram order.
	Relations []*Relation
}

// Method is one business operation declared on the class. Accessors from
// the diagram are dropped; the generator emits its own getters and setters.
type Method struct {
	Name       string
	ReturnType string // Java type, "void" when the diagram declares none
	Static     bool
	Params     []Param
}

// Param is one method parameter.
type Param struct {
	Name string
	Type string
}

// Attribute is one persistent field of an entity.
type Attribute struct {
	Name     string // Java field name
	Column   string // snake_case column name
	UMLType  string
	JavaType string
	ID       bool
	Final    bool
	Doc      string
	// Synthetic marks the identifier added when the diagram declares none.
	Synthetic bool
}

// Relation is one JPA association field, owned by its source entity.
type Relation struct {
	Key      RelKey
	Kind     RelKind
	RelType  load.RelType
	Source   *Entity
	Target   *Entity
	Name     string // Java field name on the source side
	MappedBy string // owning-side property; set marks this the inverse side
	Cascade  []string
	Fetch    string
}

// NewGraph builds the typed model for a diagram under the given config.
// The diagram must already be structurally valid.
func NewGraph(cfg *Config, d *load.Diagram) (*Graph, error) {
	if cfg == nil {
		return nil, springforge.NewConfigError("config", nil, "missing generation config")
	}
	g := &Graph{
		Config:  cfg,
		Skipped: make(map[string]Eligibility),
		rels:    make(map[RelKey]*Relation),
		byID:    make(map[string]*Entity),
		byCls:   make(map[string]*Entity),
	}
	selected := make(map[string]bool, len(cfg.Selected))
	for _, name := range cfg.Selected {
		selected[javaClass(name)] = true
	}
	for _, c := range d.Classes {
		el := Eligible(c)
		if !el.Eligible {
			g.Skipped[c.ID] = el
			continue
		}
		e := newEntity(cfg, c)
		if cfg.Scope == springforge.ScopeCustom && len(selected) > 0 && !selected[e.Name] {
			g.Skipped[c.ID] = Eligibility{Reason: "not selected"}
			continue
		}
		if prev, ok := g.byCls[e.Name]; ok {
			return nil, springforge.NewDiagramError(c.ID, c.Name,
				fmt.Sprintf("class name collides with %s", prev.ClassID), nil)
		}
		g.Nodes = append(g.Nodes, e)
		g.byID[c.ID] = e
		g.byCls[e.Name] = e
	}
	if len(g.Nodes) == 0 {
		return nil, springforge.NewDiagramError("", "", "diagram has no entity classes", nil)
	}
	if err := g.addRelations(d.Relationships); err != nil {
		return nil, err
	}
	return g, nil
}

func newEntity(cfg *Config, c *load.Class) *Entity {
	e := &Entity{
		Config:  cfg,
		ClassID: c.ID,
		Name:    javaClass(c.Name),
		Doc:     c.Doc,
	}
	e.Mapping = MapClass(c.Name)
	for _, a := range c.Attributes {
		if a.Static {
			continue
		}
		e.Attributes = append(e.Attributes, &Attribute{
			Name:     javaField(a.Name),
			Column:   snake(a.Name),
			UMLType:  a.Type,
			JavaType: JavaType(a.Type),
			// An attribute conventionally named "id" is the identifier even
			// without an explicit flag.
			ID:    a.ID || strings.EqualFold(a.Name, "id"),
			Final: a.Final,
			Doc:   a.Doc,
		})
	}
	if e.IDAttribute() == nil {
		// Every entity needs an identifier; synthesize the conventional one.
		e.Attributes = append([]*Attribute{{
			Name: "id", Column: "id", JavaType: "Long", ID: true, Synthetic: true,
		}}, e.Attributes...)
	}
	for _, m := range c.Methods {
		if m.Abstract || accessorName(m.Name) {
			continue
		}
		em := &Method{
			Name:       javaField(m.Name),
			ReturnType: "void",
			Static:     m.Static,
		}
		if m.ReturnType != "" && !strings.EqualFold(m.ReturnType, "void") {
			em.ReturnType = JavaType(m.ReturnType)
		}
		for _, p := range m.Parameters {
			em.Params = append(em.Params, Param{
				Name: javaField(p.Name),
				Type: JavaType(p.Type),
			})
		}
		e.Methods = append(e.Methods, em)
	}
	return e
}

// accessorName reports whether a method name follows the bean accessor
// convention. Such methods are regenerated from the fields instead.
func accessorName(name string) bool {
	for _, prefix := range []string{"get", "set", "is"} {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			if c := name[len(prefix)]; c >= 'A' && c <= 'Z' {
				return true
			}
		}
	}
	return false
}

func (g *Graph) addRelations(rels []*load.Relationship) error {
	for _, r := range rels {
		src, sok := g.byID[r.SourceID]
		tgt, tok := g.byID[r.TargetID]
		if !sok || !tok {
			// One endpoint was skipped; drop the edge with it.
			continue
		}
		switch r.Type {
		case load.RelInheritance, load.RelRealization:
			if src.Parent != nil && src.Parent != tgt {
				return springforge.NewRelationshipError(r.ID, r.SourceID, r.TargetID,
					"multiple inheritance is not supported")
			}
			src.Parent = tgt
			continue
		case load.RelDependency:
			continue
		}
		key := RelKey{SourceID: r.SourceID, TargetID: r.TargetID}
		if _, ok := g.rels[key]; ok {
			continue
		}
		rel := newRelation(key, r, src, tgt)
		g.rels[key] = rel
		src.Relations = append(src.Relations, rel)
		// Entities reference each other from both ends so mappedBy always
		// resolves to a real field. Self-references and edges the diagram
		// already declares in both directions keep their explicit mapping.
		ikey := RelKey{SourceID: r.TargetID, TargetID: r.SourceID}
		if _, ok := g.rels[ikey]; !ok {
			inv := inverseRelation(ikey, r, rel)
			g.rels[ikey] = inv
			tgt.Relations = append(tgt.Relations, inv)
		}
	}
	return nil
}

func newRelation(key RelKey, r *load.Relationship, src, tgt *Entity) *Relation {
	kind := Classify(r.SourceCard, r.TargetCard)
	rel := &Relation{
		Key:     key,
		Kind:    kind,
		RelType: r.Type,
		Source:  src,
		Target:  tgt,
		Cascade: Cascade(r.Type),
		Fetch:   Fetch(kind),
	}
	switch {
	case kind.Plural():
		rel.Name = javaField(plural(tgt.Name))
		if r.TargetRole != "" {
			rel.Name = javaField(r.TargetRole)
		}
	default:
		rel.Name = tgt.Mapping.Variable
		if r.TargetRole != "" {
			rel.Name = javaField(r.TargetRole)
		}
	}
	if kind == O2M {
		rel.MappedBy = src.Mapping.Variable
		if r.SourceRole != "" {
			rel.MappedBy = javaField(r.SourceRole)
		}
	}
	return rel
}

// inverseRelation builds the back-reference on the target entity. A relation
// with MappedBy set is the non-owning side regardless of kind.
func inverseRelation(key RelKey, r *load.Relationship, fwd *Relation) *Relation {
	kind := fwd.Kind.Inverse()
	inv := &Relation{
		Key:     key,
		Kind:    kind,
		RelType: fwd.RelType,
		Source:  fwd.Target,
		Target:  fwd.Source,
		Fetch:   Fetch(kind),
	}
	switch fwd.Kind {
	case O2M:
		// The collection already points here through mappedBy; this side
		// owns the foreign key.
		inv.Name = fwd.MappedBy
	case M2O:
		inv.MappedBy = fwd.Name
		inv.Cascade = fwd.Cascade
		inv.Name = javaField(plural(fwd.Source.Name))
		if r.SourceRole != "" {
			inv.Name = javaField(r.SourceRole)
		}
	default: // O2O, M2M mirror the owning side without cascading.
		inv.MappedBy = fwd.Name
		inv.Name = fwd.Source.Mapping.Variable
		if kind.Plural() {
			inv.Name = javaField(plural(fwd.Source.Name))
		}
		if r.SourceRole != "" {
			inv.Name = javaField(r.SourceRole)
		}
	}
	return inv
}

// Relation returns the relation between the two class ids, or nil.
func (g *Graph) Relation(key RelKey) *Relation {
	return g.rels[key]
}

// EntityByClassID returns the entity generated from the given class id.
func (g *Graph) EntityByClassID(id string) *Entity {
	return g.byID[id]
}

// EntityByName returns the entity with the given Java class name.
func (g *Graph) EntityByName(name string) *Entity {
	return g.byCls[name]
}

// IDAttribute returns the entity's identifier attribute.
func (e *Entity) IDAttribute() *Attribute {
	for _, a := range e.Attributes {
		if a.ID {
			return a
		}
	}
	return nil
}

// JoinColumn is the foreign-key column name for a singular relation.
func (r *Relation) JoinColumn() string {
	return snake(r.Target.Name) + "_id"
}

// JoinTable is the join-table name for a many-to-many relation.
func (r *Relation) JoinTable() string {
	return snake(r.Source.Name) + "_" + snake(r.Target.Name)
}

// FieldType is the Java type of the relation field on the owning side.
func (r *Relation) FieldType() string {
	if r.Kind.Plural() {
		return "List<" + r.Target.Name + ">"
	}
	return r.Target.Name
}

// uniqueColumns are attribute names that get a unique constraint.
var uniqueColumns = map[string]bool{"email": true, "username": true, "code": true}

// finderSubstrings and finderNames drive derived-query generation.
var (
	finderSubstrings = []string{"email", "username", "code", "reference", "slug", "key"}
	finderNames      = map[string]bool{"status": true, "state": true, "type": true, "category": true}
	statusNames      = map[string]bool{"status": true, "active": true, "enabled": true, "state": true}
	searchableNames  = map[string]bool{"status": true, "type": true, "category": true}
)

// Unique reports whether the column carries a unique constraint.
func (a *Attribute) Unique() bool {
	return uniqueColumns[strings.ToLower(a.Name)]
}

// IsString reports whether the attribute maps to a Java String.
func (a *Attribute) IsString() bool { return a.JavaType == "String" }

// Numeric reports whether the attribute maps to a numeric Java type.
func (a *Attribute) Numeric() bool { return NumericType(a.JavaType) }

// Temporal reports whether the attribute maps to a java.time type.
func (a *Attribute) Temporal() bool {
	switch a.JavaType {
	case "LocalDateTime", "LocalDate", "LocalTime":
		return true
	}
	return false
}

// creation/update timestamp attribute names, lowercased without separators.
var (
	creationStamps = map[string]bool{"createdat": true, "createddate": true}
	updateStamps   = map[string]bool{"updatedat": true, "modifieddate": true, "lastmodified": true}
)

func foldName(name string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(name))
}

// CreationStamp reports whether the attribute is a creation timestamp.
func (a *Attribute) CreationStamp() bool { return creationStamps[foldName(a.Name)] }

// UpdateStamp reports whether the attribute is a last-update timestamp.
func (a *Attribute) UpdateStamp() bool { return updateStamps[foldName(a.Name)] }

// Finder reports whether the attribute gets findBy/existsBy/deleteBy
// derived queries.
func (a *Attribute) Finder() bool {
	if a.ID {
		return false
	}
	lower := strings.ToLower(a.Name)
	if finderNames[lower] || strings.HasSuffix(lower, "id") {
		return true
	}
	for _, sub := range finderSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// StatusFlag reports whether the attribute drives status-style queries
// such as findByActiveTrue and bulk status updates.
func (a *Attribute) StatusFlag() bool {
	return statusNames[strings.ToLower(a.Name)]
}

// Searchable reports whether the attribute participates in text search
// endpoints and counts toward the pagination threshold.
func (a *Attribute) Searchable() bool {
	if a.ID {
		return false
	}
	return a.IsString() || searchableNames[strings.ToLower(a.Name)]
}

// docLengthRE extracts a length hint from attribute documentation,
// e.g. "length: 120".
var docLengthRE = regexp.MustCompile(`length\s*:\s*(\d+)`)

// DocLength returns the Size(max) hint from the documentation, or "".
func (a *Attribute) DocLength() string {
	m := docLengthRE.FindStringSubmatch(strings.ToLower(a.Doc))
	if m == nil {
		return ""
	}
	return m[1]
}

// DocRequired reports whether the documentation marks the attribute required.
func (a *Attribute) DocRequired() bool {
	return strings.Contains(strings.ToLower(a.Doc), "required")
}

// EmailHint reports whether the attribute name suggests an email address.
func (a *Attribute) EmailHint() bool {
	return strings.Contains(strings.ToLower(a.Name), "email")
}

// SearchableAttributes returns the attributes participating in search.
func (e *Entity) SearchableAttributes() []*Attribute {
	var attrs []*Attribute
	for _, a := range e.Attributes {
		if a.Searchable() {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// FinderAttributes returns the attributes that get derived finders.
func (e *Entity) FinderAttributes() []*Attribute {
	var attrs []*Attribute
	for _, a := range e.Attributes {
		if a.Finder() {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// StatusAttributes returns the status-style attributes.
func (e *Entity) StatusAttributes() []*Attribute {
	var attrs []*Attribute
	for _, a := range e.Attributes {
		if a.StatusFlag() {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// ActiveAttribute returns the first boolean status attribute, which drives
// the /active listing endpoint, or nil.
func (e *Entity) ActiveAttribute() *Attribute {
	for _, a := range e.StatusAttributes() {
		if a.JavaType == "Boolean" {
			return a
		}
	}
	return nil
}

// Paginated reports whether the entity's listing endpoints support paging.
// The threshold counts searchable attributes and comes from the project
// config.
func (e *Entity) Paginated() bool {
	return len(e.SearchableAttributes()) >= e.Project.PaginationThreshold
}

// FinalAttributes returns the immutable attributes, which feed the
// all-arguments constructor.
func (e *Entity) FinalAttributes() []*Attribute {
	var attrs []*Attribute
	for _, a := range e.Attributes {
		if a.Final {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// ParamList renders the method's Java parameter list.
func (m *Method) ParamList() string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = p.Type + " " + p.Name
	}
	return strings.Join(parts, ", ")
}

// Default is the placeholder return expression of a generated method stub.
// All mapped Java types are reference types, so null always compiles.
func (m *Method) Default() string {
	if m.ReturnType == "void" {
		return ""
	}
	return "null"
}
