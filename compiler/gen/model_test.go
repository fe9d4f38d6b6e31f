package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/springforge/springforge"
	"github.com/springforge/springforge/compiler/load"
)

func testConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()
	project := springforge.DefaultProjectConfig()
	project.GroupID = "com.example.shop"
	project.ArtifactID = "shop"
	project.Features.Auditing = true
	cfg, err := NewConfig(project, opts...)
	require.NoError(t, err)
	return cfg
}

func shopDiagram() *load.Diagram {
	return &load.Diagram{
		Classes: []*load.Class{
			{
				ID: "c1", Name: "User", Stereotype: "entity",
				Attributes: []*load.Attribute{
					{Name: "id", Type: "Long", ID: true},
					{Name: "email", Type: "String", Doc: "required, length: 120"},
					{Name: "username", Type: "String"},
					{Name: "active", Type: "Boolean"},
					{Name: "created_at", Type: "Date"},
				},
			},
			{
				ID: "c2", Name: "Order",
				Attributes: []*load.Attribute{
					{Name: "total", Type: "BigDecimal"},
					{Name: "status", Type: "String"},
				},
				Methods: []*load.Method{
					{Name: "calculateTotal", ReturnType: "decimal"},
					{Name: "getTotal", ReturnType: "decimal"},
					{Name: "applyDiscount", Parameters: []load.Parameter{
						{Name: "rate", Type: "double"},
					}},
				},
			},
			{ID: "c3", Name: "Auditable", Kind: load.KindInterface},
		},
		Relationships: []*load.Relationship{
			{ID: "r1", Type: load.RelComposition, SourceID: "c1", TargetID: "c2",
				SourceCard: "1", TargetCard: "0..*"},
		},
	}
}

func shopGraph(t *testing.T, opts ...Option) *Graph {
	t.Helper()
	g, err := NewGraph(testConfig(t, opts...), shopDiagram())
	require.NoError(t, err)
	return g
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name   string
		class  *load.Class
		want   bool
		reason string
	}{
		{name: "plain class", class: &load.Class{Kind: load.KindClass}, want: true},
		{name: "entity stereotype", class: &load.Class{Kind: load.KindClass, Stereotype: "entity"}, want: true},
		{name: "guillemet stereotype", class: &load.Class{Kind: load.KindClass, Stereotype: "«model»"}, want: true},
		{name: "interface", class: &load.Class{Kind: load.KindInterface}, reason: "interface"},
		{name: "enum", class: &load.Class{Kind: load.KindEnum}, reason: "enum"},
		{name: "service stereotype", class: &load.Class{Kind: load.KindClass, Stereotype: "service"}, reason: "stereotype service"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := Eligible(tt.class)
			assert.Equal(t, tt.want, el.Eligible)
			if !tt.want {
				assert.Equal(t, tt.reason, el.Reason)
			}
		})
	}
}

func TestNewGraph(t *testing.T) {
	g := shopGraph(t)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, Eligibility{Reason: "interface"}, g.Skipped["c3"])

	user := g.EntityByName("User")
	require.NotNil(t, user)
	assert.Same(t, user, g.EntityByClassID("c1"))
	assert.Equal(t, "user", user.Mapping.Table)
	assert.Equal(t, "users", user.Mapping.APIPath)

	// declared identifier is kept
	id := user.IDAttribute()
	require.NotNil(t, id)
	assert.Equal(t, "Long", id.JavaType)
	assert.False(t, id.Synthetic)

	// missing identifier is synthesized in first position
	order := g.EntityByName("Order")
	require.NotNil(t, order)
	require.NotNil(t, order.IDAttribute())
	assert.True(t, order.IDAttribute().Synthetic)
	assert.Same(t, order.IDAttribute(), order.Attributes[0])
	assert.Equal(t, "Long", order.IDType())
}

func TestIdentifierByName(t *testing.T) {
	d := &load.Diagram{Classes: []*load.Class{{
		ID: "c1", Name: "Product",
		Attributes: []*load.Attribute{
			{Name: "id", Type: "Long"},
			{Name: "title", Type: "String"},
		},
	}}}
	g, err := NewGraph(testConfig(t), d)
	require.NoError(t, err)

	// an attribute named "id" is the identifier even without the flag,
	// so no second one is synthesized
	p := g.EntityByName("Product")
	require.Len(t, p.Attributes, 2)
	id := p.IDAttribute()
	require.NotNil(t, id)
	assert.Equal(t, "id", id.Name)
	assert.False(t, id.Synthetic)
}

func TestEntityMethods(t *testing.T) {
	g := shopGraph(t)
	order := g.EntityByName("Order")
	require.Len(t, order.Methods, 2) // getTotal is an accessor and dropped

	calc := order.Methods[0]
	assert.Equal(t, "calculateTotal", calc.Name)
	assert.Equal(t, "BigDecimal", calc.ReturnType)
	assert.Equal(t, "null", calc.Default())
	assert.Empty(t, calc.ParamList())

	apply := order.Methods[1]
	assert.Equal(t, "applyDiscount", apply.Name)
	assert.Equal(t, "void", apply.ReturnType)
	assert.Empty(t, apply.Default())
	assert.Equal(t, "Double rate", apply.ParamList())

	assert.Empty(t, g.EntityByName("User").Methods)
}

func TestDTOAttributes(t *testing.T) {
	g := shopGraph(t)
	user := g.EntityByName("User")
	var names []string
	for _, a := range user.DTOAttributes() {
		names = append(names, a.Name)
	}
	// identifier and creation stamp are persistence-managed
	assert.Equal(t, []string{"email", "username", "active"}, names)
	assert.True(t, user.IDAttribute().Internal())
	assert.True(t, user.IDAttribute().SkipOnCreate())
}

func TestGraphRelations(t *testing.T) {
	g := shopGraph(t)
	user := g.EntityByName("User")
	require.Len(t, user.Relations, 1)

	rel := g.Relation(RelKey{SourceID: "c1", TargetID: "c2"})
	require.NotNil(t, rel)
	assert.Same(t, rel, user.Relations[0])
	assert.Equal(t, O2M, rel.Kind)
	assert.Equal(t, "orders", rel.Name)
	assert.Equal(t, "user", rel.MappedBy)
	assert.Equal(t, []string{"CascadeType.ALL"}, rel.Cascade)
	assert.Equal(t, "FetchType.LAZY", rel.Fetch)
	assert.Equal(t, "List<Order>", rel.FieldType())

	// the many side owns the foreign key back to User
	order := g.EntityByName("Order")
	require.Len(t, order.Relations, 1)
	inv := g.Relation(RelKey{SourceID: "c2", TargetID: "c1"})
	require.NotNil(t, inv)
	assert.Same(t, inv, order.Relations[0])
	assert.Equal(t, M2O, inv.Kind)
	assert.Equal(t, "user", inv.Name)
	assert.Empty(t, inv.MappedBy)
	assert.Empty(t, inv.Cascade)
	assert.Equal(t, "user_id", inv.JoinColumn())
	assert.Equal(t, "User", inv.FieldType())
}

func TestGraphInverseRelations(t *testing.T) {
	d := &load.Diagram{
		Classes: []*load.Class{
			{ID: "c1", Name: "Student"},
			{ID: "c2", Name: "Course"},
			{ID: "c3", Name: "Profile"},
			{ID: "c4", Name: "Enrollment"},
		},
		Relationships: []*load.Relationship{
			{ID: "r1", Type: load.RelAssociation, SourceID: "c1", TargetID: "c2",
				SourceCard: "*", TargetCard: "*"},
			{ID: "r2", Type: load.RelAssociation, SourceID: "c1", TargetID: "c3",
				SourceCard: "1", TargetCard: "1"},
			{ID: "r3", Type: load.RelAssociation, SourceID: "c4", TargetID: "c2",
				SourceCard: "*", TargetCard: "1"},
		},
	}
	g, err := NewGraph(testConfig(t), d)
	require.NoError(t, err)

	// ManyToMany: the far side mirrors through mappedBy, no join table
	courses := g.Relation(RelKey{SourceID: "c1", TargetID: "c2"})
	require.NotNil(t, courses)
	assert.Empty(t, courses.MappedBy)
	back := g.Relation(RelKey{SourceID: "c2", TargetID: "c1"})
	require.NotNil(t, back)
	assert.Equal(t, M2M, back.Kind)
	assert.Equal(t, "students", back.Name)
	assert.Equal(t, "courses", back.MappedBy)

	// OneToOne: the inverse references the owning field
	profile := g.Relation(RelKey{SourceID: "c3", TargetID: "c1"})
	require.NotNil(t, profile)
	assert.Equal(t, O2O, profile.Kind)
	assert.Equal(t, "student", profile.Name)
	assert.Equal(t, "profile", profile.MappedBy)

	// ManyToOne: the one side collects back through mappedBy
	enrollments := g.Relation(RelKey{SourceID: "c2", TargetID: "c4"})
	require.NotNil(t, enrollments)
	assert.Equal(t, O2M, enrollments.Kind)
	assert.Equal(t, "enrollments", enrollments.Name)
	assert.Equal(t, "course", enrollments.MappedBy)
}

func TestGraphSelfReference(t *testing.T) {
	d := &load.Diagram{
		Classes: []*load.Class{{ID: "c1", Name: "Category"}},
		Relationships: []*load.Relationship{
			{ID: "r1", Type: load.RelAssociation, SourceID: "c1", TargetID: "c1",
				SourceCard: "*", TargetCard: "1"},
		},
	}
	g, err := NewGraph(testConfig(t), d)
	require.NoError(t, err)
	// a self-reference gets no synthesized back edge
	assert.Len(t, g.EntityByName("Category").Relations, 1)
}

func TestGraphDuplicateRelation(t *testing.T) {
	d := shopDiagram()
	d.Relationships = append(d.Relationships, &load.Relationship{
		ID: "r2", Type: load.RelAssociation, SourceID: "c1", TargetID: "c2",
		SourceCard: "*", TargetCard: "1",
	})
	g, err := NewGraph(testConfig(t), d)
	require.NoError(t, err)
	// first edge between the pair wins
	assert.Equal(t, O2M, g.Relation(RelKey{SourceID: "c1", TargetID: "c2"}).Kind)
	assert.Len(t, g.EntityByName("User").Relations, 1)
}

func TestGraphInheritance(t *testing.T) {
	d := shopDiagram()
	d.Classes = append(d.Classes, &load.Class{ID: "c4", Name: "AdminUser"})
	d.Relationships = append(d.Relationships, &load.Relationship{
		ID: "r3", Type: load.RelInheritance, SourceID: "c4", TargetID: "c1",
	})
	g, err := NewGraph(testConfig(t), d)
	require.NoError(t, err)
	admin := g.EntityByName("AdminUser")
	require.NotNil(t, admin)
	require.NotNil(t, admin.Parent)
	assert.Equal(t, "User", admin.Parent.Name)
	assert.Empty(t, admin.Relations)
}

func TestGraphMultipleInheritance(t *testing.T) {
	d := shopDiagram()
	d.Classes = append(d.Classes, &load.Class{ID: "c4", Name: "AdminUser"})
	d.Relationships = append(d.Relationships,
		&load.Relationship{ID: "r3", Type: load.RelInheritance, SourceID: "c4", TargetID: "c1"},
		&load.Relationship{ID: "r4", Type: load.RelInheritance, SourceID: "c4", TargetID: "c2"},
	)
	_, err := NewGraph(testConfig(t), d)
	require.Error(t, err)
	assert.True(t, springforge.IsRelationshipError(err))
}

func TestGraphCustomScope(t *testing.T) {
	g := shopGraph(t,
		WithScope(springforge.ScopeCustom),
		WithSelectedClasses("User"),
	)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "User", g.Nodes[0].Name)
	assert.Equal(t, "not selected", g.Skipped["c2"].Reason)
	// relations to unselected classes are dropped with them
	assert.Empty(t, g.Nodes[0].Relations)
}

func TestGraphNameCollision(t *testing.T) {
	d := &load.Diagram{Classes: []*load.Class{
		{ID: "c1", Name: "user_profile"},
		{ID: "c2", Name: "UserProfile"},
	}}
	_, err := NewGraph(testConfig(t), d)
	require.Error(t, err)
	assert.True(t, springforge.IsDiagramError(err))
}

func TestAttributeHeuristics(t *testing.T) {
	g := shopGraph(t)
	user := g.EntityByName("User")

	byName := func(name string) *Attribute {
		for _, a := range user.Attributes {
			if a.Name == name {
				return a
			}
		}
		return nil
	}

	email := byName("email")
	require.NotNil(t, email)
	assert.True(t, email.Finder())
	assert.True(t, email.Unique())
	assert.True(t, email.Searchable())
	assert.True(t, email.EmailHint())
	assert.True(t, email.DocRequired())
	assert.Equal(t, "120", email.DocLength())

	active := byName("active")
	require.NotNil(t, active)
	assert.True(t, active.StatusFlag())
	assert.False(t, active.Finder())

	created := byName("createdAt")
	require.NotNil(t, created)
	assert.True(t, created.CreationStamp())
	assert.True(t, created.Temporal())
	assert.True(t, created.SkipOnUpdate())

	id := user.IDAttribute()
	assert.False(t, id.Finder())
	assert.False(t, id.Searchable())
}

func TestEntityDerivations(t *testing.T) {
	g := shopGraph(t)
	user := g.EntityByName("User")

	assert.Len(t, user.SearchableAttributes(), 2) // email, username
	assert.True(t, user.Paginated())
	require.NotNil(t, user.ActiveAttribute())
	assert.Equal(t, "active", user.ActiveAttribute().Name)

	order := g.EntityByName("Order")
	assert.Len(t, order.SearchableAttributes(), 1) // status
	assert.False(t, order.Paginated())
	assert.Nil(t, order.ActiveAttribute())

	assert.Contains(t, user.SearchQuery(), "LOWER(e.email)")
	assert.Contains(t, user.SearchQuery(), "OR")
}

func TestPaginationThreshold(t *testing.T) {
	project := springforge.DefaultProjectConfig()
	project.GroupID = "com.example.shop"
	project.ArtifactID = "shop"
	project.PaginationThreshold = 1
	cfg, err := NewConfig(project)
	require.NoError(t, err)
	g, err := NewGraph(cfg, shopDiagram())
	require.NoError(t, err)
	assert.True(t, g.EntityByName("Order").Paginated())
}

func TestRelationColumns(t *testing.T) {
	g := shopGraph(t)
	rel := g.Relation(RelKey{SourceID: "c1", TargetID: "c2"})
	assert.Equal(t, "order_id", rel.JoinColumn())
	assert.Equal(t, "user_order", rel.JoinTable())
}
