package binding_test

import (
	"bytes"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"databinding/binding"
	"databinding/binding/bindingtest"
	"databinding/collection"
	"databinding/convert"
	"databinding/internal/chain"
	"databinding/property"
	"databinding/propertypath"
)

type street struct {
	property.Model

	Name string
}

type address struct {
	property.Model

	Street  string
	Streets *collection.List[*street]
}

func (a *address) StreetCount() int {
	if a.Streets == nil {
		return 0
	}

	return a.Streets.Len()
}

type person struct {
	property.Model

	Name        string
	FirstName   string
	LastName    string
	YearOfBirth int
	Count       int
	Married     bool
	Enabled     bool
	Address1    *address
	Addresses   *collection.List[*address]
	Names       *collection.List[string]
}

func (p *person) Age() int { return time.Now().Year() - p.YearOfBirth }

func (p *person) FullName() string { return p.FirstName + " " + p.LastName }

type plainPerson struct {
	Name string
}

func newPerson() *person {
	return &person{
		Name:     "Bruce Ting",
		Address1: &address{Street: "Main"},
		Addresses: collection.NewList(
			&address{Street: "First", Streets: collection.NewList(&street{Name: "a"})},
			&address{Street: "Second"},
		),
		Names: collection.NewList[string](),
	}
}

func quiet(opts binding.Options) binding.Options {
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func attach(t *testing.T, model any, expr string, opts binding.Options, target any, prop string) *binding.Binding {
	t.Helper()

	spec, err := binding.Bind(model, expr, quiet(opts))
	require.NoError(t, err)

	b, err := binding.Attach(spec, target, prop)
	require.NoError(t, err)
	t.Cleanup(b.Dispose)

	return b
}

func set(t *testing.T, obj any, name string, v any) {
	t.Helper()
	require.NoError(t, property.Set(obj, name, v))
}

func observerTotal(p *person) int {
	total := p.TotalObserverCount() + p.Addresses.ObserverCount() + p.Names.ObserverCount()
	if p.Address1 != nil {
		total += p.Address1.TotalObserverCount()
	}

	for _, a := range p.Addresses.All() {
		if a == nil {
			continue
		}

		total += a.TotalObserverCount()
		if a.Streets != nil {
			total += a.Streets.ObserverCount()
		}
	}

	return total
}

func TestRoundTrip(t *testing.T) {
	p := newPerson()
	text := &bindingtest.Text{}
	b := attach(t, p, "name", binding.Options{}, text, "text")

	assert.Equal(t, binding.Bidirectional, b.Direction())
	assert.Equal(t, "Bruce Ting", text.Text())

	set(t, p, "name", "Lady Butterfly")
	assert.Equal(t, "Lady Butterfly", text.Text())

	text.Type("Allen Cork")
	assert.Equal(t, "Allen Cork", p.Name)
	assert.NoError(t, b.Err())
}

func TestNoFeedbackLoop(t *testing.T) {
	p := newPerson()
	text := &bindingtest.Text{}
	attach(t, p, "name", binding.Options{}, text, "text")

	modelWrites, targetWrites := 0, 0
	property.Observe(p, "name", func() { modelWrites++ })
	property.Observe(text, "text", func() { targetWrites++ })

	text.Type("Allen Cork")
	set(t, p, "name", "Bruce Ting")

	assert.Equal(t, 2, modelWrites)
	assert.Equal(t, 2, targetWrites)
}

func TestNestedReassignment(t *testing.T) {
	p := newPerson()
	old := p.Address1
	text := &bindingtest.Text{}
	attach(t, p, "address1.street", binding.Options{}, text, "text")

	next := &address{Street: "Elm"}
	set(t, p, "address1", next)
	assert.Equal(t, "Elm", text.Text())

	set(t, old, "street", "Ignored")
	assert.Equal(t, "Elm", text.Text())
	assert.Zero(t, old.TotalObserverCount())

	text.Type("Oak")
	assert.Equal(t, "Oak", next.Street)
	assert.Equal(t, "Ignored", old.Street)
}

func TestNestedNilAndBack(t *testing.T) {
	p := newPerson()
	old := p.Address1
	text := &bindingtest.Text{}
	attach(t, p, "address1.street", binding.Options{}, text, "text")

	set(t, p, "address1", nil)
	assert.Empty(t, text.Text())

	text.Type("Nowhere")
	assert.Nil(t, p.Address1)
	assert.Equal(t, "Main", old.Street)

	set(t, p, "address1", old)
	assert.Equal(t, "Main", text.Text())
}

func TestIndexedAliasing(t *testing.T) {
	p := newPerson()
	first, _ := p.Addresses.At(0)
	second, _ := p.Addresses.At(1)
	text := &bindingtest.Text{}
	attach(t, p, "addresses[1].street", binding.Options{}, text, "text")

	assert.Equal(t, "Second", text.Text())

	require.NoError(t, p.Addresses.Set(1, first))
	assert.Equal(t, "First", text.Text())
	assert.Zero(t, second.ObserverCount("street"))
	assert.Equal(t, 1, first.ObserverCount("street"))

	set(t, first, "street", "Shared")
	assert.Equal(t, "Shared", text.Text())

	text.Type("Typed")
	assert.Equal(t, "Typed", first.Street)

	require.NoError(t, p.Addresses.Set(1, nil))
	assert.Empty(t, text.Text())
	assert.Zero(t, first.ObserverCount("street"))
}

func TestIndexedStructuralChanges(t *testing.T) {
	p := newPerson()
	text := &bindingtest.Text{}
	attach(t, p, "addresses[1].street", binding.Options{}, text, "text")

	tests := []struct {
		name   string
		mutate func()
		want   string
	}{
		{"delete at", func() { _, _ = p.Addresses.DeleteAt(0) }, ""},
		{"append", func() { p.Addresses.Append(&address{Street: "Appended"}) }, "Appended"},
		{"insert", func() { _ = p.Addresses.Insert(1, &address{Street: "Inserted"}) }, "Inserted"},
		{"delete by value", func() {
			a, _ := p.Addresses.At(1)
			p.Addresses.Delete(a)
		}, "Appended"},
		{"clear", p.Addresses.Clear, ""},
		{"replace list", func() {
			set(t, p, "addresses", collection.NewList(&address{}, &address{Street: "Fresh"}))
		}, "Fresh"},
		{"reassign empty", func() { set(t, p, "addresses", collection.NewList[*address]()) }, ""},
	}

	for _, tt := range tests {
		tt.mutate()
		assert.Equal(t, tt.want, text.Text(), tt.name)
	}
}

func TestIndexedTerminal(t *testing.T) {
	p := newPerson()
	text := &bindingtest.Text{}
	attach(t, p, "names[1]", binding.Options{}, text, "text")

	assert.Empty(t, text.Text())

	text.Type("Bob")
	assert.Equal(t, []string{"", "Bob"}, p.Names.Items())

	require.NoError(t, p.Names.Set(1, "Alice"))
	assert.Equal(t, "Alice", text.Text())
}

func TestComputed(t *testing.T) {
	p := newPerson()
	p.YearOfBirth = 1990

	text := &bindingtest.Text{}
	b := attach(t, p, "age", binding.Options{ComputedBy: []string{"year_of_birth"}}, text, "text")

	assert.Equal(t, binding.ModelToTarget, b.Direction())
	assert.Equal(t, strconv.Itoa(time.Now().Year()-1990), text.Text())

	set(t, p, "year_of_birth", 2000)
	assert.Equal(t, strconv.Itoa(time.Now().Year()-2000), text.Text())

	text.Type("3")
	assert.Equal(t, 2000, p.YearOfBirth)
	assert.Zero(t, p.ObserverCount("age"))
}

func TestComputedDependencies(t *testing.T) {
	t.Run("undeclared dependency does not push", func(t *testing.T) {
		p := newPerson()
		p.FirstName, p.LastName = "Bruce", "Ting"

		text := &bindingtest.Text{}
		attach(t, p, "full_name", binding.Options{ComputedBy: []string{"first_name"}}, text, "text")
		assert.Equal(t, "Bruce Ting", text.Text())

		set(t, p, "last_name", "Lee")
		assert.Equal(t, "Bruce Ting", text.Text())

		set(t, p, "first_name", "Brandon")
		assert.Equal(t, "Brandon Lee", text.Text())
	})

	t.Run("every declared dependency pushes", func(t *testing.T) {
		p := newPerson()
		p.FirstName, p.LastName = "Bruce", "Ting"

		text := &bindingtest.Text{}
		attach(t, p, "full_name",
			binding.Options{ComputedBy: []string{"first_name", "last_name"}}, text, "text")
		assert.Equal(t, "Bruce Ting", text.Text())

		set(t, p, "last_name", "Lee")
		assert.Equal(t, "Bruce Lee", text.Text())

		set(t, p, "first_name", "Brandon")
		assert.Equal(t, "Brandon Lee", text.Text())

		assert.Equal(t, 1, p.ObserverCount("first_name"))
		assert.Equal(t, 1, p.ObserverCount("last_name"))
	})
}

func TestNestedComputedOverList(t *testing.T) {
	p := newPerson()
	first, _ := p.Addresses.At(0)
	spinner := &bindingtest.Spinner{}
	attach(t, p, "addresses[0].street_count",
		binding.Options{ComputedBy: []string{"addresses[0].streets"}}, spinner, "selection")

	assert.Equal(t, 1, spinner.Selection())

	first.Streets.Append(&street{Name: "b"}, &street{Name: "c"})
	assert.Equal(t, 3, spinner.Selection())

	first.Streets.Clear()
	assert.Zero(t, spinner.Selection())

	set(t, first, "streets", collection.NewList(&street{}))
	assert.Equal(t, 1, spinner.Selection())

	require.NoError(t, p.Addresses.Set(0, &address{}))
	assert.Zero(t, spinner.Selection())
}

func TestValueKind(t *testing.T) {
	p := newPerson()
	p.Count = 5

	var seen []error
	text := &bindingtest.Text{}
	b := attach(t, p, "count", binding.Options{
		ValueKind: "fixnum",
		OnError:   func(err error) { seen = append(seen, err) },
	}, text, "text")

	assert.Equal(t, "5", text.Text())

	text.Type("7")
	assert.Equal(t, 7, p.Count)

	text.Type("seven")
	assert.Equal(t, 7, p.Count)
	require.Error(t, b.Err())
	require.Len(t, seen, 1, spew.Sdump(seen))

	set(t, p, "count", 9)
	assert.Equal(t, "9", text.Text())
}

func TestSelectionControls(t *testing.T) {
	p := newPerson()
	check := &bindingtest.Check{}
	spinner := &bindingtest.Spinner{}

	attach(t, p, "married", binding.Options{}, check, "selection")
	attach(t, p, "count", binding.Options{}, spinner, "selection")

	set(t, p, "married", true)
	assert.True(t, check.Selection())

	check.SetSelection(false)
	assert.False(t, p.Married)

	spinner.SetSelection(12)
	assert.Equal(t, 12, p.Count)

	set(t, p, "count", 4)
	assert.Equal(t, 4, spinner.Selection())
}

func TestReadOnlyLabel(t *testing.T) {
	p := newPerson()
	label := &bindingtest.Label{}
	b := attach(t, p, "name", binding.Options{}, label, "text")

	assert.Equal(t, binding.ModelToTarget, b.Direction())
	assert.Equal(t, "Bruce Ting", label.Text)

	set(t, p, "name", "Lady Butterfly")
	assert.Equal(t, "Lady Butterfly", label.Text)
}

func TestEnablementSharedProperty(t *testing.T) {
	p := newPerson()
	a, c := &bindingtest.Text{}, &bindingtest.Check{}

	ba := attach(t, p, "enabled", binding.Options{Direction: binding.ModelToTarget}, a, "enabled")
	attach(t, p, "enabled", binding.Options{Direction: binding.ModelToTarget}, c, "enabled")

	assert.Equal(t, 2, p.ObserverCount("enabled"))

	set(t, p, "enabled", true)
	assert.True(t, a.Enabled())
	assert.True(t, c.Enabled())

	ba.Dispose()
	assert.Equal(t, 1, p.ObserverCount("enabled"))

	set(t, p, "enabled", false)
	assert.True(t, a.Enabled())
	assert.False(t, c.Enabled())
}

func TestTargetDisposal(t *testing.T) {
	p := newPerson()
	text := &bindingtest.Text{}
	attach(t, p, "addresses[1].street", binding.Options{}, text, "text")

	require.NotZero(t, observerTotal(p))
	assert.Equal(t, 1, text.DisposerCount())

	text.Dispose()

	assert.Zero(t, observerTotal(p))
	assert.Zero(t, text.TotalObserverCount())

	assert.NotPanics(t, func() {
		second, _ := p.Addresses.At(1)
		set(t, second, "street", "Changed")
		set(t, p, "addresses", collection.NewList[*address]())
	})
	assert.Equal(t, "Second", text.Text())
}

type fadingLabel struct {
	Text string
	gone bool
}

func (l *fadingLabel) IsDisposed() bool { return l.gone }

func TestDisposedTargetIsNotUpdated(t *testing.T) {
	p := newPerson()
	label := &fadingLabel{}
	b := attach(t, p, "name", binding.Options{}, label, "text")

	label.gone = true

	set(t, p, "name", "After")
	assert.Equal(t, "Bruce Ting", label.Text)
	assert.False(t, b.Disposed())
	assert.NoError(t, b.Err())
}

func TestDisposeIdempotent(t *testing.T) {
	p := newPerson()
	text := &bindingtest.Text{}
	b := attach(t, p, "addresses[0].street", binding.Options{}, text, "text")

	b.Dispose()
	b.Dispose()
	text.Dispose()

	assert.True(t, b.Disposed())
	assert.Zero(t, observerTotal(p))
	assert.Empty(t, b.Registrations())
	assert.NoError(t, b.Sync())
}

func TestDisposeLeavesOtherBindings(t *testing.T) {
	p := newPerson()
	t1, t2 := &bindingtest.Text{}, &bindingtest.Text{}

	b1 := attach(t, p, "addresses[1].street", binding.Options{}, t1, "text")
	b2 := attach(t, p, "addresses[1].street", binding.Options{}, t2, "text")

	before := b2.Registrations()
	b1.Dispose()

	assert.Equal(t, before, b2.Registrations())

	second, _ := p.Addresses.At(1)
	set(t, second, "street", "Still")
	assert.Equal(t, "Still", t2.Text())
	assert.Equal(t, "Second", t1.Text())
}

func TestBindErrors(t *testing.T) {
	p := newPerson()

	_, err := binding.Bind(p, "addresses[", binding.Options{})
	var ipe *propertypath.InvalidPathError
	assert.ErrorAs(t, err, &ipe)

	_, err = binding.Bind(p, "age", binding.Options{ComputedBy: []string{"year of birth"}})
	assert.ErrorAs(t, err, &ipe)

	_, err = binding.Bind(p, "count", binding.Options{ValueKind: "intger"})
	var uke *convert.UnknownKindError
	assert.ErrorAs(t, err, &uke)

	_, err = binding.Bind(p, "age", binding.Options{ComputedBy: []string{"year_of_birth"}, Direction: binding.Bidirectional})
	assert.ErrorIs(t, err, binding.ErrComputedBidirectional)

	_, err = binding.Bind(nil, "name", binding.Options{})
	assert.Error(t, err)

	assert.Panics(t, func() { binding.MustBind(p, "", binding.Options{}) })
}

func TestAttachErrors(t *testing.T) {
	t.Run("missing property", func(t *testing.T) {
		p := newPerson()
		spec := binding.MustBind(p, "address1.zip", quiet(binding.Options{}))

		_, err := binding.Attach(spec, &bindingtest.Text{}, "text")
		var nsp *property.NoSuchPropertyError
		require.ErrorAs(t, err, &nsp)
		assert.Zero(t, observerTotal(p))
	})

	t.Run("unobservable model", func(t *testing.T) {
		m := &plainPerson{Name: "x"}
		text := &bindingtest.Text{}

		_, err := binding.Attach(binding.MustBind(m, "name", quiet(binding.Options{})), text, "text")
		var noe *chain.NotObservableError
		require.ErrorAs(t, err, &noe)
		assert.Zero(t, text.DisposerCount())

		b, err := binding.Attach(binding.MustBind(m, "name", quiet(binding.Options{BestEffort: true})), text, "text")
		require.NoError(t, err)
		defer b.Dispose()

		assert.Equal(t, "x", text.Text())

		m.Name = "y"
		require.NoError(t, b.Sync())
		assert.Equal(t, "y", text.Text())

		text.Type("z")
		assert.Equal(t, "z", m.Name)
	})

	t.Run("bidirectional needs an observable target", func(t *testing.T) {
		spec := binding.MustBind(newPerson(), "name", quiet(binding.Options{Direction: binding.Bidirectional}))

		_, err := binding.Attach(spec, &bindingtest.Label{}, "text")
		assert.Error(t, err)
	})

	t.Run("nil target", func(t *testing.T) {
		spec := binding.MustBind(newPerson(), "name", quiet(binding.Options{}))

		_, err := binding.Attach(spec, nil, "text")
		assert.ErrorIs(t, err, property.ErrNilObject)
	})
}

func TestResyncErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer

	p := newPerson()
	text := &bindingtest.Text{}
	spec, err := binding.Bind(p, "count", binding.Options{
		ValueKind: "int",
		Logger:    slog.New(slog.NewTextHandler(&buf, nil)),
	})
	require.NoError(t, err)

	b, err := binding.Attach(spec, text, "text")
	require.NoError(t, err)
	defer b.Dispose()

	text.Type("not a number")

	assert.Contains(t, buf.String(), "Binding resync failed")
	assert.Contains(t, buf.String(), "path=count")
}

func TestGroup(t *testing.T) {
	p := newPerson()
	var g binding.Group

	first, second := &bindingtest.Label{}, &bindingtest.Label{}

	b1, err := g.Attach(binding.MustBind(p, "name", quiet(binding.Options{})), first, "text")
	require.NoError(t, err)
	b2, err := g.Attach(binding.MustBind(p, "address1.street", quiet(binding.Options{})), second, "text")
	require.NoError(t, err)

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []*binding.Binding{b1, b2}, g.Bindings())

	first.Text = "stale"
	require.NoError(t, g.Sync())
	assert.Equal(t, "Bruce Ting", first.Text)

	g.Dispose()

	assert.True(t, b1.Disposed())
	assert.True(t, b2.Disposed())
	assert.Zero(t, observerTotal(p))
	assert.Zero(t, g.Len())
	assert.Zero(t, first.DisposerCount())
	assert.False(t, first.IsDisposed())
}
