package manifest_test

import (
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"databinding/binding"
	"databinding/binding/bindingtest"
	"databinding/collection"
	"databinding/manifest"
	"databinding/property"
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
	return a.Streets.Len()
}

type person struct {
	property.Model

	YearOfBirth int
	Addresses   *collection.List[*address]
}

func (p *person) Age() int { return time.Now().Year() - p.YearOfBirth }

func base() binding.Options {
	return binding.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestApply(t *testing.T) {
	p := &person{
		YearOfBirth: 2000,
		Addresses: collection.NewList(
			&address{Streets: collection.NewList(&street{})},
			&address{Street: "Second"},
		),
	}

	streetText, ageText, count := &bindingtest.Text{}, &bindingtest.Text{}, &bindingtest.Spinner{}
	targets := map[string]any{"street": streetText, "age": ageText, "count": count}

	g, err := manifest.Apply(expectedManifest(), p, targets, base())
	require.NoError(t, err)
	defer g.Dispose()

	require.Equal(t, 3, g.Len())
	assert.Equal(t, "Second", streetText.Text())
	assert.Equal(t, 1, count.Selection())

	streetText.Type("Typed")
	second, _ := p.Addresses.At(1)
	assert.Equal(t, "Typed", second.Street)

	require.NoError(t, property.Set(p, "year_of_birth", 1990))
	assert.Equal(t, strconv.Itoa(time.Now().Year()-1990), ageText.Text())

	first, _ := p.Addresses.At(0)
	first.Streets.Append(&street{})
	assert.Equal(t, 2, count.Selection())

	g.Dispose()
	assert.Zero(t, p.TotalObserverCount())
	assert.Zero(t, p.Addresses.ObserverCount())
}

func TestApplyErrors(t *testing.T) {
	p := &person{Addresses: collection.NewList[*address]()}

	_, err := manifest.Apply(&manifest.File{Version: "9"}, p, nil, base())
	assert.ErrorContains(t, err, "invalid manifest")

	mf := &manifest.File{Version: "1", Bindings: []manifest.Entry{
		{Target: "first", Property: "text", Path: "addresses[0].street"},
		{Target: "second", Property: "text", Path: "addresses[0].street"},
	}}
	first := &bindingtest.Text{}

	_, err = manifest.Apply(mf, p, map[string]any{"first": first}, base())

	var mte *manifest.MissingTargetError
	require.ErrorAs(t, err, &mte)
	assert.Equal(t, "second", mte.Target)
	assert.Zero(t, p.TotalObserverCount())
	assert.Zero(t, p.Addresses.ObserverCount())
	assert.Zero(t, first.DisposerCount())
}
