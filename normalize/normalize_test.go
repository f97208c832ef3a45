package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ukrail/railplanner/normalize"
)

func TestResolve(t *testing.T) {
	known := normalize.NewSet([]string{"London Waterloo", "Farnborough", "Fleet"})

	cases := []struct{ in, want string }{
		{"London Waterloo", "London Waterloo"},
		{"london waterloo", "London Waterloo"},
		{"Waterloo", "London Waterloo"},
		{"Farnborough (Main)", "Farnborough"},
		{"Fleet", "Fleet"},
		{"Nonexistent Station", "Nonexistent Station"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, normalize.Resolve(c.in, known), "input=%q", c.in)
	}
}

func TestAreEquivalent(t *testing.T) {
	assert.True(t, normalize.AreEquivalent("Farnborough (Main)", "Farnborough Main"))
	assert.True(t, normalize.AreEquivalent("St. Enoch", "St Enoch"))
	assert.False(t, normalize.AreEquivalent("Farnborough North", "Farnborough (Main)"))
}
