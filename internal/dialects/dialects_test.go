package dialects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altair-labs/interrogator/internal/dialect"
)

func TestBuiltinDialectsConstruct(t *testing.T) {
	constructors := map[string]func() (*dialect.Dialect, error){
		"2020-12":  Draft202012,
		"2019-09":  Draft201909,
		"draft-07": Draft07,
		"draft-04": Draft04,
	}
	for name, ctor := range constructors {
		t.Run(name, func(t *testing.T) {
			d, err := ctor()
			require.NoError(t, err)
			require.NotNil(t, d)
			assert.NotEmpty(t, d.Keywords())
			_, ok := d.PrimaryMetaschema()
			assert.True(t, ok, "primary metaschema must be registered under the dialect's own id")
		})
	}
}

func TestDraft07HasNoContains(t *testing.T) {
	d, err := Draft07()
	require.NoError(t, err)
	for _, kw := range d.Keywords() {
		for _, name := range kw.Kind() {
			assert.NotEqual(t, "contains", name)
		}
	}
}

func TestRegistryOrdersPrimaryAs202012(t *testing.T) {
	d202012, err := Draft202012()
	require.NoError(t, err)
	d201909, err := Draft201909()
	require.NoError(t, err)
	d07, err := Draft07()
	require.NoError(t, err)
	d04, err := Draft04()
	require.NoError(t, err)

	reg, err := dialect.NewDialects(d202012, d201909, d07, d04)
	require.NoError(t, err)
	assert.Equal(t, d202012.ID().String(), reg.Primary().ID().String())
}
