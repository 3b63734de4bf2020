package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseYAML(t *testing.T, src string) (*Value, error) {
	t.Helper()
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &node))
	return ValueFromYAML(&node)
}

// laughs builds a document whose aliases expand to 10^levels scalars.
func laughs(levels int) string {
	var b strings.Builder
	b.WriteString("l0: &l0 [lol, lol, lol, lol, lol, lol, lol, lol, lol, lol]\n")
	for i := 1; i <= levels; i++ {
		refs := make([]string, 10)
		for j := range refs {
			refs[j] = fmt.Sprintf("*l%d", i-1)
		}
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, strings.Join(refs, ", "))
	}
	return b.String()
}

func TestValueFromYAML(t *testing.T) {
	t.Run("should keep key order", func(t *testing.T) {
		v, err := parseYAML(t, "screens:\n  xs: 306px\n  sm: 640px\n")
		require.NoError(t, err)

		screens := v.Fields[0].Value
		require.Len(t, screens.Fields, 2)
		assert.Equal(t, "xs", screens.Fields[0].Key)
		assert.Equal(t, "sm", screens.Fields[1].Key)
	})

	t.Run("should expand small aliases", func(t *testing.T) {
		v, err := parseYAML(t, laughs(2))
		require.NoError(t, err)

		l2 := v.Fields[2].Value
		require.Len(t, l2.Items, 10)
		assert.Len(t, l2.Items[9].Items, 10)
	})

	t.Run("should reject alias expansion past the node limit", func(t *testing.T) {
		_, err := parseYAML(t, laughs(9))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfigShape))
		assert.Contains(t, err.Error(), "nodes")
	})
}
