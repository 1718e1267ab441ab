package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A node resolved twice must come back with the same registry slot; the
// processed side table keys on Handle(), so a fresh slot per query would let
// a second fill pass re-claim every container. Both query scripts must check
// for an existing slot before parking a new one.
func TestQueryScriptsReuseRegistrySlots(t *testing.T) {
	scripts := map[string]string{
		"query":    queryExpr("document", ".application-question"),
		"queryAll": queryAllExpr("document", ".application-question"),
	}

	for name, script := range scripts {
		t.Run(name, func(t *testing.T) {
			lookup := strings.Index(script, "r.indexOf(el)")
			park := strings.Index(script, "r.push(el)")
			require.NotEqual(t, -1, lookup, "script never looks up the existing slot")
			require.NotEqual(t, -1, park)
			assert.Less(t, lookup, park, "existing slot must be checked before parking")
		})
	}
}

func TestQueryScriptsQuoteSelectors(t *testing.T) {
	script := queryExpr("document", `input[name="q"]`)
	assert.Contains(t, script, `"input[name=\"q\"]"`)

	script = queryAllExpr("document", `a"b`)
	assert.Contains(t, script, `"a\"b"`)
}
