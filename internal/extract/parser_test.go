package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collectingHandler struct {
	models []ModelRecord
	subs   []SubcircuitRecord
}

func (c *collectingHandler) HandleModel(m ModelRecord)       { c.models = append(c.models, m) }
func (c *collectingHandler) HandleSubcircuit(s SubcircuitRecord) { c.subs = append(c.subs, s) }

func runParser(t *testing.T, src string) *collectingHandler {
	t.Helper()
	normalized := []byte(src) // tests supply already-lowercase input; driver_test covers case folding end-to-end
	lex := NewLexer(normalized, "test.sp")
	origLines := splitLines([]byte(src))
	p := NewParser(lex, "test.sp", origLines, nil)
	h := &collectingHandler{}
	require.NoError(t, p.Run(h))
	return h
}

func TestParser_BasicModel(t *testing.T) {
	h := runParser(t, ".model nmos1 nmos (vth=0.7 tox=1.4e-8)\n")
	require.Len(t, h.models, 1)
	m := h.models[0]
	assert.Equal(t, "nmos1", m.Name)
	assert.Equal(t, "nmos", m.Type)
	require.Contains(t, m.Params, "vth")
	assert.Equal(t, ValueNumeric, m.Params["vth"].Kind)
	assert.InDelta(t, 0.7, m.Params["vth"].Scaled, 1e-9)
}

func TestParser_ParenthesizedVariantsEquivalent(t *testing.T) {
	forms := []string{
		".model a nmos l=0.18u w=1u vth=0.7 tox=1.4e-8\n",
		".model b nmos (l=0.18u w=1u vth=0.7 tox=1.4e-8)\n",
		".model c nmos ((l)=0.18u (w)=1u vth=0.7 tox=1.4e-8)\n",
	}
	var results []map[string]ParameterValue
	for _, src := range forms {
		h := runParser(t, src)
		require.Len(t, h.models, 1, "src=%s", src)
		results = append(results, h.models[0].Params)
	}
	for i := 1; i < len(results); i++ {
		require.Equal(t, len(results[0]), len(results[i]))
		for name, pv := range results[0] {
			other, ok := results[i][name]
			require.True(t, ok, "missing param %s in form %d", name, i)
			assert.Equal(t, pv.Kind, other.Kind, "param %s", name)
			if pv.Kind == ValueNumeric {
				assert.InDelta(t, pv.Scaled, other.Scaled, 1e-12, "param %s", name)
			}
		}
	}
}

func TestParser_ExpressionDropsWholeModel(t *testing.T) {
	h := runParser(t, ".model bad nmos vth=0.7 l=max(0.18u,0.2u)\n.model good pmos vth=0.7\n")
	require.Len(t, h.models, 1)
	assert.Equal(t, "good", h.models[0].Name)
}

func TestParser_NestedSubcircuitDropped(t *testing.T) {
	src := ".subckt outer a b\n" +
		"r1 a b 1k\n" +
		".subckt inner c d\n" +
		"r2 c d 2k\n" +
		".ends inner\n" +
		".ends outer\n"
	h := runParser(t, src)
	require.Len(t, h.subs, 1)
	assert.Equal(t, "outer", h.subs[0].Name)
	assert.Contains(t, h.subs[0].Content, ".subckt outer")
	assert.Contains(t, h.subs[0].Content, ".ends outer")
}

func TestParser_ModelInsideSubcktDropped(t *testing.T) {
	src := ".subckt outer a b\n" +
		".model nmos1 nmos vth=0.7\n" +
		".ends outer\n"
	h := runParser(t, src)
	assert.Empty(t, h.models)
	require.Len(t, h.subs, 1)
}

func TestParser_UnclosedSubcircuitDropped(t *testing.T) {
	src := ".subckt outer a b\n" +
		"r1 a b 1k\n"
	h := runParser(t, src)
	assert.Empty(t, h.subs)
}

func TestParser_ZeroParameterModelPersisted(t *testing.T) {
	h := runParser(t, ".model bare nmos\n")
	require.Len(t, h.models, 1)
	assert.Empty(t, h.models[0].Params)
}

func TestParser_MalformedModelMissingType(t *testing.T) {
	h := runParser(t, ".model onlyname\n.model good nmos vth=0.7\n")
	require.Len(t, h.models, 1)
	assert.Equal(t, "good", h.models[0].Name)
}
