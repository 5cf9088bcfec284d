package canon_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eykd/sldview/internal/canon"
)

type point struct {
	Y float64 `json:"y"`
	X float64 `json:"x"`
}

type labelDoc struct {
	Anchor *point `json:"anchor,omitempty"`
	Offset *point `json:"offset,omitempty"`
	Hidden string `json:"-"`
	note   string
}

type base struct {
	ID string `json:"id"`
}

type withEmbedded struct {
	base
	Name string `json:"name"`
	ID   string `json:"id"`
}

func TestSerialize_MapInsertionOrderIndependent(t *testing.T) {
	a := map[string]any{}
	a["zeta"] = 1
	a["alpha"] = map[string]any{"b": 2, "a": 1}
	a["mid"] = []any{map[string]any{"y": 1, "x": 2}}

	b := map[string]any{}
	b["mid"] = []any{map[string]any{"x": 2, "y": 1}}
	b["alpha"] = map[string]any{"a": 1, "b": 2}
	b["zeta"] = 1

	assert.Equal(t, canon.Serialize(a), canon.Serialize(b))
	assert.Equal(t, `{"alpha":{"a":1,"b":2},"mid":[{"x":2,"y":1}],"zeta":1}`, canon.Serialize(a))
}

func TestSerialize_ArrayOrderPreserved(t *testing.T) {
	got := canon.Serialize([]any{"b", "a", map[string]int{"k": 1}})
	assert.Equal(t, `["b","a",{"k":1}]`, got)
}

func TestSerialize_StructFieldsSortedByTagName(t *testing.T) {
	got := canon.Serialize(point{X: 1, Y: 2})
	assert.Equal(t, `{"x":1,"y":2}`, got)
}

func TestSerialize_OmitEmptySkipAndUnexported(t *testing.T) {
	got := canon.Serialize(labelDoc{Anchor: &point{X: 1.5, Y: -2}, Hidden: "h", note: "n"})
	assert.Equal(t, `{"anchor":{"x":1.5,"y":-2}}`, got)
}

func TestSerialize_EmbeddedFieldIsShadowed(t *testing.T) {
	got := canon.Serialize(withEmbedded{base: base{ID: "inner"}, Name: "n", ID: "outer"})
	assert.Equal(t, `{"id":"outer","name":"n"}`, got)
}

func TestSerialize_NonFiniteFloatsEncodeAsNull(t *testing.T) {
	got := canon.Serialize(map[string]float64{"nan": math.NaN(), "inf": math.Inf(1), "neg": math.Inf(-1), "ok": 0.25})
	assert.Equal(t, `{"inf":null,"nan":null,"neg":null,"ok":0.25}`, got)
}

func TestSerialize_FloatFormattingMatchesEncodingJSON(t *testing.T) {
	values := []float64{0, 1, -1.5, 1e-7, 123456789, 1e21, 3.0000000000000004}
	for _, v := range values {
		want, err := json.Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, string(want), canon.Serialize(v), "value %v", v)
	}
}

func TestSerialize_NilValues(t *testing.T) {
	var nilMap map[string]int
	var nilSlice []int
	var nilPtr *point
	assert.Equal(t, "null", canon.Serialize(nil))
	assert.Equal(t, "null", canon.Serialize(nilMap))
	assert.Equal(t, "null", canon.Serialize(nilSlice))
	assert.Equal(t, "null", canon.Serialize(nilPtr))
	assert.Equal(t, "[]", canon.Serialize([]int{}))
}

func TestSerialize_MarshalerIsRecanonicalised(t *testing.T) {
	raw := json.RawMessage(`{"b":1,"a":{"d":2,"c":3}}`)
	assert.Equal(t, `{"a":{"c":3,"d":2},"b":1}`, canon.Serialize(raw))

	ts := time.Date(2026, 2, 28, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, `"2026-02-28T15:04:05Z"`, canon.Serialize(ts))
}

func TestSerialize_StringsAreNotHTMLEscaped(t *testing.T) {
	assert.Equal(t, `"a<b>&c\"d"`, canon.Serialize(`a<b>&c"d`))
}

func TestSerialize_UnsupportedKindsDoNotPanic(t *testing.T) {
	v := map[string]any{"fn": func() {}, "ch": make(chan int), "c": complex(1, 2)}
	assert.NotPanics(t, func() {
		assert.Equal(t, `{"c":null,"ch":null,"fn":null}`, canon.Serialize(v))
	})
}

func TestSerialize_IntegerMapKeysSortedAsStrings(t *testing.T) {
	got := canon.Serialize(map[int]string{10: "ten", 2: "two", 1: "one"})
	assert.Equal(t, `{"1":"one","10":"ten","2":"two"}`, got)
}

func TestSerialize_Deterministic(t *testing.T) {
	doc := map[string]any{"nodes": map[string]any{"n2": point{X: 1}, "n1": point{Y: 2}}}
	first := canon.Serialize(doc)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, canon.Serialize(doc))
	}
}

func TestHashAndEqual(t *testing.T) {
	a := map[string]int{"x": 1, "y": 2}
	b := map[string]int{"y": 2, "x": 1}
	c := map[string]int{"x": 1, "y": 3}

	assert.True(t, canon.Equal(a, b))
	assert.False(t, canon.Equal(a, c))
	assert.Equal(t, canon.Hash(a), canon.Hash(b))
	assert.NotEqual(t, canon.Hash(a), canon.Hash(c))
	assert.Len(t, canon.Hash(a), 64)
}
