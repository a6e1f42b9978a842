package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellValue_AsNumber(t *testing.T) {
	t.Run("Should read number cells verbatim", func(t *testing.T) {
		v, ok := Number(1234.56).AsNumber()
		require.True(t, ok)
		assert.Equal(t, 1234.56, v)
	})

	t.Run("Should parse numeric text cells", func(t *testing.T) {
		v, ok := Text(" 42.5 ").AsNumber()
		require.True(t, ok)
		assert.Equal(t, 42.5, v)
	})

	t.Run("Should reject non-numeric text", func(t *testing.T) {
		_, ok := Text("n/a").AsNumber()
		assert.False(t, ok)
	})

	t.Run("Should reject bool, date and empty cells", func(t *testing.T) {
		for _, c := range []CellValue{Bool(true), Date(time.Now()), Empty()} {
			_, ok := c.AsNumber()
			assert.False(t, ok, "kind %s", c.Kind)
		}
	})
}

func TestCellValue_Construction(t *testing.T) {
	t.Run("Should collapse blank text to empty", func(t *testing.T) {
		assert.True(t, Text("").IsEmpty())
		assert.True(t, Text("   ").IsEmpty())
		assert.False(t, Text("0").IsEmpty())
	})

	t.Run("Should convert loose values via FromAny", func(t *testing.T) {
		assert.Equal(t, KindNumber, FromAny(3.5).Kind)
		assert.Equal(t, KindNumber, FromAny(7).Kind)
		assert.Equal(t, KindBool, FromAny(true).Kind)
		assert.Equal(t, KindText, FromAny("hello").Kind)
		assert.Equal(t, KindDate, FromAny(time.Now()).Kind)
		assert.Equal(t, KindEmpty, FromAny(nil).Kind)
		assert.Equal(t, KindEmpty, FromAny(struct{}{}).Kind)
	})
}

func TestCellValue_String(t *testing.T) {
	t.Run("Should render numbers without trailing zeros", func(t *testing.T) {
		assert.Equal(t, "5", Number(5).String())
		assert.Equal(t, "5.25", Number(5.25).String())
	})

	t.Run("Should render bools in sheet style", func(t *testing.T) {
		assert.Equal(t, "TRUE", Bool(true).String())
		assert.Equal(t, "FALSE", Bool(false).String())
	})

	t.Run("Should render empty cells as empty string", func(t *testing.T) {
		assert.Equal(t, "", Empty().String())
	})
}
