package textlist_test

import (
	"strings"
	"testing"

	"go-cvnetwork-backend/pkg/textlist"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("Should trim, drop blanks and dedupe case-insensitively keeping first casing", func(t *testing.T) {
		got := textlist.Normalize([]string{"C#", " sql ", "SQL", ""}, 0)
		assert.Equal(t, "C#,sql", got)
	})

	t.Run("Should truncate in order at the byte budget", func(t *testing.T) {
		// "go,rust" is 7 bytes; ",kubernetes" overflows, and truncation is
		// order-preserving so the shorter token behind it is dropped too
		got := textlist.Normalize([]string{"go", "rust", "kubernetes", "c"}, 10)
		assert.Equal(t, "go,rust", got)
		assert.LessOrEqual(t, len(got), 10)
	})

	t.Run("Should never cut a token mid-way", func(t *testing.T) {
		got := textlist.Normalize([]string{"elasticsearch"}, 5)
		assert.Equal(t, "", got)
	})

	t.Run("Empty input yields empty string", func(t *testing.T) {
		assert.Equal(t, "", textlist.Normalize(nil, 100))
		assert.Equal(t, "", textlist.Normalize([]string{"  ", ""}, 100))
	})
}

func TestParse(t *testing.T) {
	t.Run("Should round-trip with Normalize", func(t *testing.T) {
		csv := textlist.Normalize([]string{"C#", " sql ", "SQL", ""}, 0)
		assert.Equal(t, []string{"C#", "sql"}, textlist.Parse(csv))
	})

	t.Run("Should tolerate messy stored values", func(t *testing.T) {
		assert.Equal(t, []string{"go", "sql"}, textlist.Parse(" go ,, sql ,GO,"))
	})

	t.Run("Empty string parses to empty non-nil slice", func(t *testing.T) {
		got := textlist.Parse("")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestLimit(t *testing.T) {
	tokens := strings.Split("a,b,c,d,e", ",")

	t.Run("Should drop only the excess tokens", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, textlist.Limit(tokens, 3))
	})

	t.Run("Should keep everything when under the cap", func(t *testing.T) {
		assert.Equal(t, tokens, textlist.Limit(tokens, 10))
	})
}
