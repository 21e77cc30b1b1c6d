package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashDeterministic(t *testing.T) {
	prompts := []string{"", "a", "a woman at sunset", "日本語のプロンプト", "🎨 emoji"}
	for _, p := range prompts {
		first := Hash(p)
		assert.GreaterOrEqual(t, first, 0, "hash must be non-negative for %q", p)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, Hash(p), "hash must be stable for %q", p)
		}
	}
}

func TestHashDistinguishesOrder(t *testing.T) {
	assert.NotEqual(t, Hash("ab"), Hash("ba"))
	assert.NotEqual(t, Hash("sunset beach"), Hash("beach sunset"))
}

func TestHuesFollowHash(t *testing.T) {
	for _, p := range []string{"", "poster art", "vibrant colors everywhere"} {
		h := Hash(p)
		h1, h2, h3 := Hues(p)
		assert.Equal(t, h%360, h1)
		assert.Equal(t, (h*7)%360, h2)
		assert.Equal(t, (h*13)%360, h3)
	}
}

func TestHuesInRange(t *testing.T) {
	for _, p := range []string{"", "x", "some longer prompt with many words"} {
		h1, h2, h3 := Hues(p)
		for _, h := range []int{h1, h2, h3} {
			assert.GreaterOrEqual(t, h, 0)
			assert.Less(t, h, 360)
		}
	}
}

func TestHSL(t *testing.T) {
	t.Run("primary colors", func(t *testing.T) {
		red := HSL(0, 100, 50)
		assert.Equal(t, uint8(255), red.R)
		assert.Equal(t, uint8(0), red.G)
		assert.Equal(t, uint8(0), red.B)

		green := HSL(120, 100, 50)
		assert.Equal(t, uint8(255), green.G)

		blue := HSL(240, 100, 50)
		assert.Equal(t, uint8(255), blue.B)
	})

	t.Run("lightness extremes", func(t *testing.T) {
		white := HSL(37, 80, 100)
		assert.Equal(t, uint8(255), white.R)
		assert.Equal(t, uint8(255), white.G)
		assert.Equal(t, uint8(255), white.B)

		black := HSL(200, 80, 0)
		assert.Equal(t, uint8(0), black.R)
	})

	t.Run("hue wraps", func(t *testing.T) {
		assert.Equal(t, HSL(30, 70, 50), HSL(390, 70, 50))
	})

	t.Run("alpha passthrough", func(t *testing.T) {
		c := HSLA(180, 50, 50, 96)
		assert.Equal(t, uint8(96), c.A)
	})
}
