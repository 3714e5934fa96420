package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motamman/signalk-units-preference-sub000/types"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"exact match", "navigation.speedOverGround", "navigation.speedOverGround", true},
		{"exact mismatch", "navigation.speedOverGround", "navigation.speedThroughWater", false},
		{"exact is anchored", "navigation.speed", "navigation.speedOverGround", false},

		{"single star one segment", "*.speedOverGround", "navigation.speedOverGround", true},
		{"single star no dot crossing", "*.speedOverGround", "navigation.deep.speedOverGround", false},
		{"star prefix in segment", "*.speed*", "navigation.speedOverGround", true},
		{"star prefix too deep", "*.speed*", "navigation.deep.speedOverGround", false},
		{"star requires a segment", "*.speed", "speed", false},

		{"double star zero segments", "**.speed", "speed", true},
		{"double star many segments", "**.speed", "a.b.speed", true},
		{"double star mismatch tail", "**.speed", "a.b.speedy", false},
		{"trailing double star", "environment.**", "environment.wind.speedApparent", true},
		{"trailing double star bare", "environment.**", "environment", true},
		{"interior double star zero", "a.**.b", "a.b", true},
		{"interior double star many", "a.**.b", "a.x.y.b", true},
		{"interior double star mismatch", "a.**.b", "a.x.c", false},
		{"bare double star", "**", "anything.at.all", true},

		{"star inside segment suffix", "tanks.*.currentLevel", "tanks.fuel0.currentLevel", true},
		{"star inside segment wrong depth", "tanks.*.currentLevel", "tanks.fuel0.sub.currentLevel", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.pattern, tt.path),
				"pattern %q path %q", tt.pattern, tt.path)
		})
	}
}

func TestCompileEmptyPattern(t *testing.T) {
	_, err := Compile("")
	require.Error(t, err)
}

func TestFindMatchPriorityOrder(t *testing.T) {
	rules := []types.PathPatternRule{
		{Pattern: "navigation.*", Category: "generic", Priority: 90},
		{Pattern: "navigation.speed*", Category: "speed", Priority: 100},
	}

	rule, ok := FindMatch("navigation.speedOverGround", rules)
	require.True(t, ok)
	assert.Equal(t, "speed", rule.Category)
	assert.Equal(t, 100, rule.Priority)
}

func TestFindMatchStableTies(t *testing.T) {
	rules := []types.PathPatternRule{
		{Pattern: "**.speed*", Category: "first", Priority: 0},
		{Pattern: "navigation.*", Category: "second", Priority: 0},
	}

	rule, ok := FindMatch("navigation.speedOverGround", rules)
	require.True(t, ok)
	assert.Equal(t, "first", rule.Category, "equal priorities keep original order")
}

func TestFindMatchInputOrderPreserved(t *testing.T) {
	// FindMatch must not mutate the caller's slice.
	rules := []types.PathPatternRule{
		{Pattern: "a.*", Category: "low", Priority: 1},
		{Pattern: "a.b", Category: "high", Priority: 10},
	}
	_, _ = FindMatch("a.b", rules)
	assert.Equal(t, "low", rules[0].Category)
}

func TestFindMatchEmptyRules(t *testing.T) {
	_, ok := FindMatch("any.path", nil)
	assert.False(t, ok)
}

func TestFindMatchNoRuleMatches(t *testing.T) {
	rules := []types.PathPatternRule{
		{Pattern: "electrical.**", Category: "power", Priority: 5},
	}
	_, ok := FindMatch("navigation.speedOverGround", rules)
	assert.False(t, ok)
}
