package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		percentage int
		want       Level
	}{
		{100, LevelExcellent},
		{85, LevelExcellent},
		{84, LevelGood},
		{70, LevelGood},
		{69, LevelModerate},
		{55, LevelModerate},
		{54, LevelNeedsImprovement},
		{40, LevelNeedsImprovement},
		{39, LevelNeedsAttention},
		{0, LevelNeedsAttention},
		{-10, LevelNeedsAttention},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Classify(c.percentage).Level, "percentage %d", c.percentage)
	}
}

func TestClassifyIsMonotonic(t *testing.T) {
	rank := map[Level]int{}
	for i, band := range Bands() {
		rank[band.Level] = i
	}

	previous := Classify(0)
	for p := 1; p <= 100; p++ {
		current := Classify(p)
		require.LessOrEqual(t, rank[current.Level], rank[previous.Level], "percentage %d", p)
		if current.Level == previous.Level {
			require.Equal(t, previous.Description, current.Description)
			require.Equal(t, previous.Suggestions, current.Suggestions)
		}
		previous = current
	}
}

func TestBandTextBinding(t *testing.T) {
	moderate, ok := BandForLevel(LevelModerate)
	require.True(t, ok)
	require.Equal(t, "您的情商水平处于平均水平，有较大的提升空间。", moderate.Description)
	require.Len(t, moderate.Suggestions, 4)

	attention, ok := BandForLevel(LevelNeedsAttention)
	require.True(t, ok)
	require.Len(t, attention.Suggestions, 5)
	require.Equal(t, "练习冥想和正念", attention.Suggestions[4])

	_, ok = BandForLevel(Level("unknown"))
	require.False(t, ok)
}

func TestBandsReturnsCopies(t *testing.T) {
	table := Bands()
	require.Len(t, table, 5)
	table[0].Suggestions[0] = "changed"

	require.Equal(t, "继续保持您的情商优势", Classify(90).Suggestions[0])
}
