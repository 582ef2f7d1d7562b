package generator

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/lvnexus/nexus/model"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	for scenario, fn := range map[string]func(
		t *testing.T, gen *Generator,
	){
		"test item fields":       testItemFields,
		"test timestamp backoff": testTimestampBackoff,
		"test unique ids":        testUniqueIds,
	} {
		t.Run(scenario, func(t *testing.T) {
			gen := New(rand.New(rand.NewSource(42)))
			fn(t, gen)
		})
	}
}

func testItemFields(t *testing.T, gen *Generator) {
	for i := 0; i < 100; i++ {
		item := gen.Generate()
		require.NotEmpty(t, item.Id)
		require.Contains(t, []string{
			model.ITEM_TYPE_TRAFFIC,
			model.ITEM_TYPE_EMERGENCY,
			model.ITEM_TYPE_INFRASTRUCTURE,
			model.ITEM_TYPE_WEATHER,
		}, item.Type)
		require.Contains(t, model.Severities, item.Severity)
		require.True(t, strings.HasPrefix(item.Title, item.Type+": "))

		var base *city
		for c := range cities {
			if strings.HasSuffix(item.Location, ", "+cities[c].name) {
				base = &cities[c]
			}
		}
		require.NotNil(t, base, "location %s names an unknown city", item.Location)
		require.InDelta(t, base.lat, item.Coords.Lat, coordRadius)
		require.InDelta(t, base.lon, item.Coords.Lon, coordRadius)
	}
}

func testTimestampBackoff(t *testing.T, gen *Generator) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	gen.now = func() time.Time { return fixed }
	for i := 0; i < 50; i++ {
		item := gen.Generate()
		require.LessOrEqual(t, item.Timestamp, fixed.UnixMilli())
		require.Greater(t, item.Timestamp, fixed.UnixMilli()-maxReportingLatencyMs)
	}
}

func testUniqueIds(t *testing.T, gen *Generator) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		item := gen.Generate()
		require.False(t, seen[item.Id])
		seen[item.Id] = true
	}
}
