package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/lvnexus/nexus/model"
)

type city struct {
	name    string
	lat     float64
	lon     float64
	streets []string
}

// Table order is fixed so generation is deterministic for a seeded RNG.
var cities = []city{
	{name: "Allentown", lat: 40.6084, lon: -75.4902, streets: []string{"Hamilton St", "Lehigh St", "7th St", "Union Blvd", "Tilghman St"}},
	{name: "Bethlehem", lat: 40.6259, lon: -75.3705, streets: []string{"Main St", "Broad St", "3rd St", "Linden St", "Elizabeth Ave"}},
	{name: "Easton", lat: 40.6918, lon: -75.2218, streets: []string{"Northampton St", "Larry Holmes Dr", "3rd St", "College Ave", "Cattell St"}},
}

type incidentCategory struct {
	name     string
	subTypes []string
}

var incidentCategories = []incidentCategory{
	{name: model.ITEM_TYPE_TRAFFIC, subTypes: []string{"Accident", "Road Closure", "Congestion", "Disabled Vehicle"}},
	{name: model.ITEM_TYPE_EMERGENCY, subTypes: []string{"Fire", "Medical Assist", "Police Activity", "Structure Collapse"}},
	{name: model.ITEM_TYPE_INFRASTRUCTURE, subTypes: []string{"Power Outage", "Water Main Break", "Gas Leak", "Signal Malfunction"}},
	{name: model.ITEM_TYPE_WEATHER, subTypes: []string{"Severe Thunderstorm", "Flash Flood Warning", "Tornado Watch", "High Winds"}},
}

const coordRadius float64 = 0.05

const maxReportingLatencyMs int64 = 10000

// Generator produces synthetic incident records from the static tables
// above. All randomness flows through the injected rand source.
type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

func New(rnd *rand.Rand) *Generator {
	return &Generator{
		rnd: rnd,
		now: time.Now,
	}
}

func (g *Generator) Generate() model.FeedItem {
	city := cities[g.rnd.Intn(len(cities))]
	street := city.streets[g.rnd.Intn(len(city.streets))]
	houseNumber := g.rnd.Intn(1200) + 100
	location := fmt.Sprintf("%d %s, %s", houseNumber, street, city.name)
	coords := model.GeoLocation{
		Lat: city.lat + (g.rnd.Float64()-0.5)*coordRadius*2,
		Lon: city.lon + (g.rnd.Float64()-0.5)*coordRadius*2,
	}
	category := incidentCategories[g.rnd.Intn(len(incidentCategories))]
	subType := category.subTypes[g.rnd.Intn(len(category.subTypes))]
	severity := model.Severities[g.rnd.Intn(len(model.Severities))]
	return model.FeedItem{
		Id:        uuid.New().String(),
		Type:      category.name,
		Severity:  severity,
		Title:     fmt.Sprintf("%s: %s", category.name, subType),
		Location:  location,
		Coords:    coords,
		Timestamp: g.now().UnixMilli() - g.rnd.Int63n(maxReportingLatencyMs),
	}
}
