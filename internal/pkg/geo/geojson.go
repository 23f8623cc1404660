package geo

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidGeoJSON = errors.New("invalid polygon geojson")

// Polygon - GeoJSON Polygon, координаты в порядке [lon, lat]
type Polygon struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

// ToGeoJSON строит замкнутый GeoJSON Polygon из открытого кольца.
// Для кольца меньше 3 вершин возвращается nil.
func ToGeoJSON(ring []Point) *Polygon {
	clean := normalize(ring)
	if len(clean) < 3 {
		return nil
	}

	coords := make([][]float64, 0, len(clean)+1)
	for _, p := range clean {
		coords = append(coords, []float64{p.Lon, p.Lat})
	}
	coords = append(coords, []float64{clean[0].Lon, clean[0].Lat})

	return &Polygon{
		Type:        "Polygon",
		Coordinates: [][][]float64{coords},
	}
}

// Ring возвращает внешнее кольцо полигона как открытый список вершин
func (p *Polygon) Ring() []Point {
	if p == nil || len(p.Coordinates) == 0 {
		return nil
	}

	outer := p.Coordinates[0]
	ring := make([]Point, 0, len(outer))
	for _, c := range outer {
		if len(c) < 2 {
			continue
		}
		ring = append(ring, Point{Lat: c[1], Lon: c[0]})
	}
	return normalize(ring)
}

// FromGeoJSON разбирает геометрию Polygon (или Feature с ней) и возвращает
// внешнее кольцо. Дыры игнорируются.
func FromGeoJSON(raw []byte) ([]Point, error) {
	var probe struct {
		Type     string          `json:"type"`
		Geometry json.RawMessage `json:"geometry"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeoJSON, err)
	}

	if probe.Type == "Feature" {
		if len(probe.Geometry) == 0 {
			return nil, fmt.Errorf("%w: feature without geometry", ErrInvalidGeoJSON)
		}
		return FromGeoJSON(probe.Geometry)
	}

	if probe.Type != "Polygon" {
		return nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidGeoJSON, probe.Type)
	}

	var poly Polygon
	if err := json.Unmarshal(raw, &poly); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeoJSON, err)
	}

	ring := poly.Ring()
	if len(ring) < 3 {
		return nil, fmt.Errorf("%w: ring needs at least 3 vertices", ErrInvalidGeoJSON)
	}
	return ring, nil
}
