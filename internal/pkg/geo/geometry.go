// Package geo вычисляет площадь, периметр и центр нарисованного оператором полигона.
//
// Все вычисления выполняются на сферической Земле с экваториальным радиусом WGS-84.
// Функции пакета никогда не паникуют и не возвращают ошибок: некорректный ввод
// даёт нулевую статистику, так как результат сразу уходит в интерфейс на поле.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters - экваториальный радиус WGS-84
const EarthRadiusMeters = 6378137.0

const (
	sqMetersPerHectare = 10000.0
	degToRad           = math.Pi / 180.0
)

// Point - вершина полигона в градусах
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Stats - производные характеристики полигона для отображения и хранения
type Stats struct {
	AreaHectares    float64 `json:"area_hectares"`
	PerimeterMeters int64   `json:"perimeter_meters"`
	Center          Point   `json:"center"`
	CenterLabel     string  `json:"center_label"`
	VertexCount     int     `json:"vertex_count"`
}

// AreaHectares - площадь открытого кольца в гектарах по сферическому избытку.
// Меньше 3 вершин - нулевая площадь. Порядок обхода на результат не влияет.
func AreaHectares(ring []Point) float64 {
	ring = normalize(ring)
	if len(ring) < 3 {
		return 0
	}

	var sum float64
	for i := range ring {
		p1 := ring[i]
		p2 := ring[(i+1)%len(ring)]
		sum += (p2.Lon - p1.Lon) * degToRad *
			(2 + math.Sin(p1.Lat*degToRad) + math.Sin(p2.Lat*degToRad))
	}

	area := math.Abs(sum * EarthRadiusMeters * EarthRadiusMeters / 2.0)
	return area / sqMetersPerHectare
}

// PerimeterMeters - длина замкнутого кольца по большому кругу в метрах
func PerimeterMeters(ring []Point) float64 {
	ring = normalize(ring)
	if len(ring) < 2 {
		return 0
	}

	var total float64
	for i := range ring {
		total += Distance(ring[i], ring[(i+1)%len(ring)])
	}
	return total
}

// Distance - расстояние по большому кругу (haversine) в метрах
func Distance(a, b Point) float64 {
	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLat := (b.Lat - a.Lat) * degToRad
	dLon := (b.Lon - a.Lon) * degToRad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Погрешность округления может дать h чуть больше 1
	h = math.Min(1, h)

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Centroid - центр ограничивающего прямоугольника кольца, а не центр масс площади.
// Для пустого кольца второй результат false.
func Centroid(ring []Point) (Point, bool) {
	ring = normalize(ring)
	if len(ring) == 0 {
		return Point{}, false
	}

	minLat, maxLat := ring[0].Lat, ring[0].Lat
	minLon, maxLon := ring[0].Lon, ring[0].Lon
	for _, p := range ring[1:] {
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
		minLon = math.Min(minLon, p.Lon)
		maxLon = math.Max(maxLon, p.Lon)
	}

	return Point{
		Lat: (minLat + maxLat) / 2,
		Lon: (minLon + maxLon) / 2,
	}, true
}

// Compute собирает статистику полигона в виде, готовом для отображения:
// площадь округляется до 0.01 га, периметр - вниз до целого метра.
func Compute(ring []Point) Stats {
	clean := normalize(ring)
	stats := Stats{VertexCount: len(clean)}

	if len(clean) < 3 {
		return stats
	}

	stats.AreaHectares = round2(AreaHectares(clean))
	stats.PerimeterMeters = int64(math.Floor(PerimeterMeters(clean)))
	if center, ok := Centroid(clean); ok {
		stats.Center = center
		stats.CenterLabel = FormatLatLon(center)
	}

	return stats
}

// FormatLatLon - строка "lat, lon" с 4 знаками после запятой
func FormatLatLon(p Point) string {
	return fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lon)
}

// normalize отбрасывает нечисловые вершины и явную замыкающую вершину
func normalize(ring []Point) []Point {
	clean := make([]Point, 0, len(ring))
	for _, p := range ring {
		if isFinite(p.Lat) && isFinite(p.Lon) {
			clean = append(clean, p)
		}
	}
	if n := len(clean); n > 1 && clean[0] == clean[n-1] {
		clean = clean[:n-1]
	}
	return clean
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
