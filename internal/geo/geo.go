// Package geo содержит чистые геодезические функции: расстояние по большому кругу,
// попадание в радиус, выборку ближайших объектов и грубый ограничивающий прямоугольник.
package geo

import (
	"math"
	"sort"
)

const (
	// EarthRadiusMeters - радиус сферы для формулы гаверсинусов
	EarthRadiusMeters = 6371000.0
	// MetersPerDegree - приближение для ограничивающего прямоугольника
	MetersPerDegree = 111000.0
)

// Point - координаты WGS84 в градусах
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Locatable - все, у чего есть координаты
type Locatable interface {
	Location() Point
}

// Hit - найденный объект и расстояние до него в метрах
type Hit[T any] struct {
	Item     T
	Distance float64
}

// Distance возвращает расстояние между точками в метрах (формула гаверсинусов)
func Distance(a, b Point) float64 {
	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// WithinRadius - замкнутый интервал: точка ровно на границе считается внутри
func WithinRadius(a, b Point, radiusMeters float64) bool {
	return Distance(a, b) <= radiusMeters
}

// Nearby возвращает объекты в пределах радиуса, отсортированные по возрастанию расстояния.
// При равных расстояниях сохраняется исходный порядок.
func Nearby[T Locatable](origin Point, items []T, radiusMeters float64) []Hit[T] {
	hits := make([]Hit[T], 0)
	for _, item := range items {
		d := Distance(origin, item.Location())
		if d <= radiusMeters {
			hits = append(hits, Hit[T]{Item: item, Distance: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// BoundingBox - прямоугольник в градусах, используется только как префильтр
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// BoundingBoxFor строит приближенный прямоугольник вокруг центра.
// Широта обрезается до [-90, 90]. Если круг накрывает полюс или пересекает
// антимеридиан, долгота не ограничивается: прямоугольник всегда содержит круг.
func BoundingBoxFor(center Point, radiusMeters float64) BoundingBox {
	latDelta := radiusMeters / MetersPerDegree
	box := BoundingBox{
		MinLat: math.Max(center.Lat-latDelta, -90),
		MaxLat: math.Min(center.Lat+latDelta, 90),
		MinLng: -180,
		MaxLng: 180,
	}
	if math.Abs(center.Lat)+latDelta >= 90 {
		return box
	}

	lngDelta := radiusMeters / (MetersPerDegree * math.Cos(center.Lat*math.Pi/180))
	minLng, maxLng := center.Lng-lngDelta, center.Lng+lngDelta
	if minLng < -180 || maxLng > 180 {
		return box
	}
	box.MinLng, box.MaxLng = minLng, maxLng
	return box
}

// Contains проверяет попадание точки в прямоугольник
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}
