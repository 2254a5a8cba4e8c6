// Package geocoding переводит текстовое название места в координаты через Nominatim.
package geocoding

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shenikar/crisis_broadcasting_system/internal/geo"
	"github.com/sirupsen/logrus"
)

// ErrNoMatch - поиск не дал результатов
var ErrNoMatch = errors.New("geocoding: no match")

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Client - клиент поиска Nominatim
type Client struct {
	http *resty.Client
	url  string
}

func New(url, userAgent string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json"),
		url: url,
	}
}

// Geocode возвращает координаты первого совпадения
func (c *Client) Geocode(ctx context.Context, name string) (geo.Point, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return geo.Point{}, ErrNoMatch
	}

	var places []place
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      name,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&places).
		Get(c.url)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocoding: request %q: %w", name, err)
	}
	if resp.IsError() {
		return geo.Point{}, fmt.Errorf("geocoding: unexpected status %d for %q", resp.StatusCode(), name)
	}
	if len(places) == 0 {
		return geo.Point{}, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocoding: bad latitude %q: %w", places[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocoding: bad longitude %q: %w", places[0].Lon, err)
	}
	return geo.Point{Lat: lat, Lng: lng}, nil
}

// Resolver подставляет точку по умолчанию, если геокодирование недоступно или не удалось
type Resolver struct {
	client   *Client
	fallback geo.Point
	logger   *logrus.Logger
}

// NewResolver создает резолвер. client может быть nil: тогда всегда возвращается fallback.
func NewResolver(client *Client, fallback geo.Point, logger *logrus.Logger) *Resolver {
	return &Resolver{client: client, fallback: fallback, logger: logger}
}

// Resolve никогда не возвращает ошибку. Второе значение сообщает, найдено ли место.
func (r *Resolver) Resolve(ctx context.Context, name string) (geo.Point, bool) {
	if r.client == nil {
		return r.fallback, false
	}
	p, err := r.client.Geocode(ctx, name)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"component": "geocoding",
			"location":  name,
		}).WithError(err).Warn("Geocoding failed, using default coordinates")
		return r.fallback, false
	}
	return p, true
}
