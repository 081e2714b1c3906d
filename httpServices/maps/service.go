// Package maps talks to the mapping provider: static route maps for
// the resume mail and reverse geocoding of the route endpoints. The
// distance computation is local.
package maps

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"driver-dispatch/services/lifecycle"
)

// The static map API rejects overlong paths, so the route is thinned
// to at most this many points.
const maxPathPoints = 50

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// CreateMap builds the static map URL for the traveled route, with
// markers on the first and last points.
func (c *Client) CreateMap(reference string, points []lifecycle.GeoPoint) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("no route points for %s", reference)
	}

	sampled := samplePoints(points, maxPathPoints)
	pairs := make([]string, 0, len(sampled))
	for _, p := range sampled {
		pairs = append(pairs, p.Latitude+","+p.Longitude)
	}

	q := url.Values{}
	q.Set("size", "600x400")
	q.Set("maptype", "roadmap")
	q.Set("path", "color:0x1a3e6eff|weight:4|"+strings.Join(pairs, "|"))
	q.Add("markers", "color:green|label:A|"+pairs[0])
	q.Add("markers", "color:red|label:B|"+pairs[len(pairs)-1])
	q.Set("key", c.apiKey)

	return c.baseURL + "/maps/api/staticmap?" + q.Encode(), nil
}

// Address reverse-geocodes a point. Any failure degrades to an empty
// string so the caller falls back to the order's textual address.
func (c *Client) Address(point lifecycle.GeoPoint) string {
	q := url.Values{}
	q.Set("latlng", point.Latitude+","+point.Longitude)
	q.Set("key", c.apiKey)

	resp, err := c.httpClient.Get(c.baseURL + "/maps/api/geocode/json?" + q.Encode())
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var geo geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return ""
	}
	if geo.Status != "OK" || len(geo.Results) == 0 {
		return ""
	}
	return geo.Results[0].FormattedAddress
}

// Distance sums the haversine length of the path in kilometers.
func (c *Client) Distance(points []lifecycle.GeoPoint) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += haversineKm(points[i-1], points[i])
	}
	return total
}

func samplePoints(points []lifecycle.GeoPoint, max int) []lifecycle.GeoPoint {
	if len(points) <= max {
		return points
	}
	step := float64(len(points)-1) / float64(max-1)
	sampled := make([]lifecycle.GeoPoint, 0, max)
	for i := 0; i < max; i++ {
		sampled = append(sampled, points[int(float64(i)*step+0.5)])
	}
	sampled[len(sampled)-1] = points[len(points)-1]
	return sampled
}

const earthRadiusKm = 6371.0

func haversineKm(a, b lifecycle.GeoPoint) float64 {
	lat1, err1 := strconv.ParseFloat(strings.TrimSpace(a.Latitude), 64)
	lon1, err2 := strconv.ParseFloat(strings.TrimSpace(a.Longitude), 64)
	lat2, err3 := strconv.ParseFloat(strings.TrimSpace(b.Latitude), 64)
	lon2, err4 := strconv.ParseFloat(strings.TrimSpace(b.Longitude), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return 0
	}

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
