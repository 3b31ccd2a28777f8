package metrics

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"resty.dev/v3"
)

var (
	apiLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "amiverse_api_latency_seconds",
		Help:    "Latency of backend API calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// LatencyMiddleware observes every backend response in the latency histogram.
func LatencyMiddleware(_ *resty.Client, response *resty.Response) error {
	reqURL, err := url.Parse(response.Request.URL)
	if err != nil {
		return err
	}

	apiLatency.WithLabelValues(
		response.Request.Method,
		Route(reqURL.Path),
		fmt.Sprintf("%d", response.StatusCode()),
	).Observe(response.Duration().Seconds())

	return nil
}

// staticSegments are path segments naming a sub-resource rather than an id.
var staticSegments = map[string]bool{
	"groups":       true,
	"unread_count": true,
}

// Route reduces a request path to its resource, dropping the version prefix
// and identifiers: /v1/posts/abc/reaction becomes /posts/reaction.
func Route(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) > 0 && segments[0] == "v1" {
		segments = segments[1:]
	}
	if len(segments) == 0 || segments[0] == "" {
		return "/"
	}

	route := "/" + segments[0]
	switch {
	case len(segments) >= 2 && staticSegments[segments[1]]:
		route += "/" + segments[1]
	case len(segments) == 3:
		route += "/" + segments[2]
	}
	return route
}
