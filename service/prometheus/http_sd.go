package prometheus

import (
	"fmt"
)

type Object struct {
	Targets []string          `json:"targets"`
	Labels  map[string]string `json:"labels"`
}

// GetObjects returns the http_sd document that points prometheus at the
// metrics endpoint of this instance.
func GetObjects(ip string, port int, https bool) []Object {
	scheme := "http"
	if https {
		scheme = "https"
	}
	return []Object{{
		Targets: []string{fmt.Sprintf("%s:%d", ip, port)},
		Labels: map[string]string{
			"job":              namespace,
			"__scheme__":       scheme,
			"__metrics_path__": "/metrics",
		},
	}}
}
