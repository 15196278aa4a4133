package common

import (
	"net"
)

func MaxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}

func GetStringwithDefault(value, defaul string) string {
	if value == "" {
		return defaul
	}
	return value
}

// GetOutboundIP returns the local address used to reach the outside, the
// address a job is bound to when server.ip is not configured.
func GetOutboundIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

func ArrayDistinct[T comparable](arr []T) []T {
	set := make(map[T]struct{}, len(arr))
	var out []T
	for _, v := range arr {
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
