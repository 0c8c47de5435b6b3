package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetRealIP extracts the client IP address from the request.
//
// Priority order:
// 1. X-Real-IP header (set by reverse proxies like Nginx)
// 2. X-Forwarded-For header, first public address
// 3. Gin's ClientIP() for direct connections
func GetRealIP(c *gin.Context) string {
	realIP := strings.TrimSpace(c.Request.Header.Get("X-Real-IP"))
	if realIP != "" && isValidIP(realIP) && !isPrivateIP(net.ParseIP(realIP)) {
		return realIP
	}

	// Format: X-Forwarded-For: client, proxy1, proxy2
	forwarded := c.Request.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		for _, ipStr := range ips {
			clientIP := strings.TrimSpace(ipStr)
			if isValidIP(clientIP) && !isPrivateIP(net.ParseIP(clientIP)) && !IsLocalhost(clientIP) {
				return clientIP
			}
		}
		// All private, use the first valid one
		if first := strings.TrimSpace(ips[0]); isValidIP(first) {
			return first
		}
	}

	return c.ClientIP()
}

func isValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// GetUserAgent extracts the User-Agent header from the request
func GetUserAgent(c *gin.Context) string {
	ua := c.Request.UserAgent()
	if ua == "" {
		return "Unknown"
	}
	return ua
}

// IsLocalhost checks if an IP address is localhost
func IsLocalhost(ip string) bool {
	return ip == "127.0.0.1" || ip == "::1" || ip == "localhost"
}

var privateRanges = func() []*net.IPNet {
	var nets []*net.IPNet
	for _, cidr := range []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"} {
		_, subnet, _ := net.ParseCIDR(cidr)
		nets = append(nets, subnet)
	}
	return nets
}()

func isPrivateIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, subnet := range privateRanges {
		if subnet.Contains(ip) {
			return true
		}
	}
	return false
}
