package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string
type DeviceInfo struct {
	DeviceType string `json:"device_type"` // mobile, tablet, desktop
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	IsBot      bool   `json:"is_bot"`
	Platform   string `json:"platform"` // ios, android, web
}

// ParseUserAgent parses a User-Agent string and extracts device information
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" || userAgent == "Unknown" {
		return DeviceInfo{
			DeviceType: "unknown",
			OS:         "Unknown",
			Browser:    "Unknown",
			Platform:   "web",
		}
	}

	parser := ua.New(userAgent)

	info := DeviceInfo{
		IsBot:    parser.Bot(),
		OS:       getOS(parser),
		Browser:  getBrowser(parser),
		Platform: getPlatform(parser),
	}
	info.DeviceType = getDeviceType(parser)

	return info
}

func getDeviceType(parser *ua.UserAgent) string {
	if parser.Mobile() {
		if isTablet(parser.UA()) {
			return "tablet"
		}
		return "mobile"
	}
	return "desktop"
}

func isTablet(userAgent string) bool {
	lower := strings.ToLower(userAgent)
	for _, indicator := range []string{"ipad", "tablet", "kindle", "sm-t"} {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func getOS(parser *ua.UserAgent) string {
	osInfo := parser.OSInfo()
	if osInfo.Name == "" {
		return "Unknown"
	}
	if osInfo.Version != "" {
		return osInfo.Name + " " + osInfo.Version
	}
	return osInfo.Name
}

func getBrowser(parser *ua.UserAgent) string {
	name, _ := parser.Browser()
	if name == "" {
		return "Unknown"
	}
	return name
}

// getPlatform maps the OS to the maps deep-link family: ios, android or web
func getPlatform(parser *ua.UserAgent) string {
	raw := strings.ToLower(parser.UA())
	osName := strings.ToLower(parser.OSInfo().Name)

	switch {
	case strings.Contains(osName, "android") || strings.Contains(raw, "android"):
		return "android"
	case strings.Contains(osName, "ios") || strings.Contains(osName, "iphone") ||
		strings.Contains(raw, "iphone") || strings.Contains(raw, "ipad"):
		return "ios"
	}
	return "web"
}
