package utils

import (
	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string
type DeviceInfo struct {
	DeviceType string `json:"device_type"` // mobile, desktop, bot
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	Raw        string `json:"raw"`
}

// ParseUserAgent parses a User-Agent string and extracts device information
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{DeviceType: "unknown", OS: "Unknown", Browser: "Unknown"}
	}

	parser := ua.New(userAgent)
	browser, _ := parser.Browser()

	info := DeviceInfo{
		DeviceType: "desktop",
		OS:         parser.OS(),
		Browser:    browser,
		Raw:        userAgent,
	}
	if parser.Bot() {
		info.DeviceType = "bot"
	} else if parser.Mobile() {
		info.DeviceType = "mobile"
	}
	return info
}
