package mobile

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// DefaultUserAgents lists the user agent fragments treated as mobile.
// Entries are regular expression fragments joined into one alternation.
var DefaultUserAgents = []string{
	"palm", "blackberry", "nokia", "phone", "midp", "mobi", "symbian", "chtml", "ericsson", "minimo",
	"audiovox", "motorola", "samsung", "telit", "upg1", "windows ce", "ucweb", "astel", "plucker",
	"x320", "x240", "j2me", "sgh", "portable", "sprint", "docomo", "kddi", "softbank", "android", "mmp",
	"pdxgw", "netfront", "xiino", "vodafone", "portalmmm", "sagem", "mot-", "sie-", "ipod", `up\.b`,
	"webos", "amoi", "novarra", "cdm", "alcatel", "pocket", "iphone", "mobileexplorer", "mobile",
}

// DefaultDevices are the named devices registered on every classifier
// unless replaced, checked in this order.
var DefaultDevices = []Device{
	{Name: "iphone", Pattern: "iphone"},
	{Name: "ipad", Pattern: "ipad"},
	{Name: "android", Pattern: "android"},
}

// Device is a named user agent pattern, e.g. iphone -> "iphone".
type Device struct {
	Name    string
	Pattern string
}

type device struct {
	name    string
	pattern *regexp.Regexp
}

// Classifier tells mobile user agents apart and names known devices.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	mobile  *regexp.Regexp
	devices []device
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*classifierConfig)

type classifierConfig struct {
	userAgents []string
	devices    []Device
}

// WithUserAgents replaces DefaultUserAgents.
func WithUserAgents(fragments ...string) ClassifierOption {
	return func(c *classifierConfig) { c.userAgents = fragments }
}

// WithDevice registers a named device after the ones already registered.
// A device with the same name replaces the earlier registration.
func WithDevice(name, pattern string) ClassifierOption {
	return func(c *classifierConfig) {
		c.devices = slices.DeleteFunc(c.devices, func(d Device) bool { return d.Name == name })
		c.devices = append(c.devices, Device{Name: name, Pattern: pattern})
	}
}

// WithDevices registers devices from a name -> pattern map in name order.
func WithDevices(devices map[string]string) ClassifierOption {
	return func(c *classifierConfig) {
		for _, name := range slices.Sorted(maps.Keys(devices)) {
			WithDevice(name, devices[name])(c)
		}
	}
}

// WithoutDefaultDevices drops DefaultDevices. Combine it with WithDevice to
// register a custom set.
func WithoutDefaultDevices() ClassifierOption {
	return func(c *classifierConfig) { c.devices = nil }
}

// NewClassifier compiles the mobile alternation and the device registry.
func NewClassifier(opts ...ClassifierOption) (*Classifier, error) {
	cfg := &classifierConfig{
		userAgents: DefaultUserAgents,
		devices:    slices.Clone(DefaultDevices),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	fragments := slices.DeleteFunc(slices.Clone(cfg.userAgents), func(s string) bool { return s == "" })
	if len(fragments) == 0 {
		return nil, ErrInvalidUserAgentList
	}
	mobile, err := regexp.Compile("(?i)" + strings.Join(fragments, "|"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUserAgentList, err)
	}

	devices := make([]device, 0, len(cfg.devices))
	for _, d := range cfg.devices {
		if strings.TrimSpace(d.Name) == "" {
			return nil, ErrInvalidDeviceName
		}
		re, err := regexp.Compile("(?i)" + d.Pattern)
		if err != nil || d.Pattern == "" {
			return nil, fmt.Errorf("%w: %s: %q", ErrInvalidDevicePattern, d.Name, d.Pattern)
		}
		devices = append(devices, device{name: d.Name, pattern: re})
	}

	return &Classifier{mobile: mobile, devices: devices}, nil
}

// MustNewClassifier is like NewClassifier but panics on error.
func MustNewClassifier(opts ...ClassifierOption) *Classifier {
	c, err := NewClassifier(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// IsMobile reports whether signature matches a mobile user agent fragment.
func (c *Classifier) IsMobile(signature string) bool {
	if signature == "" {
		return false
	}
	return c.mobile.MatchString(signature)
}

// Device returns the name of the first registered device matching
// signature, or an empty string.
func (c *Classifier) Device(signature string) string {
	if signature == "" {
		return ""
	}
	for _, d := range c.devices {
		if d.pattern.MatchString(signature) {
			return d.name
		}
	}
	return ""
}

// IsDevice reports whether signature matches the named device.
func (c *Classifier) IsDevice(signature, name string) bool {
	for _, d := range c.devices {
		if d.name == name {
			return d.pattern.MatchString(signature)
		}
	}
	return false
}

// Devices returns the registered device names in match order.
func (c *Classifier) Devices() []string {
	names := make([]string, len(c.devices))
	for i, d := range c.devices {
		names[i] = d.name
	}
	return names
}

var defaultClassifier = MustNewClassifier()

// IsMobile reports whether signature belongs to a mobile device, using
// DefaultUserAgents.
func IsMobile(signature string) bool {
	return defaultClassifier.IsMobile(signature)
}

// IsMobileView reports whether either the request format or the explicit
// format parameter is the mobile format.
func IsMobileView(format, formatParam string) bool {
	return format == FormatMobile || formatParam == FormatMobile
}
