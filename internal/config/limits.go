package config

import "time"

type Limits struct {
	MaxConcurrentScrapes int             `yaml:"max_concurrent_scrapes" validate:"required,min=1,max=64"`
	MaxBodyBytes         int64           `yaml:"max_body_bytes" validate:"required,min=1024,max=104857600"`
	GenerationTimeout    time.Duration   `yaml:"generation_timeout" validate:"required,min=1s,max=1h"`
	FetchTimeout         time.Duration   `yaml:"fetch_timeout" validate:"required,min=1s,max=10m"`
	CacheTTL             time.Duration   `yaml:"cache_ttl" validate:"min=0,max=168h"`
	RateLimit            RateLimitConfig `yaml:"rate_limit" validate:"required"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"required,min=1,max=1000"`
	BurstSize         int `yaml:"burst_size" validate:"required,min=1,max=100"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxConcurrentScrapes: 4,
		MaxBodyBytes:         5 << 20,
		GenerationTimeout:    2 * time.Minute,
		FetchTimeout:         15 * time.Second,
		CacheTTL:             6 * time.Hour, // reference sites change slowly
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			BurstSize:         5,
		},
	}
}

// fillDefaults sets every unset limit to its default and keeps the rest
func (l *Limits) fillDefaults() {
	d := DefaultLimits()
	if l.MaxConcurrentScrapes == 0 {
		l.MaxConcurrentScrapes = d.MaxConcurrentScrapes
	}
	if l.MaxBodyBytes == 0 {
		l.MaxBodyBytes = d.MaxBodyBytes
	}
	if l.GenerationTimeout == 0 {
		l.GenerationTimeout = d.GenerationTimeout
	}
	if l.FetchTimeout == 0 {
		l.FetchTimeout = d.FetchTimeout
	}
	if l.CacheTTL == 0 {
		l.CacheTTL = d.CacheTTL
	}
	if l.RateLimit.RequestsPerMinute == 0 {
		l.RateLimit.RequestsPerMinute = d.RateLimit.RequestsPerMinute
	}
	if l.RateLimit.BurstSize == 0 {
		l.RateLimit.BurstSize = d.RateLimit.BurstSize
	}
}
