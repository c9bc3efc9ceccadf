package config

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	extensionPattern = regexp.MustCompile(`^\.?[A-Za-z0-9]+$`)
	baseURLPattern   = regexp.MustCompile(`^https?://[^\s/]+`)
)

// Validate checks the configuration after defaults were applied.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Library),
		validation.Field(&c.Output),
		validation.Field(&c.Site),
		validation.Field(&c.Build),
		validation.Field(&c.Watch),
	)
}

func (l LibraryConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Root, validation.Required),
		validation.Field(&l.MetadataFile, validation.Required),
		validation.Field(&l.NavigationFile, validation.Required),
	)
}

func (o OutputConfig) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Directory, validation.Required),
	)
}

func (s SiteConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.BaseURL, validation.Match(baseURLPattern).Error("must be an http(s) URL")),
	)
}

func (b BuildConfig) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Workers, validation.Min(1), validation.Max(256)),
		validation.Field(&b.PageExtension, validation.Required, validation.Match(extensionPattern)),
		validation.Field(&b.MinContentLength, validation.Min(0)),
		validation.Field(&b.RequiredSections, validation.Each(validation.Required)),
		validation.Field(&b.ResourceExtensions, validation.Each(validation.Required, validation.Match(extensionPattern))),
	)
}

func (w WatchConfig) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Debounce, validation.Min(10*time.Millisecond)),
		validation.Field(&w.Interval, validation.Min(time.Second)),
	)
}
