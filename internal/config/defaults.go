package config

import (
	"runtime"
	"time"

	"git.home.luguber.info/inful/knowledgelib/internal/content"
	"git.home.luguber.info/inful/knowledgelib/internal/navigation"
	"git.home.luguber.info/inful/knowledgelib/internal/resources"
	"git.home.luguber.info/inful/knowledgelib/internal/validation"
)

const (
	DefaultMetadataFile  = "library_metadata.json"
	DefaultOutputDir     = "site"
	DefaultStaticDir     = "static"
	DefaultWatchDebounce = 500 * time.Millisecond
)

func applyDefaults(cfg *Config) {
	if cfg.Library.Root == "" {
		cfg.Library.Root = "."
	}
	if cfg.Library.MetadataFile == "" {
		cfg.Library.MetadataFile = DefaultMetadataFile
	}
	if cfg.Library.NavigationFile == "" {
		cfg.Library.NavigationFile = navigation.FileName
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if cfg.Output.StaticDir == "" {
		cfg.Output.StaticDir = DefaultStaticDir
	}

	if cfg.Build.Workers <= 0 {
		cfg.Build.Workers = runtime.NumCPU()
	}
	if cfg.Build.PageExtension == "" {
		cfg.Build.PageExtension = content.DefaultPageExtension
	}
	if cfg.Build.MinContentLength <= 0 {
		cfg.Build.MinContentLength = validation.DefaultMinContentLength
	}
	if len(cfg.Build.RequiredSections) == 0 {
		cfg.Build.RequiredSections = append([]string(nil), validation.DefaultRequiredSections...)
	}
	if len(cfg.Build.ResourceExtensions) == 0 {
		cfg.Build.ResourceExtensions = append([]string(nil), resources.DefaultExtensions...)
	}

	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}
