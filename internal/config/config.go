/*
 * Config - configuration file with global settings and manual records.
 *
 * Copyright 2026 the cloudflare-dns-sync authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package config

import (
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// fallbackRecordIP is used when the configuration sets no default_ip.
	fallbackRecordIP = "192.168.1.189"

	defaultRecordType = "A"
	defaultRecordTTL  = 1
)

// Config is the content of the configuration file.
type Config struct {
	Global        GlobalSettings `yaml:"global"`
	ManualRecords []ManualRecord `yaml:"manual_records"`
}

// GlobalSettings holds the "global" section of the configuration file.
// Pointer fields distinguish an absent key from an explicit zero value.
type GlobalSettings struct {
	DockerDiscovery *bool          `yaml:"docker_discovery"`
	DefaultIP       string         `yaml:"default_ip"`
	DockerDefaults  DockerDefaults `yaml:"docker_defaults"`
}

// DockerDefaults holds the fallback values for records discovered from
// container labels.
type DockerDefaults struct {
	Proxied *bool  `yaml:"proxied"`
	TTL     *int   `yaml:"ttl"`
	Type    string `yaml:"type"`
}

// ManualRecord is one entry of the manual_records list.
type ManualRecord struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Content string `yaml:"content"`
	Proxied *bool  `yaml:"proxied"`
	TTL     *int   `yaml:"ttl"`
}

// DockerDiscoveryEnabled reports whether container discovery is active. An
// absent key means enabled.
func (g GlobalSettings) DockerDiscoveryEnabled() bool {
	return g.DockerDiscovery == nil || *g.DockerDiscovery
}

// GetDefaultIP returns the fallback record content for containers that
// declare no address of their own.
func (g GlobalSettings) GetDefaultIP() string {
	if g.DefaultIP == "" {
		return fallbackRecordIP
	}
	return g.DefaultIP
}

// GetProxied returns the default proxied flag.
func (d DockerDefaults) GetProxied() bool {
	if d.Proxied == nil {
		return false
	}
	return *d.Proxied
}

// GetTTL returns the default TTL.
func (d DockerDefaults) GetTTL() int {
	if d.TTL == nil {
		return defaultRecordTTL
	}
	return *d.TTL
}

// GetType returns the default record type.
func (d DockerDefaults) GetType() string {
	if d.Type == "" {
		return defaultRecordType
	}
	return d.Type
}

// GetProxied returns the proxied flag of a manual record.
func (m ManualRecord) GetProxied() bool {
	if m.Proxied == nil {
		return false
	}
	return *m.Proxied
}

// GetTTL returns the TTL of a manual record.
func (m ManualRecord) GetTTL() int {
	if m.TTL == nil {
		return defaultRecordTTL
	}
	return *m.TTL
}

// GetType returns the type of a manual record.
func (m ManualRecord) GetType() string {
	if m.Type == "" {
		return defaultRecordType
	}
	return m.Type
}

// Load reads the configuration file. Any failure yields an empty
// configuration; a missing or broken file must never stop a sync pass.
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithFields(log.Fields{
			"configFile": path,
		}).Errorf("Failed to load config: %v", err)
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.WithFields(log.Fields{
			"configFile": path,
		}).Errorf("Failed to load config: %v", err)
		return Config{}
	}
	log.WithFields(log.Fields{
		"configFile":      path,
		"manualRecords":   len(cfg.ManualRecords),
		"dockerDiscovery": cfg.Global.DockerDiscoveryEnabled(),
	}).Info("Loaded config file")
	return cfg
}
