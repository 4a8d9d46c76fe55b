package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"vms-e2e/pkg/models"
)

// Fixture is a layout described in a YAML file:
//
//	name: Base
//	width: 2
//	height: 2
//	cameras: [hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0, ...]
//	special:
//	  3: web-panel
//	web_panel_url: https://example.org
type Fixture struct {
	Name        string            `yaml:"name" validate:"required"`
	Width       int               `yaml:"width" validate:"min=1,max=8"`
	Height      int               `yaml:"height" validate:"min=1,max=8"`
	Cameras     []string          `yaml:"cameras"`
	Special     map[int]BoardType `yaml:"special"`
	WebPanelURL string            `yaml:"web_panel_url"`
	ForAlarm    bool              `yaml:"for_alarm"`
}

// LoadFixture reads and validates a layout fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFixture(data)
}

// ParseFixture decodes a YAML fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse layout fixture: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid layout fixture: %w", err)
	}
	return &f, nil
}

// Build turns the fixture into a layout ready for CreateLayout.
func (f *Fixture) Build() (models.Layout, error) {
	return Build(f.Cameras, f.Width, f.Height, f.Name, Options{
		Special:     f.Special,
		WebPanelURL: f.WebPanelURL,
		ForAlarm:    f.ForAlarm,
	})
}
