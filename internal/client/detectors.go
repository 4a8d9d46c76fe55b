package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"vms-e2e/internal/logger"
	"vms-e2e/pkg/models"
)

// AVDetectorSpec describes a video/audio analytics unit attached to a camera.
type AVDetectorSpec struct {
	CameraAP string // hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0
	Kind     string // MotionDetection, SceneChange, QualityDegradation_v2, ...
	Name     string
	Input    string // Video (default) or Audio
	PeriodMs int32  // analysis period, 0 keeps the server default
	Disabled bool
}

// AppDataDetectorSpec describes a sub-detector fed by an AVDetector's metadata.
type AppDataDetectorSpec struct {
	ParentUID string // uid of the AVDetector
	Kind      string // MoveInZone, CrossOneLine, LongInZone, ...
	Name      string
	Disabled  bool
}

// NewAVDetectorUnit builds the unit descriptor sent in ChangeConfig.added.
// The uid is a fresh random UUID; the server replaces it with the real path.
func NewAVDetectorUnit(spec AVDetectorSpec) models.Unit {
	input := spec.Input
	if input == "" {
		input = "Video"
	}
	name := spec.Name
	if name == "" {
		name = spec.Kind
	}

	props := []models.Property{
		models.StringProperty("detector", spec.Kind),
		models.StringProperty("display_name", name),
		models.BoolProperty("enabled", !spec.Disabled),
		models.StringProperty("input", input),
		models.StringProperty("camera_ref", spec.CameraAP),
	}
	if spec.PeriodMs > 0 {
		props = append(props, models.Int32Property("period", spec.PeriodMs))
	}

	return models.Unit{
		UID:        uuid.NewString(),
		Type:       models.UnitAVDetector,
		Properties: props,
	}
}

// NewAppDataDetectorUnit builds the unit descriptor for a sub-detector.
func NewAppDataDetectorUnit(spec AppDataDetectorSpec) models.Unit {
	name := spec.Name
	if name == "" {
		name = spec.Kind
	}
	return models.Unit{
		UID:  uuid.NewString(),
		Type: models.UnitAppDataDetector,
		Properties: []models.Property{
			models.StringProperty("detector", spec.Kind),
			models.StringProperty("display_name", name),
			models.BoolProperty("enabled", !spec.Disabled),
		},
	}
}

func (c *Client) addUnit(ctx context.Context, parent string, unit models.Unit) (string, error) {
	out, err := c.ChangeConfig(ctx, models.ChangeConfigRequest{
		Added: []models.UnitAddition{{UID: parent, Units: []models.Unit{unit}}},
	})
	if err != nil {
		return "", err
	}
	if len(out.Added) == 0 {
		return "", fmt.Errorf("%s: %w: no uid returned", unit.Type, ErrRejected)
	}
	return out.Added[0], nil
}

// CreateAVDetector attaches a new AVDetector to the camera's device and returns its uid.
func (c *Client) CreateAVDetector(ctx context.Context, spec AVDetectorSpec) (string, error) {
	uid, err := c.addUnit(ctx, models.DeviceUID(spec.CameraAP), NewAVDetectorUnit(spec))
	if err != nil {
		return "", fmt.Errorf("failed to create %s detector: %w", spec.Kind, err)
	}
	logger.Success("detector created", "uid", uid, "kind", spec.Kind)
	return uid, nil
}

// CreateAppDataDetector attaches a sub-detector below an AVDetector and returns its uid.
func (c *Client) CreateAppDataDetector(ctx context.Context, spec AppDataDetectorSpec) (string, error) {
	uid, err := c.addUnit(ctx, spec.ParentUID, NewAppDataDetectorUnit(spec))
	if err != nil {
		return "", fmt.Errorf("failed to create %s sub-detector: %w", spec.Kind, err)
	}
	logger.Success("sub-detector created", "uid", uid, "kind", spec.Kind)
	return uid, nil
}

// ChangeAVDetector updates properties of an existing detector.
func (c *Client) ChangeAVDetector(ctx context.Context, uid string, props ...models.Property) error {
	_, err := c.ChangeConfig(ctx, models.ChangeConfigRequest{
		Changed: []models.Unit{{UID: uid, Type: models.UnitAVDetector, Properties: props}},
	})
	if err != nil {
		return fmt.Errorf("failed to change detector %s: %w", uid, err)
	}
	logger.Debug("detector changed", "uid", uid, "properties", len(props))
	return nil
}
