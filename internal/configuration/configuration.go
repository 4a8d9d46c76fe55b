// Package configuration keeps a snapshot of the server's cameras, archives
// and detector units. The snapshot only changes on Refresh; the detector
// helpers refresh after every successful change so tests read their own writes.
package configuration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vms-e2e/internal/client"
	"vms-e2e/internal/logger"
	"vms-e2e/pkg/models"
)

// Kind names one part of the snapshot.
type Kind string

const (
	Cameras   Kind = "cameras"
	Archives  Kind = "archives"
	Detectors Kind = "detectors"
)

// AllKinds is what Refresh loads when called without arguments.
var AllKinds = []Kind{Cameras, Archives, Detectors}

// Source is the part of the client the snapshot is built from.
type Source interface {
	ListCameras(ctx context.Context) ([]models.Camera, error)
	ListArchives(ctx context.Context) ([]models.Archive, error)
	ListUnits(ctx context.Context, uids ...string) ([]models.Unit, error)
	CreateAVDetector(ctx context.Context, spec client.AVDetectorSpec) (string, error)
	CreateAppDataDetector(ctx context.Context, spec client.AppDataDetectorSpec) (string, error)
	ChangeAVDetector(ctx context.Context, uid string, props ...models.Property) error
	RemoveUnits(ctx context.Context, uids ...string) error
}

var _ Source = (*client.Client)(nil)

type Configuration struct {
	src Source

	mu          sync.RWMutex
	cameras     []models.Camera
	archives    []models.Archive
	detectors   []models.Unit
	refreshedAt time.Time
}

func New(src Source) *Configuration {
	return &Configuration{src: src}
}

// Refresh reloads the given kinds, or everything when none are given.
// Detectors are looked up from the camera list, so refreshing detectors alone
// uses the cameras of the current snapshot, loading them first when it has none.
func (c *Configuration) Refresh(ctx context.Context, kinds ...Kind) error {
	if len(kinds) == 0 {
		kinds = AllKinds
	}
	want := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}

	c.mu.RLock()
	cameras := c.cameras
	c.mu.RUnlock()
	if want[Detectors] && len(cameras) == 0 {
		want[Cameras] = true
	}

	var (
		archives  []models.Archive
		detectors []models.Unit
		err       error
	)
	if want[Cameras] {
		if cameras, err = c.src.ListCameras(ctx); err != nil {
			return fmt.Errorf("refresh cameras: %w", err)
		}
	}
	if want[Archives] {
		if archives, err = c.src.ListArchives(ctx); err != nil {
			return fmt.Errorf("refresh archives: %w", err)
		}
	}
	if want[Detectors] {
		if detectors, err = c.src.ListUnits(ctx, detectorUIDs(cameras)...); err != nil {
			return fmt.Errorf("refresh detectors: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if want[Cameras] {
		c.cameras = cameras
	}
	if want[Archives] {
		c.archives = archives
	}
	if want[Detectors] {
		c.detectors = detectors
	}
	c.refreshedAt = time.Now()

	logger.Debug("configuration refreshed", "kinds", kinds, "cameras", len(c.cameras), "detectors", len(c.detectors))
	return nil
}

func detectorUIDs(cameras []models.Camera) []string {
	seen := make(map[string]bool)
	var uids []string
	for _, cam := range cameras {
		for _, d := range cam.Detectors {
			uid := d.UnitUID()
			if uid == "" || seen[uid] {
				continue
			}
			seen[uid] = true
			uids = append(uids, uid)
		}
	}
	return uids
}

func (c *Configuration) Cameras() []models.Camera {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Camera(nil), c.cameras...)
}

func (c *Configuration) Archives() []models.Archive {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Archive(nil), c.archives...)
}

func (c *Configuration) Detectors() []models.Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Unit(nil), c.detectors...)
}

// Camera finds a camera by access point or display id.
func (c *Configuration) Camera(ref string) (models.Camera, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cam := range c.cameras {
		if cam.AccessPoint == ref || cam.DisplayID == ref {
			return cam, true
		}
	}
	return models.Camera{}, false
}

// Detector finds a detector unit by uid.
func (c *Configuration) Detector(uid string) (models.Unit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, u := range c.detectors {
		if u.UID == uid {
			return u, true
		}
	}
	return models.Unit{}, false
}

// RefreshedAt is the time of the last successful Refresh, zero before it.
func (c *Configuration) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}

// CreateAVDetector adds a detector and reloads cameras and detectors.
func (c *Configuration) CreateAVDetector(ctx context.Context, spec client.AVDetectorSpec) (string, error) {
	uid, err := c.src.CreateAVDetector(ctx, spec)
	if err != nil {
		return "", err
	}
	return uid, c.Refresh(ctx, Cameras, Detectors)
}

// CreateAppDataDetector adds a child detector and reloads cameras and detectors.
func (c *Configuration) CreateAppDataDetector(ctx context.Context, spec client.AppDataDetectorSpec) (string, error) {
	uid, err := c.src.CreateAppDataDetector(ctx, spec)
	if err != nil {
		return "", err
	}
	return uid, c.Refresh(ctx, Cameras, Detectors)
}

// ChangeDetector updates detector properties and reloads detectors.
func (c *Configuration) ChangeDetector(ctx context.Context, uid string, props ...models.Property) error {
	if err := c.src.ChangeAVDetector(ctx, uid, props...); err != nil {
		return err
	}
	return c.Refresh(ctx, Detectors)
}

// RemoveDetectors deletes detector units and reloads cameras and detectors.
func (c *Configuration) RemoveDetectors(ctx context.Context, uids ...string) error {
	if err := c.src.RemoveUnits(ctx, uids...); err != nil {
		return err
	}
	return c.Refresh(ctx, Cameras, Detectors)
}
