package models

import "strings"

// ListCamerasRequest is the body of DomainService.ListCameras.
type ListCamerasRequest struct {
	View      string `json:"view"`
	PageToken string `json:"page_token,omitempty"`
	PageSize  int    `json:"page_size,omitempty"`
}

// ListCamerasResponse represents one page of the camera listing
type ListCamerasResponse struct {
	Items         []Camera `json:"items"`
	NextPageToken string   `json:"next_page_token,omitempty"`
}

// Camera represents a single camera as returned by the domain service.
type Camera struct {
	AccessPoint     string           `json:"access_point"` // hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0
	DisplayID       string           `json:"display_id"`
	DisplayName     string           `json:"display_name"`
	IPAddress       string           `json:"ip_address"`
	Vendor          string           `json:"vendor"`
	Model           string           `json:"model"`
	IsActivated     bool             `json:"is_activated"`
	Detectors       []Detector       `json:"detectors"`
	ArchiveBindings []ArchiveBinding `json:"archive_bindings"`
}

// Detector is the domain view of an analytics unit attached to a camera.
type Detector struct {
	AccessPoint    string `json:"access_point"`
	DisplayID      string `json:"display_id"`
	DisplayName    string `json:"display_name"`
	ParentDetector string `json:"parent_detector,omitempty"`
	IsActivated    bool   `json:"is_activated"`
}

// ArchiveBinding links a camera to an archive storage.
type ArchiveBinding struct {
	Name      string `json:"name"`
	Storage   string `json:"storage"`
	IsDefault bool   `json:"is_default"`
}

// DeviceUID returns the configuration uid of the device that owns the
// camera's video source ("hosts/Server1/DeviceIpint.1").
func (c Camera) DeviceUID() string {
	return DeviceUID(c.AccessPoint)
}

// DeviceUID strips the source endpoint suffix from an access point.
func DeviceUID(accessPoint string) string {
	if i := strings.Index(accessPoint, "/SourceEndpoint"); i >= 0 {
		return accessPoint[:i]
	}
	return accessPoint
}

// ShortAP removes the leading "hosts/" that the REST media endpoints do not expect.
func ShortAP(accessPoint string) string {
	return strings.TrimPrefix(accessPoint, "hosts/")
}

// UnitUID returns the configuration uid of the detector
// ("hosts/Server1/AVDetector.1/EventSupplier" -> "hosts/Server1/AVDetector.1").
func (d Detector) UnitUID() string {
	parts := strings.SplitN(d.AccessPoint, "/", 4)
	if len(parts) < 4 {
		return d.AccessPoint
	}
	return strings.Join(parts[:3], "/")
}
