package models

import "encoding/json"

// Unit types used by the configuration service.
const (
	UnitDeviceIpint       = "DeviceIpint"
	UnitAVDetector        = "AVDetector"
	UnitAppDataDetector   = "AppDataDetector"
	UnitVisualElement     = "VisualElement"
	UnitMultimediaStorage = "MultimediaStorage"
	UnitArchiveContext    = "ArchiveContext"
)

// Property is one typed value of a configuration unit. Exactly one value_*
// field is set; nested properties describe composite settings.
type Property struct {
	ID          string     `json:"id"`
	ValueBool   *bool      `json:"value_bool,omitempty"`
	ValueString *string    `json:"value_string,omitempty"`
	ValueInt32  *int32     `json:"value_int32,omitempty"`
	ValueDouble *float64   `json:"value_double,omitempty"`
	Properties  []Property `json:"properties,omitempty"`
}

func BoolProperty(id string, v bool) Property { return Property{ID: id, ValueBool: &v} }
func StringProperty(id string, v string) Property { return Property{ID: id, ValueString: &v} }
func Int32Property(id string, v int32) Property { return Property{ID: id, ValueInt32: &v} }
func DoubleProperty(id string, v float64) Property { return Property{ID: id, ValueDouble: &v} }

// Value returns whichever typed value is set, or nil.
func (p Property) Value() any {
	switch {
	case p.ValueBool != nil:
		return *p.ValueBool
	case p.ValueString != nil:
		return *p.ValueString
	case p.ValueInt32 != nil:
		return *p.ValueInt32
	case p.ValueDouble != nil:
		return *p.ValueDouble
	}
	return nil
}

// Unit is a node of the server configuration tree.
type Unit struct {
	UID         string     `json:"uid,omitempty"`
	Type        string     `json:"type"`
	DisplayName string     `json:"display_name,omitempty"`
	Properties  []Property `json:"properties,omitempty"`
	Units       []Unit     `json:"units,omitempty"`
}

// Property finds a property by id.
func (u Unit) Property(id string) (Property, bool) {
	for _, p := range u.Properties {
		if p.ID == id {
			return p, true
		}
	}
	return Property{}, false
}

// UnitAddition adds child units below an existing parent uid.
type UnitAddition struct {
	UID   string `json:"uid"`
	Units []Unit `json:"units"`
}

type UnitRef struct {
	UID string `json:"uid"`
}

// ChangeConfigRequest is the body of ConfigurationService.ChangeConfig.
type ChangeConfigRequest struct {
	Added   []UnitAddition `json:"added,omitempty"`
	Changed []Unit         `json:"changed,omitempty"`
	Removed []UnitRef      `json:"removed,omitempty"`
}

type ChangeConfigResponse struct {
	Added  []string          `json:"added"`
	Failed []json.RawMessage `json:"failed,omitempty"`
}

// ListUnitsRequest is the body of ConfigurationService.ListUnits.
type ListUnitsRequest struct {
	UnitUIDs []string `json:"unit_uids"`
}

type ListUnitsResponse struct {
	Units           []Unit   `json:"units"`
	NotFoundObjects []string `json:"not_found_objects,omitempty"`
}
