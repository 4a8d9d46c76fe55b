package models

// Layout is a named grid of cells shown by the web client.
// Cells are keyed by stringified position.
type Layout struct {
	ID            string          `json:"id"`
	DisplayName   string          `json:"display_name"`
	IsForAlarm    bool            `json:"is_for_alarm"`
	IsUserDefined bool            `json:"is_user_defined"`
	MapViewMode   string          `json:"map_view_mode"`
	Cells         map[string]Cell `json:"cells"`
}

// Cell neighbour positions are -1 on the grid border.
type Cell struct {
	Position              int                        `json:"position"`
	Dimensions            Dimensions                 `json:"dimensions"`
	LeftSiblingPosition   int                        `json:"left_sibling_position"`
	RightSiblingPosition  int                        `json:"right_sibling_position"`
	TopSiblingPosition    int                        `json:"top_sibling_position"`
	BottomSiblingPosition int                        `json:"bottom_sibling_position"`
	CameraRef             string                     `json:"camera_ref,omitempty"`
	VideoParameters       *VideoParameters           `json:"video_parameters,omitempty"`
	WebPanel              *WebPanelParameters        `json:"web_panel_parameters,omitempty"`
	EventBoard            *EventBoardParameters      `json:"event_board_parameters,omitempty"`
	StatisticsPanel       *StatisticsPanelParameters `json:"statistics_panel_parameters,omitempty"`
}

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type VideoParameters struct {
	VideoRenderingMode string  `json:"video_rendering_mode"`
	DefaultZoomLevel   float64 `json:"default_zoom_level"`
	ScaleMode          string  `json:"scale_mode"`
	ShowTrackers       bool    `json:"show_trackers"`
	AutoZoom           bool    `json:"auto_zoom"`
	IsSoundOn          bool    `json:"is_sound_on"`
	AudioVolume        int     `json:"audio_volume"`
}

type WebPanelParameters struct {
	URL              string `json:"url"`
	RefreshPeriodSec int    `json:"refresh_period_sec"`
}

type EventBoardParameters struct {
	Cameras         []string `json:"cameras"`
	ShowAlerts      bool     `json:"show_alerts"`
	ShowDetections  bool     `json:"show_detections"`
	MaxEventsOnPage int      `json:"max_events_on_page"`
}

type StatisticsPanelParameters struct {
	Cameras   []string `json:"cameras"`
	PeriodSec int      `json:"period_sec"`
	ChartType string   `json:"chart_type"`
}

// LayoutUpdateRequest is the body of LayoutManager.Update.
type LayoutUpdateRequest struct {
	Created []Layout `json:"created,omitempty"`
	Changed []Layout `json:"changed,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// ListLayoutsResponse wraps GET /v1/layouts
type ListLayoutsResponse struct {
	Items   []Layout `json:"items"`
	Current string   `json:"current,omitempty"`
}
