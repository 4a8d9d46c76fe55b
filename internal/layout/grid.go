package layout

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"vms-e2e/pkg/models"
)

// BoardType tags a cell that shows a board instead of plain video.
type BoardType string

const (
	WebPanel        BoardType = "web-panel"
	EventBoard      BoardType = "event-board"
	StatisticsPanel BoardType = "statistics-panel"
)

var (
	ErrNotEnoughCameras = errors.New("not enough cameras for layout")
	ErrUnknownBoard     = errors.New("unknown board type")
)

// Neighbours holds the positions around a cell, -1 on the border.
type Neighbours struct {
	Left, Right, Top, Bottom int
}

// NeighboursOf computes the 4-neighbourhood of cell k in a row-major grid.
// A cell outside the grid, or an empty grid, has no neighbours.
func NeighboursOf(k, width, height int) Neighbours {
	n := Neighbours{Left: -1, Right: -1, Top: -1, Bottom: -1}
	if width < 1 || height < 1 || k < 0 || k >= width*height {
		return n
	}
	i, j := k/width, k%width
	if j > 0 {
		n.Left = k - 1
	}
	if j < width-1 {
		n.Right = k + 1
	}
	if i > 0 {
		n.Top = k - width
	}
	if i < height-1 {
		n.Bottom = k + width
	}
	return n
}

// Options tune Build. Zero value gives a plain video grid.
type Options struct {
	// Special maps a cell position to the board it shows.
	Special map[int]BoardType `validate:"dive,oneof=web-panel event-board statistics-panel"`
	// WebPanelURL is shown by web-panel cells.
	WebPanelURL string `validate:"omitempty,url"`
	ForAlarm    bool
}

var validate = validator.New()

// DefaultVideoParameters are embedded in every cell.
func DefaultVideoParameters() *models.VideoParameters {
	return &models.VideoParameters{
		VideoRenderingMode: "VIDEO_RENDERING_MODE_DEFAULT",
		DefaultZoomLevel:   1,
		ScaleMode:          "SCALE_MODE_FIT",
		ShowTrackers:       true,
		AudioVolume:        50,
	}
}

// Build lays cameras out row by row on a width x height grid: camera k goes
// into cell k. Cells tagged in opts.Special get board settings instead, and
// the camera at their position is skipped.
func Build(cameras []string, width, height int, name string, opts Options) (models.Layout, error) {
	if width < 1 || height < 1 {
		return models.Layout{}, fmt.Errorf("invalid grid %dx%d", width, height)
	}
	if err := validate.Struct(opts); err != nil {
		return models.Layout{}, fmt.Errorf("invalid layout options: %w", err)
	}

	total := width * height
	for k := total - 1; k >= 0; k-- {
		if _, special := opts.Special[k]; special {
			continue
		}
		if k >= len(cameras) {
			return models.Layout{}, fmt.Errorf("%w: cell %d needs camera %d, got %d", ErrNotEnoughCameras, k, k+1, len(cameras))
		}
		break
	}

	cells := make(map[string]models.Cell, total)
	for i := 0; i < height; i++ {
		for j := 0; j < width; j++ {
			k := i*width + j
			n := NeighboursOf(k, width, height)
			cell := models.Cell{
				Position:              k,
				LeftSiblingPosition:   n.Left,
				RightSiblingPosition:  n.Right,
				TopSiblingPosition:    n.Top,
				BottomSiblingPosition: n.Bottom,
				VideoParameters:       DefaultVideoParameters(),
			}

			if board, ok := opts.Special[k]; ok {
				if err := attachBoard(&cell, board, cameras, opts); err != nil {
					return models.Layout{}, err
				}
			} else {
				cell.CameraRef = cameras[k]
			}
			cells[strconv.Itoa(k)] = cell
		}
	}

	return models.Layout{
		ID:            uuid.NewString(),
		DisplayName:   name,
		IsForAlarm:    opts.ForAlarm,
		IsUserDefined: true,
		MapViewMode:   "MAP_VIEW_MODE_LAYOUT_ONLY",
		Cells:         cells,
	}, nil
}

func attachBoard(cell *models.Cell, board BoardType, cameras []string, opts Options) error {
	switch board {
	case WebPanel:
		cell.WebPanel = &models.WebPanelParameters{URL: opts.WebPanelURL, RefreshPeriodSec: 60}
	case EventBoard:
		cell.EventBoard = &models.EventBoardParameters{
			Cameras:         cameras,
			ShowAlerts:      true,
			ShowDetections:  true,
			MaxEventsOnPage: 50,
		}
	case StatisticsPanel:
		cell.StatisticsPanel = &models.StatisticsPanelParameters{
			Cameras:   cameras,
			PeriodSec: 3600,
			ChartType: "CHART_TYPE_BAR",
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBoard, board)
	}
	return nil
}
