// Package mapwire implements the map and panel surfaces by emitting JSON
// command frames to connected browsers. The real drawing happens client-side;
// this adapter is the single producer of those commands.
package mapwire

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/yatramap/yatramap/internal/core/domain"
	"github.com/yatramap/yatramap/internal/core/ports"
	"github.com/yatramap/yatramap/internal/pkg/metrics"
)

// Command is one wire frame. Fields are op-dependent and omitted when unused.
type Command struct {
	Op       string                   `json:"op"`
	LayerID  string                   `json:"layer_id,omitempty"`
	At       *domain.Waypoint         `json:"at,omitempty"`
	Points   []domain.Waypoint        `json:"points,omitempty"`
	Dashed   bool                     `json:"dashed,omitempty"`
	Icon     string                   `json:"icon,omitempty"`
	Popup    string                   `json:"popup,omitempty"`
	Bounds   *domain.Bounds           `json:"bounds,omitempty"`
	Pad      float64                  `json:"pad,omitempty"`
	Zoom     int                      `json:"zoom,omitempty"`
	Days     []domain.Day             `json:"days,omitempty"`
	Steps    []domain.InstructionStep `json:"steps,omitempty"`
	Items    []string                 `json:"items,omitempty"`
	Message  string                   `json:"message,omitempty"`
	Loading  bool                     `json:"loading,omitempty"`
}

// Emitter implements ports.MapCanvas and ports.PanelRenderer over a
// RenderPublisher. Emission is fire-and-forget: a broken broker must never
// fail a render cycle.
type Emitter struct {
	pub ports.RenderPublisher
	log *slog.Logger
}

// NewEmitter creates an Emitter.
func NewEmitter(pub ports.RenderPublisher, log *slog.Logger) *Emitter {
	if log == nil {
		log = slog.Default()
	}
	return &Emitter{pub: pub, log: log}
}

func (e *Emitter) emit(cmd Command) {
	metrics.RenderCommands.WithLabelValues(cmd.Op).Inc()
	frame, err := json.Marshal(cmd)
	if err != nil {
		e.log.Error("marshal render command", "op", cmd.Op, "error", err)
		return
	}
	if err := e.pub.PublishRenderCommand(context.Background(), frame); err != nil {
		e.log.Warn("publish render command", "op", cmd.Op, "error", err)
	}
}

// --- ports.MapCanvas ---

func (e *Emitter) AddMarker(id string, at domain.Waypoint, icon, popupHTML string) {
	e.emit(Command{Op: "add_marker", LayerID: id, At: &at, Icon: icon, Popup: popupHTML})
}

func (e *Emitter) AddPolyline(id string, points []domain.Waypoint, dashed bool) {
	e.emit(Command{Op: "add_polyline", LayerID: id, Points: points, Dashed: dashed})
}

func (e *Emitter) RemoveLayer(id string) {
	e.emit(Command{Op: "remove_layer", LayerID: id})
}

func (e *Emitter) FitBounds(b domain.Bounds, pad float64) {
	e.emit(Command{Op: "fit_bounds", Bounds: &b, Pad: pad})
}

func (e *Emitter) SetView(center domain.Waypoint, zoom int) {
	e.emit(Command{Op: "set_view", At: &center, Zoom: zoom})
}

func (e *Emitter) OpenPopup(markerID string) {
	e.emit(Command{Op: "open_popup", LayerID: markerID})
}

// --- ports.PanelRenderer ---

func (e *Emitter) ShowItinerary(days []domain.Day) {
	e.emit(Command{Op: "show_itinerary", Days: days})
}

// ShowInstructions always sends the frame: an empty step list tells the
// client to show its "no directions available" placeholder.
func (e *Emitter) ShowInstructions(steps []domain.InstructionStep) {
	e.emit(Command{Op: "show_instructions", Steps: steps})
}

func (e *Emitter) ShowFood(items []string) {
	e.emit(Command{Op: "show_food", Items: items})
}

func (e *Emitter) ShowNotice(message string) {
	e.emit(Command{Op: "show_notice", Message: message})
}

func (e *Emitter) SetLoading(active bool) {
	e.emit(Command{Op: "set_loading", Loading: active})
}
