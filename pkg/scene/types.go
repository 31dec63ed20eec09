// Package scene defines the scene-graph data model: the structured document
// describing what to render (nodes, connections, layers/zones), produced by
// the analyzer and consumed by the layout and rendering packages.
package scene

import (
	"slices"

	"github.com/mhaertel/inkboard/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Type is the closed scene-type tag that selects a layout+renderer strategy.
type Type string

// Scene types.
const (
	TypeArchitecture Type = "architecture"
	TypeFlowchart    Type = "flowchart"
	TypeComparison   Type = "comparison"
	TypeProcess      Type = "process"
	TypePipeline     Type = "pipeline"
	TypeConceptMap   Type = "concept_map"
	TypeInfographic  Type = "infographic"
	TypeTimeline     Type = "timeline"
	TypeMultiAgent   Type = "multi_agent"
	TypeRAGPipeline  Type = "rag_pipeline"
)

// Types lists all valid scene types in a stable order.
var Types = []Type{
	TypeArchitecture,
	TypeFlowchart,
	TypeComparison,
	TypeProcess,
	TypePipeline,
	TypeConceptMap,
	TypeInfographic,
	TypeTimeline,
	TypeMultiAgent,
	TypeRAGPipeline,
}

// Valid reports whether t is a known scene type.
func (t Type) Valid() bool {
	return slices.Contains(Types, t)
}

// Shape is a node's visual shape.
type Shape string

// Node shapes.
const (
	ShapeRoundedRect   Shape = "rounded_rect"
	ShapeRectangle     Shape = "rectangle"
	ShapeCircle        Shape = "circle"
	ShapeDiamond       Shape = "diamond"
	ShapeCylinder      Shape = "cylinder"
	ShapeHexagon       Shape = "hexagon"
	ShapeCloud         Shape = "cloud"
	ShapeParallelogram Shape = "parallelogram"
	ShapePerson        Shape = "person"
	// ShapeDashedRect is the whiteboard variant's hand-drawn card: a
	// rounded rect with a dashed border. Renderers substitute it for
	// rounded_rect; producers may also request it directly.
	ShapeDashedRect Shape = "dashed_rect"
)

// ConnStyle is a connection's drawing style.
type ConnStyle string

// Connection styles.
const (
	StyleArrow         ConnStyle = "arrow"
	StyleDashedArrow   ConnStyle = "dashed_arrow"
	StyleBidirectional ConnStyle = "bidirectional"
	StyleLine          ConnStyle = "line"
	StyleDashedLine    ConnStyle = "dashed_line"
	StyleNumbered      ConnStyle = "numbered"
	StyleCurvedArrow   ConnStyle = "curved_arrow"
	StyleCurvedDashed  ConnStyle = "curved_dashed"
)

// Size hints for nodes. Advisory only; layouts may ignore them.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// =============================================================================
// Scene - Canonical Serialization Format
// =============================================================================

// Scene is the complete structured representation of one infographic.
//
// The format is the contract between the LLM analyzer (which produces it),
// the HTTP API and stores (which persist it), and the rendering engine
// (which consumes it read-only). It is designed for round-trip fidelity.
type Scene struct {
	Title       string       `json:"title" bson:"title"`
	Subtitle    string       `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Type        Type         `json:"type" bson:"type"`
	Nodes       []Node       `json:"nodes" bson:"nodes"`
	Connections []Connection `json:"connections,omitempty" bson:"connections,omitempty"`
	Layers      []Layer      `json:"layers,omitempty" bson:"layers,omitempty"`
	Zones       []Zone       `json:"zones,omitempty" bson:"zones,omitempty"`
	ColorScheme string       `json:"color_scheme,omitempty" bson:"color_scheme,omitempty"`
	Footer      string       `json:"footer,omitempty" bson:"footer,omitempty"`
	Meta        map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Node is one box/card/shape in the scene.
type Node struct {
	ID          string `json:"id" bson:"id"`
	Label       string `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Icon        string `json:"icon,omitempty" bson:"icon,omitempty"`   // Symbolic icon name, empty for none
	Shape       Shape  `json:"shape,omitempty" bson:"shape,omitempty"` // Defaults to rounded_rect
	Color       string `json:"color,omitempty" bson:"color,omitempty"` // Hex override, else theme-derived
	Layer       int    `json:"layer,omitempty" bson:"layer,omitempty"` // Layer index (0=top)
	Group       string `json:"group,omitempty" bson:"group,omitempty"`
	Zone        string `json:"zone,omitempty" bson:"zone,omitempty"`
	Size        string `json:"size,omitempty" bson:"size,omitempty"`           // small/medium/large hint
	IsCenter    bool   `json:"is_center,omitempty" bson:"is_center,omitempty"` // Radial layouts: the hub node
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// EffectiveShape returns the node's shape, defaulting to rounded_rect.
func (n *Node) EffectiveShape() Shape {
	if n.Shape == "" {
		return ShapeRoundedRect
	}
	return n.Shape
}

// GroupKey returns the authoritative grouping key: zone wins over group.
func (n *Node) GroupKey() string {
	if n.Zone != "" {
		return n.Zone
	}
	return n.Group
}

// Connection is a directed edge between two nodes.
type Connection struct {
	From  string    `json:"from" bson:"from"`
	To    string    `json:"to" bson:"to"`
	Label string    `json:"label,omitempty" bson:"label,omitempty"`
	Style ConnStyle `json:"style,omitempty" bson:"style,omitempty"` // Defaults to arrow
	Color string    `json:"color,omitempty" bson:"color,omitempty"` // Hex override, else batch color
}

// EffectiveStyle returns the connection's style, defaulting to arrow.
func (c *Connection) EffectiveStyle() ConnStyle {
	if c.Style == "" {
		return StyleArrow
	}
	return c.Style
}

// Layer is a named, ordered group of nodes rendered as a stacked band.
type Layer struct {
	Name  string   `json:"name" bson:"name"`
	Color string   `json:"color,omitempty" bson:"color,omitempty"`
	Nodes []string `json:"nodes" bson:"nodes"`
}

// Zone is a named, unordered group of nodes rendered as a titled region.
type Zone struct {
	Name  string   `json:"name" bson:"name"`
	Color string   `json:"color,omitempty" bson:"color,omitempty"`
	Nodes []string `json:"nodes" bson:"nodes"`
}

// =============================================================================
// Accessors
// =============================================================================

// NodeByID returns the node with the given id, or nil if absent.
func (s *Scene) NodeByID(id string) *Node {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}

// NodeIDs returns the node ids in scene order.
func (s *Scene) NodeIDs() []string {
	ids := make([]string, len(s.Nodes))
	for i := range s.Nodes {
		ids[i] = s.Nodes[i].ID
	}
	return ids
}

// CenterID returns the id of the node to place at the center of radial
// layouts: the first node flagged is_center, else the first node.
// Returns "" for an empty scene. Extra is_center flags are ignored.
func (s *Scene) CenterID() string {
	for i := range s.Nodes {
		if s.Nodes[i].IsCenter {
			return s.Nodes[i].ID
		}
	}
	if len(s.Nodes) > 0 {
		return s.Nodes[0].ID
	}
	return ""
}

// OuterIDs returns all node ids except centerID, in scene order.
func (s *Scene) OuterIDs(centerID string) []string {
	out := make([]string, 0, len(s.Nodes))
	for i := range s.Nodes {
		if s.Nodes[i].ID != centerID {
			out = append(out, s.Nodes[i].ID)
		}
	}
	return out
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the structural integrity of a scene before it enters the
// pipeline. The rendering core itself never validates: it only skips
// dangling references and guards degenerate geometry.
func (s *Scene) Validate() error {
	if s.Title == "" {
		return errors.New(errors.ErrCodeInvalidScene, "scene title cannot be empty")
	}
	if !s.Type.Valid() {
		return errors.New(errors.ErrCodeInvalidScene, "unknown scene type: %q", s.Type)
	}
	if len(s.Nodes) == 0 {
		return errors.New(errors.ErrCodeInvalidScene, "scene has no nodes")
	}
	if len(s.Layers) > 0 && len(s.Zones) > 0 {
		return errors.New(errors.ErrCodeInvalidScene, "scene uses both layers and zones; at most one grouping scheme is allowed")
	}

	seen := make(map[string]bool, len(s.Nodes))
	for i := range s.Nodes {
		n := &s.Nodes[i]
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return err
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidScene, "duplicate node id: %q", n.ID)
		}
		seen[n.ID] = true
		if err := errors.ValidateHexColor(n.Color); err != nil {
			return err
		}
	}

	return nil
}
