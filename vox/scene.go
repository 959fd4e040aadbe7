package vox

// NodeType tags the variant held by a Node.
type NodeType uint8

const (
	NodeTransform NodeType = iota + 1
	NodeGroup
	NodeShape
)

func (t NodeType) String() string {
	switch t {
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	case NodeShape:
		return "shape"
	default:
		return "unknown"
	}
}

// Dict is a MagicaVoxel string dictionary (node and layer attributes).
type Dict map[string]string

// Node is one scene graph node. Which fields are meaningful depends on Type:
// transforms use ChildID, LayerID and Frames; groups use ChildrenIDs; shapes
// use Models.
type Node struct {
	ID         int
	Type       NodeType
	Attributes Dict

	ChildID int
	LayerID int
	Frames  []Dict

	ChildrenIDs []int

	Models []ShapeModel
}

// ShapeModel references a model from a shape node.
type ShapeModel struct {
	ModelID    int
	Attributes Dict
}

// Layer is a LAYR chunk.
type Layer struct {
	ID         int
	Attributes Dict
}

func (l Layer) Name() string { return l.Attributes["_name"] }

func (l Layer) Hidden() bool { return l.Attributes["_hidden"] == "1" }

// HasScene reports whether the file carries a scene graph at all. Files
// written before scene graphs existed only list models.
func (f *File) HasScene() bool { return len(f.Nodes) > 0 }

// ModelsInLayer returns the model ids placed on layer, in scene order.
//
// Only the layout MagicaVoxel writes is understood: the root transform (node
// 0) holds a single group, whose children are transforms each wrapping one
// shape. A child transform belongs to the layer named by its layer id. Any
// other arrangement resolves to nothing. A shape listing several models
// contributes all of them in listed order.
func (f *File) ModelsInLayer(layer int) []int {
	root, ok := f.Nodes[0]
	if !ok || root.Type != NodeTransform {
		return nil
	}
	group, ok := f.Nodes[root.ChildID]
	if !ok || group.Type != NodeGroup {
		return nil
	}
	var ids []int
	for _, childID := range group.ChildrenIDs {
		child, ok := f.Nodes[childID]
		if !ok {
			continue
		}
		switch child.Type {
		case NodeTransform:
			if child.LayerID != layer {
				continue
			}
			shape, ok := f.Nodes[child.ChildID]
			if !ok || shape.Type != NodeShape {
				continue
			}
			for _, m := range shape.Models {
				ids = append(ids, m.ModelID)
			}
		default:
			// nested groups and bare shapes are not part of the layer layout
		}
	}
	return ids
}
