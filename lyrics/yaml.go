package lyrics

import (
	"gopkg.in/yaml.v3"
)

// Hand written song descriptions may use plain strings where only text is
// needed: a line, a content item, a title or an author. Scalars are taken
// literally, markup in them is not interpreted.

func (l *Line) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*l = Line{Content: []ContentItem{Text(node.Value)}}
		return nil
	}
	type plain Line
	return node.Decode((*plain)(l))
}

func (c *ContentItem) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = Text(node.Value)
		return nil
	}
	type plain ContentItem
	return node.Decode((*plain)(c))
}

func (t *Title) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*t = Title{Value: node.Value}
		return nil
	}
	type plain Title
	return node.Decode((*plain)(t))
}

func (a *Author) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*a = Author{Value: node.Value}
		return nil
	}
	type plain Author
	return node.Decode((*plain)(a))
}
