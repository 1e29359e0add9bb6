package script

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind classifies a narrative node.
type Kind string

const (
	KindDialogue Kind = "dialogue"
	KindChoice   Kind = "choice"
	KindEnd      Kind = "end"
)

// Character places one sprite on stage for the duration of a node.
type Character struct {
	Name       string `yaml:"name"`
	Pos        string `yaml:"pos"`        // left, center or right
	Expression string `yaml:"expression"` // sprite variant, e.g. "smile"
}

// Position returns the normalized stage position, defaulting to center.
func (c Character) Position() string {
	switch strings.ToLower(strings.TrimSpace(c.Pos)) {
	case "left":
		return "left"
	case "right":
		return "right"
	default:
		return "center"
	}
}

// Expr returns the sprite expression, defaulting to "normal".
func (c Character) Expr() string {
	if e := strings.TrimSpace(c.Expression); e != "" {
		return e
	}
	return "normal"
}

// Choice is one selectable option on a choice node.
type Choice struct {
	Text string
	Jump string
}

// UnmarshalYAML accepts both "jump" and the authoring alias "goto",
// normalizing to Jump.
func (c *Choice) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Text string `yaml:"text"`
		Jump string `yaml:"jump"`
		Goto string `yaml:"goto"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c.Text = raw.Text
	c.Jump = raw.Jump
	if c.Jump == "" {
		c.Jump = raw.Goto
	}
	return nil
}

// Node is one addressable unit of the narrative graph.
type Node struct {
	ID         string      `yaml:"id"`
	Type       string      `yaml:"type"` // dialogue (default), choice or end
	Background string      `yaml:"bg"`
	Speaker    string      `yaml:"speaker"`
	Text       string      `yaml:"text"`
	Next       string      `yaml:"next"` // node id or the literal "END"
	Choices    []Choice    `yaml:"choices"`
	Minigame   *int        `yaml:"minigame"`
	Stage      []Character `yaml:"ch"`
}

// Kind returns the node kind, defaulting an absent type to dialogue.
func (n *Node) Kind() Kind {
	switch strings.TrimSpace(n.Type) {
	case "", string(KindDialogue):
		return KindDialogue
	case string(KindChoice):
		return KindChoice
	case string(KindEnd):
		return KindEnd
	default:
		return Kind(n.Type)
	}
}

// IsNarrator reports whether the speaker suppresses the name panel and the
// speaker bounce: an empty speaker or the case-insensitive "narrator".
func (n *Node) IsNarrator() bool {
	spk := strings.TrimSpace(n.Speaker)
	return spk == "" || strings.EqualFold(spk, "narrator")
}

// BackgroundPath resolves the node's background key to an asset path, or ""
// when the node declares no background.
func (n *Node) BackgroundPath() string {
	return BackgroundPath(n.Background)
}
