// Package script parses a narrative document into an addressable node
// table and resolves transition targets for the engine.
package script

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// EndTarget is the literal transition target that jumps to the terminal
// sentinel instead of a declared node.
const EndTarget = "END"

// TerminalText is the sentinel node's fixed body.
const TerminalText = "THE END (press ESC to exit)"

// endNode is the lazily-reachable, never-stored terminal sentinel. It lives
// outside the node table so repeated resolution never mutates the store.
var endNode = Node{ID: "__end__", Type: string(KindEnd), Text: TerminalText}

// Store is the immutable node table of one loaded script document.
type Store struct {
	nodes   map[string]*Node
	order   []string
	startID string
}

// Load parses a script document. The document root must be a mapping with a
// "nodes" sequence; each node needs a unique id; a choice node needs a
// non-empty choices list with non-empty jump targets. The start node is
// meta.start when declared, else the first node in document order.
func Load(data []byte) (*Store, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, formatErrorf("invalid YAML: %v", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, formatErrorf("document is empty")
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, formatErrorf("document root must be a mapping with meta and nodes")
	}

	var raw struct {
		Meta struct {
			Start string `yaml:"start"`
		} `yaml:"meta"`
		Nodes []yaml.Node `yaml:"nodes"`
	}
	if err := doc.Decode(&raw); err != nil {
		return nil, formatErrorf("document shape: %v", err)
	}
	if len(raw.Nodes) == 0 {
		return nil, formatErrorf("nodes is missing, empty, or not a sequence")
	}

	s := &Store{
		nodes: make(map[string]*Node, len(raw.Nodes)),
		order: make([]string, 0, len(raw.Nodes)),
	}
	for i := range raw.Nodes {
		item := &raw.Nodes[i]
		if item.Kind != yaml.MappingNode {
			return nil, formatErrorf("nodes[%d] is not a mapping", i)
		}
		n := new(Node)
		if err := item.Decode(n); err != nil {
			return nil, formatErrorf("nodes[%d]: %v", i, err)
		}
		if strings.TrimSpace(n.ID) == "" {
			return nil, formatErrorf("nodes[%d] is missing an id", i)
		}
		if _, dup := s.nodes[n.ID]; dup {
			return nil, formatErrorf("duplicate node id %q", n.ID)
		}
		switch n.Kind() {
		case KindDialogue, KindEnd:
		case KindChoice:
			if len(n.Choices) == 0 {
				return nil, formatErrorf("choice node %q must declare a non-empty choices list", n.ID)
			}
			for j, c := range n.Choices {
				if strings.TrimSpace(c.Jump) == "" {
					return nil, formatErrorf("choice node %q option %d is missing a goto/jump target", n.ID, j)
				}
			}
		default:
			return nil, formatErrorf("node %q has unsupported type %q", n.ID, n.Type)
		}
		s.nodes[n.ID] = n
		s.order = append(s.order, n.ID)
	}

	s.startID = strings.TrimSpace(raw.Meta.Start)
	if s.startID == "" {
		s.startID = s.order[0]
	}
	if _, ok := s.nodes[s.startID]; !ok {
		return nil, formatErrorf("start id %q does not exist", s.startID)
	}
	return s, nil
}

// StartID returns the id of the start node resolved at load time.
func (s *Store) StartID() string {
	return s.startID
}

// Len returns the number of declared nodes.
func (s *Store) Len() int {
	return len(s.nodes)
}

// IDs returns node ids in document order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Get looks up a declared node by id.
func (s *Store) Get(id string) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Resolve maps a transition target to its node. The literal END (any case,
// surrounding space ignored) always yields the same terminal sentinel and
// never touches the node table; an unknown id is a ReferenceError.
func (s *Store) Resolve(target string) (*Node, error) {
	if n, ok := s.nodes[target]; ok {
		return n, nil
	}
	if strings.EqualFold(strings.TrimSpace(target), EndTarget) {
		return &endNode, nil
	}
	return nil, &ReferenceError{Target: target}
}
