package main

import (
	"fmt"
	"os"
	"strings"

	"novelarcade/pkg/script"
)

// Known registry ids in the shipped player. The engine checks lazily at
// transition time; this tool exists so authors hear about problems first.
var knownMinigames = map[int]bool{1: true, 2: true, 3: true}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <script.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &ScriptValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	for _, w := range validator.warnings {
		fmt.Println("warning:", w)
	}
	fmt.Println("Script file is valid!")
}

type ScriptValidator struct {
	errors   []string
	warnings []string
}

func (v *ScriptValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	store, err := script.Load(data)
	if err != nil {
		return err
	}

	v.errors = nil
	v.warnings = nil
	v.validateStore(store)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *ScriptValidator) validateStore(s *script.Store) {
	reachable := map[string]bool{}
	var walk func(id string)
	walk = func(id string) {
		if reachable[id] {
			return
		}
		n, ok := s.Get(id)
		if !ok {
			return
		}
		reachable[id] = true
		if n.Next != "" {
			walk(n.Next)
		}
		for _, c := range n.Choices {
			walk(c.Jump)
		}
	}
	walk(s.StartID())

	for _, id := range s.IDs() {
		n, _ := s.Get(id)
		v.validateNode(s, n)
		if !reachable[id] {
			v.addWarning(fmt.Sprintf("node %q is unreachable from start node %q", id, s.StartID()))
		}
	}
}

func (v *ScriptValidator) validateNode(s *script.Store, n *script.Node) {
	v.validateTarget(s, n.Next, fmt.Sprintf("node %q next", n.ID))
	for i, c := range n.Choices {
		v.validateTarget(s, c.Jump, fmt.Sprintf("node %q choice %d", n.ID, i))
	}

	if n.Kind() == script.KindChoice && n.Next != "" {
		// the engine never consults next on a choice node
		v.addWarning(fmt.Sprintf("node %q declares next %q, but choice nodes only follow their options", n.ID, n.Next))
	}

	if n.Minigame != nil && !knownMinigames[*n.Minigame] {
		v.addWarning(fmt.Sprintf("node %q selects minigame %d; the player registers ids 1-3", n.ID, *n.Minigame))
	}

	if n.Kind() == script.KindDialogue && n.Next == "" && n.Minigame == nil {
		v.addError(fmt.Sprintf("node %q is a dead end: no next, no choices, and not an end node", n.ID))
	}
}

func (v *ScriptValidator) validateTarget(s *script.Store, target, context string) {
	if target == "" {
		return
	}
	if _, err := s.Resolve(target); err != nil {
		v.addError(fmt.Sprintf("%s: %v", context, err))
	}
}

func (v *ScriptValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *ScriptValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, msg)
}
