package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `
meta:
  start: intro
nodes:
  - id: intro
    bg: classroom
    speaker: narrator
    text: "A quiet morning."
    next: greet
  - id: greet
    speaker: Aiko
    text: "Hey! You made it."
    next: fork
    ch:
      - name: aiko
        pos: left
        expression: smile
  - id: fork
    type: choice
    text: "What do you say?"
    choices:
      - text: "Of course."
        jump: warm
      - text: "Barely."
        goto: cold
  - id: warm
    speaker: Aiko
    text: "Knew it."
    next: END
  - id: cold
    speaker: Aiko
    text: "Typical."
    next: END
`

func TestLoad(t *testing.T) {
	s, err := Load([]byte(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "intro", s.StartID())
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []string{"intro", "greet", "fork", "warm", "cold"}, s.IDs())

	greet, ok := s.Get("greet")
	require.True(t, ok)
	assert.Equal(t, KindDialogue, greet.Kind())
	assert.Equal(t, "Aiko", greet.Speaker)
	require.Len(t, greet.Stage, 1)
	assert.Equal(t, "left", greet.Stage[0].Position())
	assert.Equal(t, "smile", greet.Stage[0].Expr())

	fork, ok := s.Get("fork")
	require.True(t, ok)
	assert.Equal(t, KindChoice, fork.Kind())
	require.Len(t, fork.Choices, 2)
	assert.Equal(t, "warm", fork.Choices[0].Jump)
	assert.Equal(t, "cold", fork.Choices[1].Jump, "goto should alias jump")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{
			name:    "empty document",
			doc:     "",
			wantMsg: "document is empty",
		},
		{
			name:    "root is a sequence",
			doc:     "- a\n- b\n",
			wantMsg: "root must be a mapping",
		},
		{
			name:    "no nodes",
			doc:     "meta:\n  start: x\n",
			wantMsg: "nodes is missing",
		},
		{
			name:    "node without id",
			doc:     "nodes:\n  - text: hi\n",
			wantMsg: "missing an id",
		},
		{
			name:    "duplicate id",
			doc:     "nodes:\n  - id: a\n    next: a\n  - id: a\n    next: END\n",
			wantMsg: `duplicate node id "a"`,
		},
		{
			name:    "unknown type",
			doc:     "nodes:\n  - id: a\n    type: cutscene\n",
			wantMsg: `unsupported type "cutscene"`,
		},
		{
			name:    "choice without options",
			doc:     "nodes:\n  - id: a\n    type: choice\n    text: pick\n",
			wantMsg: "non-empty choices list",
		},
		{
			name:    "choice option without target",
			doc:     "nodes:\n  - id: a\n    type: choice\n    choices:\n      - text: hm\n",
			wantMsg: "missing a goto/jump target",
		},
		{
			name:    "start names no node",
			doc:     "meta:\n  start: missing\nnodes:\n  - id: a\n    next: END\n",
			wantMsg: `start id "missing" does not exist`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			require.Error(t, err)
			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_StartDefaultsToFirstNode(t *testing.T) {
	s, err := Load([]byte("nodes:\n  - id: first\n    next: END\n  - id: second\n    next: END\n"))
	require.NoError(t, err)
	assert.Equal(t, "first", s.StartID())
}

func TestResolve_End(t *testing.T) {
	s, err := Load([]byte(sampleDoc))
	require.NoError(t, err)

	for _, target := range []string{"END", "end", " End "} {
		n, err := s.Resolve(target)
		require.NoError(t, err, target)
		assert.Equal(t, KindEnd, n.Kind())
		assert.Equal(t, TerminalText, n.Text)
	}

	// resolution must not grow the node table
	first, err := s.Resolve("END")
	require.NoError(t, err)
	second, err := s.Resolve("end")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 5, s.Len())
	_, declared := s.Get(first.ID)
	assert.False(t, declared, "sentinel must stay out of the table")
}

func TestResolve_EndShadowedByNode(t *testing.T) {
	s, err := Load([]byte("nodes:\n  - id: END\n    text: custom finale\n    type: end\n"))
	require.NoError(t, err)

	n, err := s.Resolve("END")
	require.NoError(t, err)
	assert.Equal(t, "custom finale", n.Text, "a declared END node wins over the sentinel")
}

func TestResolve_UnknownTarget(t *testing.T) {
	s, err := Load([]byte(sampleDoc))
	require.NoError(t, err)

	_, err = s.Resolve("nowhere")
	require.Error(t, err)
	var re *ReferenceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "nowhere", re.Target)
	assert.Equal(t, `no such node: "nowhere"`, err.Error())
}

func TestNode_Kind(t *testing.T) {
	assert.Equal(t, KindDialogue, (&Node{}).Kind())
	assert.Equal(t, KindDialogue, (&Node{Type: "dialogue"}).Kind())
	assert.Equal(t, KindChoice, (&Node{Type: "choice"}).Kind())
	assert.Equal(t, KindEnd, (&Node{Type: "end"}).Kind())
}

func TestNode_IsNarrator(t *testing.T) {
	assert.True(t, (&Node{}).IsNarrator())
	assert.True(t, (&Node{Speaker: "narrator"}).IsNarrator())
	assert.True(t, (&Node{Speaker: "Narrator"}).IsNarrator())
	assert.False(t, (&Node{Speaker: "Aiko"}).IsNarrator())
}
