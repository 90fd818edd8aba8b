package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	itemsdomain "bringlist/internal/domain/items"
	listsdomain "bringlist/internal/domain/lists"
	"bringlist/internal/domain/session"
	"bringlist/internal/repository/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleDocument() document.Database {
	at := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	return document.Database{
		Items: []itemsdomain.Item{{ID: "item-1", Name: "Biberon"}},
		Lists: []listsdomain.List{{
			ID:        "list-1",
			ChildName: "Lucas",
			Items:     []listsdomain.ListItem{{ItemID: "item-1", Quantity: 2, Note: "chaud"}},
			CreatedAt: at,
			UpdatedAt: at,
		}},
	}
}

func TestWriteDocumentJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDocument(&buf, sampleDocument(), formatJSON))

	var decoded document.Database
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleDocument(), decoded)
	assert.Contains(t, buf.String(), `"childName": "Lucas"`)
}

func TestWriteDocumentYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDocument(&buf, sampleDocument(), formatYAML))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "lists")
	assert.Contains(t, decoded, "items")
	assert.Contains(t, buf.String(), "childName: Lucas")
	assert.Contains(t, buf.String(), "itemId: item-1")
}

func TestWriteDocumentUnknownFormat(t *testing.T) {
	err := writeDocument(&bytes.Buffer{}, sampleDocument(), "xml")
	assert.Error(t, err)
}

func TestHashPasswordCommand(t *testing.T) {
	for name, setup := range map[string]func(cmdArgs *[]string, stdin *strings.Reader){
		"argument": func(cmdArgs *[]string, stdin *strings.Reader) { *cmdArgs = []string{"hunter2"} },
		"stdin":    func(cmdArgs *[]string, stdin *strings.Reader) { stdin.Reset("hunter2\n") },
	} {
		t.Run(name, func(t *testing.T) {
			args := []string{}
			stdin := strings.NewReader("")
			setup(&args, stdin)

			var out bytes.Buffer
			cmd := newHashPasswordCmd()
			cmd.SetArgs(args)
			cmd.SetIn(stdin)
			cmd.SetOut(&out)
			require.NoError(t, cmd.Execute())

			verifier, err := session.NewBcryptVerifier(strings.TrimSpace(out.String()))
			require.NoError(t, err)
			assert.True(t, verifier.Verify("hunter2"))
			assert.False(t, verifier.Verify("hunter3"))
		})
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	cmd := newHashPasswordCmd()
	cmd.SetArgs([]string{})
	cmd.SetIn(strings.NewReader("\n"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
