// Package data renders the user list as machine-readable documents.
package data

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/render"
)

// JSON renders users as the array the REST backend serves.
type JSON struct{}

var _ render.Renderer = JSON{}

func (JSON) Name() string        { return "json" }
func (JSON) ContentType() string { return "application/json" }

func (JSON) Render(_ context.Context, view render.View) ([]byte, error) {
	users := view.Users
	if users == nil {
		users = []model.User{}
	}
	out, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// YAML renders users as a YAML sequence with keys in registry order.
type YAML struct{}

var _ render.Renderer = YAML{}

func (YAML) Name() string        { return "yaml" }
func (YAML) ContentType() string { return "application/yaml" }

func (YAML) Render(_ context.Context, view render.View) ([]byte, error) {
	if view.Registry == nil {
		return nil, errors.New("data: view has no registry")
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, user := range view.Users {
		seq.Content = append(seq.Content, userNode(view.Registry, user))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func userNode(reg *model.Registry, user model.User) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key, value string) {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
		)
	}
	add("id", user.ID.String())
	for _, name := range reg.Names() {
		add(name, user.Get(name))
	}
	return node
}

// Register adds the JSON and YAML renderers to registry.
func Register(registry *render.Registry) error {
	for _, renderer := range []render.Renderer{JSON{}, YAML{}} {
		if err := registry.Register(renderer); err != nil {
			return err
		}
	}
	return nil
}
