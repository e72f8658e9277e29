package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-userform/pkg/apidoc"
	"github.com/goliatone/go-userform/pkg/fields"
)

func newOpenAPICmd(a *app) *cobra.Command {
	var (
		output     string
		collection string
	)
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document of the users API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := fields.Users()
			opts := apidoc.Options{Collection: collection}
			if _, err := apidoc.Document(cmd.Context(), reg, opts); err != nil {
				return err
			}
			doc, err := apidoc.Raw(reg, opts)
			if err != nil {
				return err
			}
			switch output {
			case "json":
			case "yaml":
				if doc, err = jsonToYAML(doc); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown output format %q (want json or yaml)", output)
			}
			a.printf("%s\n", bytes.TrimSpace(doc))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	cmd.Flags().StringVar(&collection, "collection", "/users", "path of the users collection")
	return cmd
}

// jsonToYAML re-encodes a JSON document as block-style YAML, keeping key
// order.
func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	clearStyle(&node)
	return yaml.Marshal(&node)
}

func clearStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		clearStyle(child)
	}
}
