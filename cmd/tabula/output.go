package main

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/asaidimu/go-tabula/core/query"
	"gopkg.in/yaml.v3"
)

// pairOutput is the serialized form of a key/value pair.
type pairOutput struct {
	Key   string  `json:"key" yaml:"key"`
	Value *string `json:"value" yaml:"value"`
}

// encode writes v in the requested format.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// recordsYAML builds the YAML form of a result set: a mapping keyed by
// source offset when offsets are preserved, a sequence otherwise.
func recordsYAML(rs *query.ResultSet) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if rs.IsRecordOffsetPreserved() {
		node = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	for e, err := range rs.Records() {
		if err != nil {
			return nil, err
		}
		v, err := e.Record.MarshalYAML()
		if err != nil {
			return nil, err
		}
		value, ok := v.(*yaml.Node)
		if !ok {
			return nil, fmt.Errorf("unexpected YAML value %T", v)
		}
		if node.Kind == yaml.MappingNode {
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(e.Key)})
		}
		node.Content = append(node.Content, value)
	}
	return node, nil
}

func writeRecords(w io.Writer, format string, rs *query.ResultSet) error {
	if format == "yaml" {
		node, err := recordsYAML(rs)
		if err != nil {
			return err
		}
		return encode(w, format, node)
	}
	return encode(w, format, rs)
}

func writeColumn(w io.Writer, format string, values iter.Seq2[string, error]) error {
	out := []string{}
	for v, err := range values {
		if err != nil {
			return err
		}
		out = append(out, v)
	}
	return encode(w, format, out)
}

func writePairs(w io.Writer, format string, pairs iter.Seq2[query.Pair, error]) error {
	out := []pairOutput{}
	for p, err := range pairs {
		if err != nil {
			return err
		}
		out = append(out, pairOutput{Key: p.Key, Value: p.Value})
	}
	return encode(w, format, out)
}
