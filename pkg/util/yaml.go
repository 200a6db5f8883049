package util

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLToJSON converts a YAML document to JSON keeping mapping keys in
// document order. The generic YAML-to-JSON converters round-trip through Go
// maps and come back alphabetized, which would destroy the metadata order
// the item model preserves; walking the yaml.v3 node tree keeps the
// document's order intact.
func YAMLToJSON(data []byte) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	if err := writeJSONNode(&buf, &root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSONToYAML converts a JSON document to YAML keeping object keys in
// document order, mirroring YAMLToJSON.
func JSONToYAML(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	node, err := yamlNodeFromJSON(dec)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

func yamlNodeFromJSON(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return yamlNodeFromToken(dec, tok)
}

func yamlNodeFromToken(dec *json.Decoder, tok json.Token) (*yaml.Node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: keyTok.(string)}
				value, err := yamlNodeFromJSON(dec)
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content, key, value)
			}
			_, err := dec.Token() // consume '}'
			return node, err
		case '[':
			node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for dec.More() {
				value, err := yamlNodeFromJSON(dec)
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content, value)
			}
			_, err := dec.Token() // consume ']'
			return node, err
		}
		return nil, fmt.Errorf("unexpected JSON delimiter %v", t)
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t}, nil
	case json.Number:
		tag := "!!int"
		if bytes.ContainsAny([]byte(t.String()), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: t.String()}, nil
	case bool:
		v := "false"
		if t {
			v = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	default:
		return nil, fmt.Errorf("unexpected JSON token %v", tok)
	}
}

func writeJSONNode(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeJSONNode(buf, n.Content[0])

	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSONNode(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONNode(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			buf.WriteString("null")
		case "!!bool", "!!int", "!!float":
			buf.WriteString(n.Value)
		default:
			// strings and anything exotic
			v, err := json.Marshal(n.Value)
			if err != nil {
				return err
			}
			buf.Write(v)
		}
		return nil

	case yaml.AliasNode:
		return writeJSONNode(buf, n.Alias)

	default:
		return fmt.Errorf("unsupported YAML node kind %d", n.Kind)
	}
}
