package common

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var templatePattern = regexp.MustCompile(`\{\{\s*([^}]+)\s*}}`)

// Template resolves {{ env.NAME || fallback }} expressions. Parts are tried
// left to right; env parts are used when set, any other part is taken as a
// literal, or as yaml when it parses as json.
func Template(content []byte) []byte {
	return templatePattern.ReplaceAllFunc(content, func(match []byte) []byte {
		expression := strings.TrimSpace(string(match[2 : len(match)-2]))

		for _, part := range strings.Split(expression, "||") {
			part = strings.TrimSpace(part)
			if key, ok := strings.CutPrefix(part, "env."); ok {
				if value := os.Getenv(key); value != "" {
					return []byte(value)
				}
				continue
			}
			if part == "" {
				continue
			}
			if value, err := Nested(part); err == nil {
				return []byte(value)
			}
			return []byte(part)
		}

		return []byte("")
	})
}

// Nested renders a json literal as inline yaml.
func Nested(value string) (string, error) {
	var result any
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return "", err
	}

	node := new(yaml.Node)
	if err := node.Encode(result); err != nil {
		return "", err
	}
	node.Style = yaml.FlowStyle

	bytes, err := yaml.Marshal(node)
	if err != nil {
		return "", err
	}

	return strings.TrimSuffix(string(bytes), "\n"), nil
}
