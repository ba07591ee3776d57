package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates a JSON schema for the Config struct, nested sections are inlined
func GenerateSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true, FieldNameTag: "yaml"}
	return r.Reflect(&Config{})
}

// VerifyKeys checks a decoded YAML document against the config schema and reports unknown keys
func VerifyKeys(raw map[string]any) error {
	var unknown []string
	walkKeys(GenerateSchema(), raw, "", &unknown)
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))
}

func walkKeys(schema *jsonschema.Schema, raw map[string]any, prefix string, unknown *[]string) {
	if schema == nil || schema.Properties == nil || schema.Properties.Len() == 0 {
		return
	}
	for k, v := range raw {
		prop, ok := schema.Properties.Get(k)
		if !ok {
			*unknown = append(*unknown, prefix+k)
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			walkKeys(prop, nested, prefix+k+".", unknown)
		}
	}
}
