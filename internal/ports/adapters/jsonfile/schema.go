package jsonfile

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/forPelevin/vismanifest/internal/types"
)

func ptr[T any](v T) *T { return &v }

func str() *jsonschema.Schema { return &jsonschema.Schema{Type: "string"} }

func strList() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Items: str()}
}

var screenplaySchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"scenes"},
	Properties: map[string]*jsonschema.Schema{
		"title": str(),
		"scenes": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type:     "object",
				Required: []string{"scene_number", "elements"},
				Properties: map[string]*jsonschema.Schema{
					"scene_number": {Type: "integer", Minimum: ptr(1.0)},
					"slugline":     str(),
					"int_ext":      str(),
					"time_of_day":  str(),
					"location":     str(),
					"elements": {
						Type: "array",
						Items: &jsonschema.Schema{
							Type:     "object",
							Required: []string{"type", "text"},
							Properties: map[string]*jsonschema.Schema{
								"type": {
									Type: "string",
									Enum: []any{"action", "character", "dialogue", "parenthetical", "transition"},
								},
								"text": str(),
							},
						},
					},
					"characters_present": strList(),
				},
			},
		},
	},
}

var shotListSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"scenes"},
	Properties: map[string]*jsonschema.Schema{
		"scenes": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type:     "object",
				Required: []string{"scene_number", "shots"},
				Properties: map[string]*jsonschema.Schema{
					"scene_number": {Type: "integer", Minimum: ptr(1.0)},
					"slugline":     str(),
					"shots": {
						Type: "array",
						Items: &jsonschema.Schema{
							Type:     "object",
							Required: []string{"shot_id", "shot_type"},
							Properties: map[string]*jsonschema.Schema{
								"shot_id":       {Type: "string", MinLength: ptr(1)},
								"scene_number":  {Type: "integer", Minimum: ptr(0.0)},
								"shot_number":   {Type: "integer", Minimum: ptr(0.0)},
								"global_order":  {Type: "integer", Minimum: ptr(0.0)},
								"shot_type":     str(),
								"duration":      {Type: "number", Maximum: ptr(float64(types.MaxShotDuration))},
								"visual_prompt": str(),
								"characters":    strList(),
							},
						},
					},
				},
			},
		},
	},
}

var rosterSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"characters"},
	Properties: map[string]*jsonschema.Schema{
		"characters": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type:     "object",
				Required: []string{"name"},
				Properties: map[string]*jsonschema.Schema{
					"name":       {Type: "string", MinLength: ptr(1)},
					"role":       str(),
					"descriptor": str(),
				},
			},
		},
	},
}
