package inventory

import "github.com/invopop/jsonschema"

// Schema describes the snapshot file format for producers of snapshots.
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(new(Snapshot))
	s.Title = "Inventory Snapshot"
	s.Description = "Inventory state rendered by the emoji-inventory overlay"
	return s
}
