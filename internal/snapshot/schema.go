package snapshot

// observationSchema describes the snapshot file. Only structure is checked
// here; port ranges and timestamp parsing are enforced after decoding.
const observationSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["meta", "observed"],
  "properties": {
    "meta": {
      "type": "object",
      "required": ["captured_at", "host", "port_list"],
      "properties": {
        "snapshot_id": {"type": "string"},
        "captured_at": {"type": "string", "minLength": 1},
        "host": {"type": "string", "minLength": 1},
        "port_list": {"type": "array", "items": {"type": "integer"}}
      }
    },
    "observed": {
      "type": "object",
      "required": ["open_ports"],
      "properties": {
        "open_ports": {"type": "array", "items": {"type": "integer"}}
      }
    }
  }
}`
