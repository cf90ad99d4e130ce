package config

// workloadSchema is the JSON schema a workload config file must satisfy.
// Durations are strings in Go time.ParseDuration syntax.
const workloadSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "name": {
      "type": "string",
      "minLength": 1
    },
    "workers": {
      "type": "integer",
      "minimum": 1
    },
    "duration": {
      "type": "string",
      "pattern": "^([0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$"
    },
    "interval": {
      "type": "string",
      "pattern": "^([0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$"
    },
    "failureRate": {
      "type": "number",
      "minimum": 0,
      "maximum": 1
    },
    "listen": {
      "type": "string"
    }
  },
  "additionalProperties": false
}`
