/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package registry

// Job class schemas. Input schemas close the object with
// additionalProperties so that unknown fields are rejected at the edge.

const testInputSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["id"],
	"properties": {
		"id": {"type": "number"}
	},
	"additionalProperties": false
}`

const criteriaPolygonsInputSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["region"],
	"properties": {
		"region": {"type": "string", "minLength": 1},
		"reef_type": {"type": "string"},
		"criteria": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"properties": {
					"min": {"type": "number"},
					"max": {"type": "number"}
				},
				"additionalProperties": false
			}
		}
	},
	"additionalProperties": false
}`

const criteriaPolygonsResultSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"polygonCount": {"type": "integer", "minimum": 0},
		"totalAreaSqKm": {"type": "number"}
	},
	"additionalProperties": false
}`
