package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// coneProperties are the schema properties shared by the cone tools.
func coneProperties() map[string]interface{} {
	bounds := func(desc string) map[string]interface{} {
		return map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
			"minItems":    3,
			"maxItems":    3,
			"description": desc,
		}
	}

	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"lo_bounds": bounds("Inclusive lower L,a,b bounds in 8-bit units. Default [50,160,0]"),
		"hi_bounds": bounds("Inclusive upper L,a,b bounds in 8-bit units. Default [90,255,255]"),
		"kernel_radius": map[string]interface{}{
			"type":        "integer",
			"description": "Morphology kernel radius; 0 disables cleanup. Default 2",
			"default":     2,
		},
		"swap_red_blue": map[string]interface{}{
			"type":        "boolean",
			"description": "Convert with red and blue exchanged, as the default bounds expect. Default true",
			"default":     true,
		},
		"min_allowed_dist": map[string]interface{}{
			"type":        "integer",
			"description": "Neighbors must be strictly farther than this many pixels. Default 50",
			"default":     50,
		},
		"skip_unpaired": map[string]interface{}{
			"type":        "boolean",
			"description": "Drop apexes with no eligible neighbor instead of failing. Default false",
			"default":     false,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	fitProps := coneProperties()
	fitProps["output_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional path to save the annotated image. Format follows the extension",
	}

	return []Tool{
		// Cone Detection
		{
			Name:        "cone_find_apexes",
			Description: "Threshold the image in L*a*b* space, clean the mask and return the apex (topmost point) of every upward-pointing blob in scan order. Use this to tune bounds before fitting.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": coneProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "cone_fit_boundaries",
			Description: "Detect cone apexes, pair each with its nearest eligible neighbor, split the pairs by orientation and fit one line per group. Returns both lines and the annotated image as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": fitProps,
				"required":   []string{"path"},
			},
		},

		// Image Information
		{
			Name:        "image_sample_lab",
			Description: "Get the RGB and 8-bit L*a*b* value at a pixel, in the same units as the cone bounds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
					"swap_red_blue": map[string]interface{}{
						"type":        "boolean",
						"description": "Convert with red and blue exchanged. Default true",
						"default":     true,
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width, height and format of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
