package server

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/cone-lines/internal/config"
	"github.com/ironsheep/cone-lines/internal/detection"
	"github.com/ironsheep/cone-lines/internal/imaging"
	"github.com/ironsheep/cone-lines/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "cone_fit_boundaries").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"tool":  params.Name,
			"error": err,
		}).Warn("Tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "cone_find_apexes":
		return s.handleConeFindApexes(args)
	case "cone_fit_boundaries":
		return s.handleConeFitBoundaries(args)
	case "image_sample_lab":
		return s.handleImageSampleLab(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// coneArgs are the detection settings shared by the cone tools. Unset
// fields keep the defaults from config.Default.
type coneArgs struct {
	Path           string         `json:"path"`
	LoBounds       *config.Bounds `json:"lo_bounds"`
	HiBounds       *config.Bounds `json:"hi_bounds"`
	KernelRadius   *int           `json:"kernel_radius"`
	SwapRedBlue    *bool          `json:"swap_red_blue"`
	MinAllowedDist *int           `json:"min_allowed_dist"`
	SkipUnpaired   bool           `json:"skip_unpaired"`
}

func (a *coneArgs) toConfig() (*config.Config, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	cfg := config.Default()
	cfg.InputPath = a.Path
	if a.LoBounds != nil {
		cfg.LoBounds = *a.LoBounds
	}
	if a.HiBounds != nil {
		cfg.HiBounds = *a.HiBounds
	}
	if a.KernelRadius != nil {
		cfg.KernelRadius = *a.KernelRadius
	}
	if a.SwapRedBlue != nil {
		cfg.SwapRedBlue = *a.SwapRedBlue
	}
	if a.MinAllowedDist != nil {
		cfg.MinAllowedDist = *a.MinAllowedDist
	}
	cfg.SkipUnpaired = a.SkipUnpaired

	return cfg, nil
}

// === Cone Detection Handlers ===

type findApexesResult struct {
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	MaskPixels int               `json:"mask_pixels"`
	Count      int               `json:"count"`
	Apexes     []detection.Point `json:"apexes"`
}

func (s *Server) handleConeFindApexes(args json.RawMessage) (interface{}, error) {
	var a coneArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.toConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	mask, err := imaging.BuildMask(img, pipeline.MaskOptions(cfg))
	if err != nil {
		return nil, err
	}

	apexes := detection.ScanApexes(mask)
	return &findApexesResult{
		Width:      mask.Width,
		Height:     mask.Height,
		MaskPixels: mask.Count(),
		Count:      len(apexes),
		Apexes:     apexes,
	}, nil
}

type fitBoundariesArgs struct {
	coneArgs
	OutputPath string `json:"output_path"`
}

type fitBoundariesResult struct {
	Apexes     []detection.Point         `json:"apexes"`
	Skipped    []int                     `json:"skipped,omitempty"`
	Lines      [2]detection.BoundaryLine `json:"lines"`
	OutputPath string                    `json:"output_path,omitempty"`
	Image      *imaging.EncodedImage     `json:"image"`
}

func (s *Server) handleConeFitBoundaries(args json.RawMessage) (interface{}, error) {
	var a fitBoundariesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.toConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	analysis, err := pipeline.Analyze(img, cfg, s.log)
	if err != nil {
		return nil, err
	}
	out, err := pipeline.Render(img, analysis.Result, cfg)
	if err != nil {
		return nil, err
	}

	if a.OutputPath != "" {
		if err := imaging.SaveImage(out, a.OutputPath); err != nil {
			return nil, err
		}
		// A later call may read the file just written.
		s.cache.Evict(a.OutputPath)
	}

	encoded, err := imaging.EncodePNG(out)
	if err != nil {
		return nil, err
	}

	return &fitBoundariesResult{
		Apexes:     analysis.Result.Apexes,
		Skipped:    analysis.Result.Pairing.Skipped,
		Lines:      analysis.Result.Lines,
		OutputPath: a.OutputPath,
		Image:      encoded,
	}, nil
}

// === Image Information Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageSampleLabArgs struct {
	Path        string `json:"path"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	SwapRedBlue *bool  `json:"swap_red_blue"`
}

func (s *Server) handleImageSampleLab(args json.RawMessage) (interface{}, error) {
	var a imageSampleLabArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	swap := config.Default().SwapRedBlue
	if a.SwapRedBlue != nil {
		swap = *a.SwapRedBlue
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleLab(img, a.X, a.Y, swap)
}
