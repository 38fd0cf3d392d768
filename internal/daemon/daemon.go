package daemon

// Request handler for the line-oriented JSON protocol: one request object
// per input line, one response object per output line, served strictly in
// arrival order. The transport loop lives in cmd/silicad; this package owns
// decoding, dispatch, and response shaping so it can be tested without a
// process.

import (
	"encoding/json"
	stderrors "errors"

	"github.com/tliron/commonlog"

	"silica/internal/errors"
	"silica/internal/ir"
	"silica/internal/netlist"
	"silica/internal/pipeline"
	"silica/internal/schedule"
)

var log = commonlog.GetLogger("silica.daemon")

// Request is one decoded protocol request.
type Request struct {
	Op         string   `json:"op"`
	Netlist    string   `json:"netlist"`
	Passes     []string `json:"passes,omitempty"`
	FixedPoint bool     `json:"fixed_point,omitempty"`
	Policy     string   `json:"policy,omitempty"`
	Stages     int      `json:"stages,omitempty"`
}

// ErrorBody is the error half of a response.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Response is one protocol response.
type Response struct {
	OK     bool        `json:"ok"`
	Result interface{} `json:"result,omitempty"`
	Error  *ErrorBody  `json:"error,omitempty"`
}

// Block-level response DTOs.

type portDTO struct {
	Name      string   `json:"name"`
	Direction string   `json:"direction"`
	Role      string   `json:"role"`
	Pins      []string `json:"pins"`
}

type blockDTO struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Behavior    string    `json:"behavior"`
	BitWidth    int       `json:"bit_width"`
	Description string    `json:"description"`
	Components  []string  `json:"components"`
	Ports       []portDTO `json:"ports"`
}

type passDTO struct {
	Pass    string `json:"pass"`
	Success bool   `json:"success"`
	Changes int    `json:"changes"`
	Error   string `json:"error,omitempty"`
}

type stageOpDTO struct {
	Target string `json:"target"`
	Stage  int    `json:"stage"`
}

type moduleDTO struct {
	ID        string       `json:"id"`
	IR        string       `json:"ir"`
	Optimized string       `json:"optimized"`
	Preserved bool         `json:"preserved"`
	Passes    []passDTO    `json:"passes"`
	NumStages int          `json:"num_stages"`
	CombOps   []stageOpDTO `json:"comb_ops"`
	RegOps    []stageOpDTO `json:"reg_ops"`
}

type diagnosticDTO struct {
	Level   string `json:"level"`
	Code    string `json:"code"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

type analyzeDTO struct {
	Circuit     string          `json:"circuit"`
	Diagnostics []diagnosticDTO `json:"diagnostics"`
	Blocks      []blockDTO      `json:"blocks"`
	Modules     []moduleDTO     `json:"modules"`
}

// HandleLine decodes one request line and dispatches it.
func HandleLine(line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return fail(errors.InvalidArgumentf("", "malformed request: %v", err))
	}
	return Handle(req)
}

// Handle dispatches one request.
func Handle(req Request) Response {
	log.Infof("request op=%s", req.Op)
	switch req.Op {
	case "analyze", "blocks", "ir", "schedule":
		return analyze(req)
	default:
		return fail(errors.InvalidArgumentf("", "unknown op %q", req.Op))
	}
}

func analyze(req Request) Response {
	c, err := netlist.Load("request", req.Netlist)
	if err != nil {
		return fail(err)
	}

	opts := pipeline.Options{
		Passes:     req.Passes,
		FixedPoint: req.FixedPoint,
		Schedule: schedule.Config{
			Policy:     schedule.Policy(req.Policy),
			StageCount: req.Stages,
		},
	}
	report, err := pipeline.Run(c, opts)
	if err != nil {
		return fail(err)
	}

	result := analyzeDTO{Circuit: report.Circuit}
	for _, d := range report.Diagnostics {
		result.Diagnostics = append(result.Diagnostics, diagnosticDTO{
			Level: string(d.Level), Code: d.Code, Subject: d.Subject, Message: d.Message,
		})
	}
	for _, blk := range report.Blocks {
		result.Blocks = append(result.Blocks, blockToDTO(blk))
		result.Modules = append(result.Modules, moduleToDTO(blk))
	}

	// Narrow ops strip the response down to the relevant slice.
	switch req.Op {
	case "blocks":
		return ok(struct {
			Circuit string     `json:"circuit"`
			Blocks  []blockDTO `json:"blocks"`
		}{result.Circuit, result.Blocks})
	case "ir", "schedule":
		return ok(struct {
			Circuit string      `json:"circuit"`
			Modules []moduleDTO `json:"modules"`
		}{result.Circuit, result.Modules})
	}
	return ok(result)
}

func blockToDTO(blk pipeline.BlockResult) blockDTO {
	dto := blockDTO{
		ID:          blk.Block.ID,
		Kind:        string(blk.Block.Kind),
		Behavior:    string(blk.Behavior.BehaviorKind),
		BitWidth:    blk.Behavior.BitWidth,
		Description: blk.Behavior.Description,
		Components:  blk.Block.Components,
	}
	roleByName := map[string]string{}
	for _, p := range blk.Behavior.Ports {
		roleByName[p.PortName] = string(p.Role)
	}
	for _, p := range blk.Block.Ports {
		dto.Ports = append(dto.Ports, portDTO{
			Name:      p.Name,
			Direction: string(p.Direction),
			Role:      roleByName[p.Name],
			Pins:      p.Pins,
		})
	}
	return dto
}

func moduleToDTO(blk pipeline.BlockResult) moduleDTO {
	dto := moduleDTO{
		ID:        blk.Module.ID,
		IR:        ir.Print(blk.Module),
		Optimized: ir.Print(blk.Optimized),
		Preserved: blk.Preserved,
		NumStages: blk.Scheduled.NumStages,
	}
	for _, s := range blk.Summaries {
		dto.Passes = append(dto.Passes, passDTO(s))
	}
	for _, op := range blk.Scheduled.CombOps {
		dto.CombOps = append(dto.CombOps, stageOpDTO{Target: op.Expr.Target, Stage: op.Stage})
	}
	for _, op := range blk.Scheduled.RegOps {
		dto.RegOps = append(dto.RegOps, stageOpDTO{Target: op.Reg.Target, Stage: op.Stage})
	}
	return dto
}

func ok(result interface{}) Response {
	return Response{OK: true, Result: result}
}

func fail(err error) Response {
	log.Errorf("request failed: %v", err)
	body := &ErrorBody{Kind: string(errors.KindOf(err)), Message: err.Error()}
	var e *errors.Error
	if stderrors.As(err, &e) {
		body.Code = e.Code
		body.Message = e.Message
	}
	return Response{OK: false, Error: body}
}
