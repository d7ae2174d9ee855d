package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/waterjug"
	"github.com/aretw0/waterjug/internal/classify"
	"github.com/aretw0/waterjug/internal/logging"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// RulesURI is the resource exposing the rule catalog.
const RulesURI = "waterjug://rules"

// SolveResult is the structured output of the solve tool.
type SolveResult struct {
	Problem domain.Problem `json:"problem" jsonschema_description:"The solved problem"`
	Moves   int            `json:"moves" jsonschema_description:"Number of moves in the shortest solution"`
	Path    domain.Path    `json:"path" jsonschema_description:"States from (0,0) to the goal"`
	Goal    string         `json:"goal" jsonschema_description:"Goal rule (R9 or R10)"`
	Steps   []string       `json:"steps" jsonschema_description:"Explanation of every step"`
}

// ClassifyResult is the structured output of the classify tool.
type ClassifyResult struct {
	Rule  string `json:"rule" jsonschema_description:"Rule id, e.g. R5"`
	Label string `json:"label" jsonschema_description:"Rule description"`
	Goal  string `json:"goal,omitempty" jsonschema_description:"Goal rule when a target was given and reached"`
}

type solveArgs struct {
	Puzzle string `mapstructure:"puzzle"`
	Cap1   int    `mapstructure:"cap1"`
	Cap2   int    `mapstructure:"cap2"`
	Target *int   `mapstructure:"target"`
}

type classifyArgs struct {
	PrevJug1 int  `mapstructure:"prev_jug1"`
	PrevJug2 int  `mapstructure:"prev_jug2"`
	Jug1     int  `mapstructure:"jug1"`
	Jug2     int  `mapstructure:"jug2"`
	Cap1     int  `mapstructure:"cap1"`
	Cap2     int  `mapstructure:"cap2"`
	Target   *int `mapstructure:"target"`
}

// Server wraps the solver and exposes it as an MCP Server.
type Server struct {
	solver    ports.Solver
	catalog   ports.PuzzleCatalog
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithCatalog enables the puzzle argument of solve and the list_puzzles tool.
func WithCatalog(c ports.PuzzleCatalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(solver ports.Solver, opts ...Option) *Server {
	s := &Server{
		solver:    solver,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("waterjug-mcp", strings.TrimSpace(waterjug.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: solve
	solveTool := mcp.NewTool("solve",
		mcp.WithDescription("Find the shortest sequence of fill, empty and pour moves that leaves the target amount in either jug."),
		mcp.WithNumber("cap1", mcp.Description("Capacity of jug 1 (>= 1)")),
		mcp.WithNumber("cap2", mcp.Description("Capacity of jug 2 (>= 1)")),
		mcp.WithNumber("target", mcp.Description("Amount to measure (>= 0)")),
		mcp.WithString("puzzle", mcp.Description("Catalog puzzle ID, used instead of cap1/cap2/target")),
		mcp.WithOutputSchema[SolveResult](),
	)
	s.mcpServer.AddTool(solveTool, mcp.NewStructuredToolHandler(s.handleSolve))

	// TOOL: classify
	classifyTool := mcp.NewTool("classify",
		mcp.WithDescription("Name the production rule that explains a transition between two jug states."),
		mcp.WithNumber("prev_jug1", mcp.Required(), mcp.Description("Jug 1 before the move")),
		mcp.WithNumber("prev_jug2", mcp.Required(), mcp.Description("Jug 2 before the move")),
		mcp.WithNumber("jug1", mcp.Required(), mcp.Description("Jug 1 after the move")),
		mcp.WithNumber("jug2", mcp.Required(), mcp.Description("Jug 2 after the move")),
		mcp.WithNumber("cap1", mcp.Required(), mcp.Description("Capacity of jug 1")),
		mcp.WithNumber("cap2", mcp.Required(), mcp.Description("Capacity of jug 2")),
		mcp.WithNumber("target", mcp.Description("Optional target, to report goal arrival")),
		mcp.WithOutputSchema[ClassifyResult](),
	)
	s.mcpServer.AddTool(classifyTool, mcp.NewStructuredToolHandler(s.handleClassify))

	// TOOL: list_rules
	s.mcpServer.AddTool(mcp.NewTool("list_rules",
		mcp.WithDescription("List the twelve production rules."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(s.rulesJSON()), nil
	})

	if s.catalog == nil {
		return
	}

	// TOOL: list_puzzles
	s.mcpServer.AddTool(mcp.NewTool("list_puzzles",
		mcp.WithDescription("List the named puzzles of the catalog."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		puzzles, err := s.catalog.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(puzzles)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       integralNumbers,
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}

// integralNumbers rejects JSON numbers with a fractional part before the weak
// decoder truncates them into int fields.
func integralNumbers(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
		return data, nil
	}
	for to.Kind() == reflect.Pointer {
		to = to.Elem()
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not an integer", data)
	}
	return data, nil
}

func (s *Server) handleSolve(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SolveResult, error) {
	var in solveArgs
	if err := decodeArgs(args, &in); err != nil {
		return SolveResult{}, fmt.Errorf("invalid arguments: %w", err)
	}

	var p domain.Problem
	switch {
	case in.Puzzle != "":
		if s.catalog == nil {
			return SolveResult{}, errors.New("no puzzle catalog configured")
		}
		puzzle, err := s.catalog.Get(ctx, in.Puzzle)
		if err != nil {
			return SolveResult{}, err
		}
		p = puzzle.Problem
	case in.Target == nil:
		return SolveResult{}, errors.New("either puzzle or cap1, cap2 and target are required")
	default:
		p = domain.Problem{Capacities: domain.Capacities{Jug1: in.Cap1, Jug2: in.Cap2}, Target: *in.Target}
	}

	sol, err := s.solver.Solve(ctx, p)
	if err != nil {
		s.logger.Debug("MCP solve failed", "problem", p.String(), "err", err)
		return SolveResult{}, err
	}

	res := SolveResult{
		Problem: sol.Problem,
		Moves:   sol.Moves(),
		Path:    sol.Path,
		Goal:    sol.Goal.String(),
	}
	for _, step := range s.solver.Steps(sol) {
		res.Steps = append(res.Steps, step.Explanation)
	}
	return res, nil
}

func (s *Server) handleClassify(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ClassifyResult, error) {
	var in classifyArgs
	if err := decodeArgs(args, &in); err != nil {
		return ClassifyResult{}, fmt.Errorf("invalid arguments: %w", err)
	}
	if in.Cap1 < 1 || in.Cap2 < 1 {
		return ClassifyResult{}, &domain.ValidationError{Field: "cap", Message: "capacities must be at least 1", Err: domain.ErrInvalidCapacity}
	}

	prev := domain.JugState{Jug1: in.PrevJug1, Jug2: in.PrevJug2}
	curr := domain.JugState{Jug1: in.Jug1, Jug2: in.Jug2}
	rule := s.solver.Classify(prev, curr, domain.Capacities{Jug1: in.Cap1, Jug2: in.Cap2})

	res := ClassifyResult{Rule: rule.String(), Label: rule.Label()}
	if in.Target != nil {
		if goal, ok := classify.GoalRule(curr, *in.Target); ok {
			res.Goal = goal.String()
		}
	}
	return res, nil
}

func (s *Server) rulesJSON() string {
	rules := s.solver.Rules()
	infos := make([]domain.RuleInfo, len(rules))
	for i, r := range rules {
		infos[i] = r.Info()
	}
	jsonBytes, _ := json.Marshal(infos)
	return string(jsonBytes)
}

func (s *Server) registerResources() {
	// EXPOSE: waterjug://rules
	s.mcpServer.AddResource(mcp.NewResource(RulesURI, "Production Rules",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      RulesURI,
				MIMEType: "application/json",
				Text:     s.rulesJSON(),
			},
		}, nil
	})
}
