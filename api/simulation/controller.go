package simulationapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/beka-birhanu/vinom-biolab/api/identity"
	"github.com/beka-birhanu/vinom-biolab/infrastruture/journal"
	"github.com/beka-birhanu/vinom-biolab/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultTokenTTL = 12 * time.Hour
	MinAutoRunDelay = 50 * time.Millisecond
	MaxAutoRunDelay = 5 * time.Second
)

// SimulationController serves session lifecycle, stepping and auto-run.
type SimulationController struct {
	sessions     i.SessionManager
	tokenizer    i.Tokenizer
	logger       i.Logger
	tokenTTL     time.Duration
	defaultDelay time.Duration
	upgrader     websocket.Upgrader
}

// Config holds the dependencies of a SimulationController.
type Config struct {
	Sessions     i.SessionManager
	Tokenizer    i.Tokenizer
	Logger       i.Logger
	TokenTTL     time.Duration // Lifetime of session tokens; defaults to 12h.
	DefaultDelay time.Duration // Auto-run delay when none is requested; clamped.
}

// NewSimulationController initializes a SimulationController.
func NewSimulationController(c Config) (*SimulationController, error) {
	if c.Sessions == nil || c.Tokenizer == nil || c.Logger == nil {
		return nil, errors.New("simulation controller requires sessions, tokenizer and logger")
	}

	sc := &SimulationController{
		sessions:     c.Sessions,
		tokenizer:    c.Tokenizer,
		logger:       c.Logger,
		tokenTTL:     c.TokenTTL,
		defaultDelay: clampDelay(c.DefaultDelay),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	if sc.tokenTTL <= 0 {
		sc.tokenTTL = defaultTokenTTL
	}
	return sc, nil
}

// RegisterPublic registers public routes.
func (sc *SimulationController) RegisterPublic(route *gin.RouterGroup) {
	route.POST("/sessions", sc.create)
}

// RegisterProtected registers routes that need a token for the addressed session.
func (sc *SimulationController) RegisterProtected(route *gin.RouterGroup) {
	session := route.Group("/sessions/:ID", identity.SessionOwner("ID"))
	{
		session.GET("", sc.state)
		session.DELETE("", sc.close)
		session.POST("/step", sc.step)
		session.POST("/reset", sc.reset)
		session.GET("/render", sc.render)
		session.GET("/journal", sc.journal)
		session.GET("/run", sc.run)
	}
}

// create starts a session and issues its token.
func (sc *SimulationController) create(ctx *gin.Context) {
	id, state, err := sc.sessions.NewSession(ctx)
	if err != nil {
		sc.respondError(ctx, err)
		return
	}

	token, err := sc.tokenizer.Generate(map[string]interface{}{identity.SessionClaim: id.String()}, sc.tokenTTL)
	if err != nil {
		_ = sc.sessions.Close(id)
		sc.logger.Error(fmt.Sprintf("issuing token for session %s: %v", id, err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue session token"})
		return
	}

	ctx.JSON(http.StatusCreated, &SessionResponse{ID: id, Token: token, State: state})
}

func (sc *SimulationController) state(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}
	state, err := sc.sessions.State(id)
	if err != nil {
		sc.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

func (sc *SimulationController) step(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}
	state, moved, err := sc.sessions.Step(ctx, id)
	if err != nil {
		sc.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, &StepResponse{State: state, StepSuccess: moved})
}

func (sc *SimulationController) reset(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}
	state, err := sc.sessions.Reset(ctx, id)
	if err != nil {
		sc.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

func (sc *SimulationController) close(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}
	if err := sc.sessions.Close(id); err != nil {
		sc.respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (sc *SimulationController) render(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}
	out, err := sc.sessions.Render(id)
	if err != nil {
		sc.respondError(ctx, err)
		return
	}
	ctx.String(http.StatusOK, out)
}

// journal downloads the session journal as zstd compressed JSON lines.
func (sc *SimulationController) journal(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}
	entries, err := sc.sessions.Journal(id)
	if err != nil {
		sc.respondError(ctx, err)
		return
	}

	var buf bytes.Buffer
	if err := journal.WriteZstdJSONL(&buf, entries); err != nil {
		sc.logger.Error(fmt.Sprintf("exporting journal of session %s: %v", id, err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not export journal"})
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="journal-%s.jsonl.zst"`, id))
	ctx.Data(http.StatusOK, journal.ContentType, buf.Bytes())
}

func (sc *SimulationController) respondError(ctx *gin.Context, err error) {
	if errors.Is(err, i.ErrSessionNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	sc.logger.Error(fmt.Sprintf("%s %s: %v", ctx.Request.Method, ctx.FullPath(), err))
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func sessionID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "malformed session id"})
		return uuid.Nil, false
	}
	return id, true
}
